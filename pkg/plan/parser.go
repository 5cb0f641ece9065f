// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseRawSteps extracts a raw plan from LLM output. Accepted shapes:
//
//	[{"subquery": "...", "intent": "..."}, ...]
//	{"plan": [...]}
//	{"steps": [...]}
//
// with or without a surrounding markdown code fence. An empty array is a
// valid (empty) plan; the repair pass handles it downstream.
func ParseRawSteps(content string) ([]RawStep, error) {
	payload := strings.TrimSpace(stripCodeFence(content))
	if payload == "" {
		return nil, fmt.Errorf("empty plan payload")
	}

	var steps []RawStep
	if err := json.Unmarshal([]byte(payload), &steps); err == nil {
		return steps, nil
	}

	var wrapped struct {
		Plan  []RawStep `json:"plan"`
		Steps []RawStep `json:"steps"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapped); err == nil {
		if wrapped.Plan != nil {
			return wrapped.Plan, nil
		}
		if wrapped.Steps != nil {
			return wrapped.Steps, nil
		}
	}

	// Some models wrap the array in prose. Take the outermost bracket pair.
	if start, end := strings.Index(payload, "["), strings.LastIndex(payload, "]"); start >= 0 && end > start {
		if err := json.Unmarshal([]byte(payload[start:end+1]), &steps); err == nil {
			return steps, nil
		}
	}

	return nil, fmt.Errorf("unrecognized plan payload")
}

func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:] // drop the language tag line
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
