// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/scouthq/scout/pkg/plan"
)

// StepResult is the outcome of one executed plan step.
type StepResult struct {
	Index    int           `json:"index"`
	Intent   string        `json:"intent"`
	Subquery string        `json:"subquery"`
	Answer   string        `json:"answer"`
	Degraded bool          `json:"degraded,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Result is a completed (or partially completed) orchestration run.
type Result struct {
	RunID     string        `json:"run_id"`
	Question  string        `json:"question"`
	Plan      plan.Plan     `json:"plan"`
	Repairs   []plan.Repair `json:"repairs,omitempty"`
	Steps     []StepResult  `json:"steps"`
	Answer    string        `json:"answer"`
	Cancelled bool          `json:"cancelled,omitempty"`
}

// Synthesize combines step answers into the final answer. A single step
// passes through verbatim; multiple steps are labelled with their intent
// in plan order and joined by blank lines.
func Synthesize(steps []StepResult) string {
	switch len(steps) {
	case 0:
		return ""
	case 1:
		return steps[0].Answer
	}
	parts := make([]string, 0, len(steps))
	for _, sr := range steps {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToUpper(sr.Intent), sr.Answer))
	}
	return strings.Join(parts, "\n\n")
}
