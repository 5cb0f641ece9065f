// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry provides OpenTelemetry integration with rich attributes
// for orchestration observability.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for Scout orchestration telemetry.
// These follow OpenTelemetry naming conventions where applicable.
const (
	// Run attributes
	AttrRunID    = "scout.run.id"
	AttrQuestion = "scout.run.question"

	// Plan attributes
	AttrPlanSteps    = "scout.plan.steps"
	AttrPlanRepaired = "scout.plan.repaired_steps"
	AttrPlanFallback = "scout.plan.fallback"

	// Step attributes
	AttrStepIndex    = "scout.step.index"
	AttrStepIntent   = "scout.step.intent"
	AttrStepSubquery = "scout.step.subquery"
	AttrStepDegraded = "scout.step.degraded"

	// Tool attributes
	AttrToolName       = "scout.tool.name"
	AttrToolCallID     = "scout.tool.call_id"
	AttrToolDurationMs = "scout.tool.duration_ms"
	AttrToolSuccess    = "scout.tool.success"

	// LLM attributes (extending standard gen_ai conventions)
	AttrLLMModel        = "gen_ai.request.model"
	AttrLLMMessages     = "gen_ai.request.messages"
	AttrLLMTokensInput  = "gen_ai.usage.input_tokens"
	AttrLLMTokensOutput = "gen_ai.usage.output_tokens"
	AttrLLMDurationMs   = "gen_ai.duration_ms"
	AttrLLMToolCalls    = "gen_ai.tool_calls"
)

// RunAttributes returns common attributes for orchestration run spans.
func RunAttributes(runID, question string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
	}
	if question != "" {
		attrs = append(attrs, attribute.String(AttrQuestion, truncate(question, 200)))
	}
	return attrs
}

// PlanAttributes returns attributes describing a validated plan.
func PlanAttributes(steps, repaired int, fallback bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrPlanSteps, steps),
		attribute.Int(AttrPlanRepaired, repaired),
		attribute.Bool(AttrPlanFallback, fallback),
	}
}

// StepAttributes returns attributes for a plan step span.
func StepAttributes(index int, intent, subquery string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrStepIndex, index),
		attribute.String(AttrStepIntent, intent),
		attribute.String(AttrStepSubquery, truncate(subquery, 200)),
	}
}

// ToolCallAttributes returns attributes for a tool call span.
func ToolCallAttributes(name, callID string, durationMs float64, success bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrToolName, name),
		attribute.String(AttrToolCallID, callID),
		attribute.Float64(AttrToolDurationMs, durationMs),
		attribute.Bool(AttrToolSuccess, success),
	}
}

// LLMAttributes returns attributes for an LLM call span.
func LLMAttributes(model string, messages, toolCalls int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Int(AttrLLMMessages, messages),
	}
	if model != "" {
		attrs = append(attrs, attribute.String(AttrLLMModel, model))
	}
	if toolCalls > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMToolCalls, toolCalls))
	}
	return attrs
}

// LLMUsageAttributes returns token usage attributes for an LLM call span.
func LLMUsageAttributes(inputTokens, outputTokens int, durationMs float64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Float64(AttrLLMDurationMs, durationMs),
	}
	if inputTokens > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMTokensInput, inputTokens))
	}
	if outputTokens > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMTokensOutput, outputTokens))
	}
	return attrs
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
