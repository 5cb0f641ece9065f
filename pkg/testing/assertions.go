// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/scouthq/scout/pkg/llm"
	"github.com/scouthq/scout/pkg/orchestrator"
)

// Assertions provides assertion helpers for testing.
type Assertions struct {
	t      *testing.T
	failed bool
}

// NewAssertions creates a new assertions helper.
func NewAssertions(t *testing.T) *Assertions {
	return &Assertions{t: t}
}

// Failed returns true if any assertion has failed.
func (a *Assertions) Failed() bool {
	return a.failed
}

// AssertEqual asserts that two values are equal.
func (a *Assertions) AssertEqual(expected, actual any, msg string) {
	a.t.Helper()
	if expected != actual {
		a.t.Errorf("%s: expected %v, got %v", msg, expected, actual)
		a.failed = true
	}
}

// AssertTrue asserts that the value is true.
func (a *Assertions) AssertTrue(value bool, msg string) {
	a.t.Helper()
	if !value {
		a.t.Errorf("%s: expected true", msg)
		a.failed = true
	}
}

// AssertContains asserts that the string contains the substring.
func (a *Assertions) AssertContains(s, substr, msg string) {
	a.t.Helper()
	if !strings.Contains(s, substr) {
		a.t.Errorf("%s: %q does not contain %q", msg, s, substr)
		a.failed = true
	}
}

// AssertNoError asserts that the error is nil.
func (a *Assertions) AssertNoError(err error, msg string) {
	a.t.Helper()
	if err != nil {
		a.t.Errorf("%s: unexpected error: %v", msg, err)
		a.failed = true
	}
}

// AssertErrorContains asserts that the error message contains the substring.
func (a *Assertions) AssertErrorContains(err error, substr, msg string) {
	a.t.Helper()
	if err == nil {
		a.t.Errorf("%s: expected error containing %q, got nil", msg, substr)
		a.failed = true
		return
	}
	if !strings.Contains(err.Error(), substr) {
		a.t.Errorf("%s: error %q does not contain %q", msg, err.Error(), substr)
		a.failed = true
	}
}

// RequestAssertions provides assertion helpers for captured LLM requests.
type RequestAssertions struct {
	*Assertions
	req *llm.ChatRequest
}

// AssertRequest creates request assertions for the given request.
func (a *Assertions) AssertRequest(req *llm.ChatRequest) *RequestAssertions {
	a.t.Helper()
	if req == nil {
		a.t.Error("request is nil")
		a.failed = true
		return &RequestAssertions{Assertions: a, req: &llm.ChatRequest{}}
	}
	return &RequestAssertions{Assertions: a, req: req}
}

// HasModel asserts the request uses the given model.
func (r *RequestAssertions) HasModel(model string) *RequestAssertions {
	r.t.Helper()
	if r.req.Model != model {
		r.t.Errorf("expected model %q, got %q", model, r.req.Model)
		r.failed = true
	}
	return r
}

// HasMessageCount asserts the number of messages in the request.
func (r *RequestAssertions) HasMessageCount(count int) *RequestAssertions {
	r.t.Helper()
	if len(r.req.Messages) != count {
		r.t.Errorf("expected %d messages, got %d", count, len(r.req.Messages))
		r.failed = true
	}
	return r
}

// HasSystemMessage asserts a system message exists with the given content.
func (r *RequestAssertions) HasSystemMessage(contains string) *RequestAssertions {
	r.t.Helper()
	for _, msg := range r.req.Messages {
		if msg.Role == llm.RoleSystem && strings.Contains(msg.Content, contains) {
			return r
		}
	}
	r.t.Errorf("no system message containing %q found", contains)
	r.failed = true
	return r
}

// HasUserMessage asserts a user message exists with the given content.
func (r *RequestAssertions) HasUserMessage(contains string) *RequestAssertions {
	r.t.Helper()
	for _, msg := range r.req.Messages {
		if msg.Role == llm.RoleUser && strings.Contains(msg.Content, contains) {
			return r
		}
	}
	r.t.Errorf("no user message containing %q found", contains)
	r.failed = true
	return r
}

// HasTool asserts a tool with the given name is offered in the request.
func (r *RequestAssertions) HasTool(name string) *RequestAssertions {
	r.t.Helper()
	for _, tool := range r.req.Tools {
		if tool.Function.Name == name {
			return r
		}
	}
	r.t.Errorf("tool %q not found in request", name)
	r.failed = true
	return r
}

// ResultAssertions provides assertion helpers for run results.
type ResultAssertions struct {
	*Assertions
	result *orchestrator.Result
}

// AssertResult creates assertions for an orchestration result.
func (a *Assertions) AssertResult(result *orchestrator.Result) *ResultAssertions {
	a.t.Helper()
	if result == nil {
		a.t.Error("result is nil")
		a.failed = true
		return &ResultAssertions{Assertions: a, result: &orchestrator.Result{}}
	}
	return &ResultAssertions{Assertions: a, result: result}
}

// AnswerContains asserts the final answer contains the substring.
func (r *ResultAssertions) AnswerContains(substr string) *ResultAssertions {
	r.t.Helper()
	if !strings.Contains(r.result.Answer, substr) {
		r.t.Errorf("answer %q does not contain %q", r.result.Answer, substr)
		r.failed = true
	}
	return r
}

// AnswerEquals asserts the final answer equals the expected string.
func (r *ResultAssertions) AnswerEquals(expected string) *ResultAssertions {
	r.t.Helper()
	if r.result.Answer != expected {
		r.t.Errorf("expected answer %q, got %q", expected, r.result.Answer)
		r.failed = true
	}
	return r
}

// HasStepCount asserts the number of executed steps.
func (r *ResultAssertions) HasStepCount(count int) *ResultAssertions {
	r.t.Helper()
	if len(r.result.Steps) != count {
		r.t.Errorf("expected %d steps, got %d", count, len(r.result.Steps))
		r.failed = true
	}
	return r
}

// StepDegraded asserts the step at index is degraded.
func (r *ResultAssertions) StepDegraded(index int) *ResultAssertions {
	r.t.Helper()
	if index >= len(r.result.Steps) {
		r.t.Errorf("no step at index %d", index)
		r.failed = true
		return r
	}
	if !r.result.Steps[index].Degraded {
		r.t.Errorf("step %d is not degraded: %+v", index, r.result.Steps[index])
		r.failed = true
	}
	return r
}

// NotCancelled asserts the run completed without cancellation.
func (r *ResultAssertions) NotCancelled() *ResultAssertions {
	r.t.Helper()
	if r.result.Cancelled {
		r.t.Error("run was cancelled")
		r.failed = true
	}
	return r
}

// Quick assertion functions for common patterns

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// RequireEqual fails the test immediately if values are not equal.
func RequireEqual(t *testing.T, expected, actual any, msg string) {
	t.Helper()
	if expected != actual {
		t.Fatalf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// AssertToolCallArgs extracts and validates tool call arguments.
func AssertToolCallArgs(t *testing.T, tc llm.ToolCall, expectedName string) map[string]any {
	t.Helper()
	if tc.Function.Name != expectedName {
		t.Errorf("expected tool %q, got %q", expectedName, tc.Function.Name)
	}

	var args map[string]any
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			t.Errorf("failed to parse tool arguments: %v", err)
			return nil
		}
	}
	return args
}

// FormatToolCalls formats tool calls for error messages.
func FormatToolCalls(calls []llm.ToolCall) string {
	if len(calls) == 0 {
		return "(none)"
	}
	names := make([]string, len(calls))
	for i, tc := range calls {
		names[i] = tc.Function.Name
	}
	return fmt.Sprintf("[%s]", strings.Join(names, ", "))
}
