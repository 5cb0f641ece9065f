// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

// Package errors provides typed error handling with rich context for Scout.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies Scout errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal invariant was violated. Errors with
	// this code abort the orchestration call; they signal a defect, not a
	// user-facing condition.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeToolFailure indicates a lookup tool execution failed.
	CodeToolFailure ErrorCode = "TOOL_FAILURE"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeLLMError indicates an LLM provider error.
	CodeLLMError ErrorCode = "LLM_ERROR"

	// CodePlannerError indicates the planning call itself failed. Distinct
	// from malformed planner output, which is repaired rather than reported.
	CodePlannerError ErrorCode = "PLANNER_ERROR"
)

// ScoutError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type ScoutError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Recoverable bool
}

// Error implements the error interface.
func (e *ScoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *ScoutError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *ScoutError) MarshalJSON() ([]byte, error) {
	type Alias ScoutError
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new ScoutError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *ScoutError {
	return &ScoutError{
		Code:    code,
		Message: msg,
		Err:     cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *ScoutError) WithContext(key string, value interface{}) *ScoutError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *ScoutError) WithRecoverable(recoverable bool) *ScoutError {
	e.Recoverable = recoverable
	return e
}

// AsScoutError attempts to convert an error to a ScoutError, unwrapping the
// chain to find one. Returns a CodeInternal wrapper otherwise.
func AsScoutError(err error) *ScoutError {
	if err == nil {
		return nil
	}
	var se *ScoutError
	if stderrors.As(err, &se) {
		return se
	}
	return New(CodeInternal, "wrapped error", err)
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *ScoutError) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}
