package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestScoutErrorMessage(t *testing.T) {
	err := New(CodeToolFailure, "tool execution failed", stderrors.New("connection refused"))
	msg := err.Error()
	if !strings.Contains(msg, "TOOL_FAILURE") {
		t.Errorf("expected code in message, got %q", msg)
	}
	if !strings.Contains(msg, "connection refused") {
		t.Errorf("expected cause in message, got %q", msg)
	}
}

func TestScoutErrorUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := New(CodeLLMError, "chat failed", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}

	var se *ScoutError
	if !stderrors.As(error(err), &se) {
		t.Fatal("expected errors.As to succeed")
	}
	if se.Code != CodeLLMError {
		t.Errorf("unexpected code: %s", se.Code)
	}
}

func TestWithContextChaining(t *testing.T) {
	err := New(CodeTimeout, "step timed out", nil).
		WithContext("step_index", 2).
		WithContext("intent", "analyze").
		WithRecoverable(true)
	if err.Context["step_index"] != 2 {
		t.Errorf("missing context value: %+v", err.Context)
	}
	if !err.Recoverable {
		t.Error("expected recoverable")
	}
	if err.RecoverableString() != "true" {
		t.Errorf("unexpected recoverable string: %s", err.RecoverableString())
	}
}

func TestAsScoutErrorWrapsUnknown(t *testing.T) {
	plain := stderrors.New("plain")
	se := AsScoutError(plain)
	if se.Code != CodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", se.Code)
	}
	if AsScoutError(nil) != nil {
		t.Error("expected nil for nil input")
	}
}

func TestAsScoutErrorSeesThroughWrapping(t *testing.T) {
	inner := New(CodeLLMError, "chat failed", nil).WithRecoverable(true)
	wrapped := fmt.Errorf("attempt 2: %w", inner)
	se := AsScoutError(wrapped)
	if se.Code != CodeLLMError {
		t.Errorf("wrapped code lost: %s", se.Code)
	}
	if !se.Recoverable {
		t.Error("wrapped recoverability lost")
	}
}
