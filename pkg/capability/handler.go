// Package capability defines the handler contract behind each registered
// intent and the implementations that serve it.
package capability

import (
	"context"

	"github.com/scouthq/scout/pkg/core"
	"github.com/scouthq/scout/pkg/llm"
)

// Handler answers one plan step. Implementations receive the step subquery
// and the accumulated context from earlier steps, and must not retain either
// between calls.
type Handler interface {
	// Intent is the name this handler registers under.
	Intent() string
	// Description is the capability summary shown to the planner.
	Description() string
	// Answer resolves a subquery. A returned error marks the step degraded;
	// "nothing found" is a normal answer, not an error.
	Answer(ctx context.Context, subquery, accumulated string) (string, error)
}

// Tool is a lookup capability exposed to an LLM-backed handler. It extends
// core.Tool with the schema the model needs to call it.
type Tool interface {
	core.Tool
	ToolDefinition() llm.Tool
}

// StaticHandler answers from a fixed function without touching an LLM.
// Used for deterministic capabilities and as the stub wiring in tests.
type StaticHandler struct {
	intent      string
	description string
	fn          func(ctx context.Context, subquery, accumulated string) (string, error)
}

// NewStatic creates a handler that delegates to fn.
func NewStatic(intent, description string, fn func(ctx context.Context, subquery, accumulated string) (string, error)) *StaticHandler {
	return &StaticHandler{intent: intent, description: description, fn: fn}
}

func (h *StaticHandler) Intent() string      { return h.intent }
func (h *StaticHandler) Description() string { return h.description }

func (h *StaticHandler) Answer(ctx context.Context, subquery, accumulated string) (string, error) {
	return h.fn(ctx, subquery, accumulated)
}
