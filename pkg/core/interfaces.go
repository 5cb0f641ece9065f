package core

import "context"

// Tool is a concrete lookup capability invoked by a handler during a step.
// Implementations read from static or external data and never mutate
// orchestration state.
type Tool interface {
	Name() string
	Call(ctx context.Context, input any) (any, error)
}
