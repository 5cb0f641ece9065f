// Package planner produces raw execution plans from user questions. The
// output is untrusted: the orchestrator normalizes it against the registry
// before execution.
package planner

import (
	"context"

	"github.com/scouthq/scout/pkg/plan"
)

// Planner decomposes a question into raw (subquery, intent) steps. The
// capabilities string is the registry catalog, rendered for the prompt.
//
// An error means the planner infrastructure failed; malformed but received
// output is returned as-is (possibly empty) for downstream repair.
type Planner interface {
	Plan(ctx context.Context, question, capabilities string) ([]plan.RawStep, error)
}

// Stub returns a fixed plan regardless of the question. Used in tests and
// for wiring the pipeline without a reasoning backend.
type Stub struct {
	Steps []plan.RawStep
	Err   error
}

// Plan returns the configured steps or error.
func (s *Stub) Plan(_ context.Context, _, _ string) ([]plan.RawStep, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Steps, nil
}
