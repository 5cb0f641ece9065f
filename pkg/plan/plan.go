// Package plan defines the execution plan data model and the validate/repair
// pass that turns untrusted planner output into a plan the orchestrator can
// always execute.
package plan

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RawStep is a single untrusted (subquery, intent) pair as produced by a
// planner. Either field may be blank; the intent may be unknown.
type RawStep struct {
	Subquery string `json:"subquery" yaml:"subquery"`
	Intent   string `json:"intent" yaml:"intent"`
}

// Step is a validated plan step. Immutable after creation: its intent
// resolves in the registry the plan was validated against.
type Step struct {
	Subquery string `json:"subquery" yaml:"subquery"`
	Intent   string `json:"intent" yaml:"intent"`
}

// String renders the step the way plans are shown to operators.
func (s Step) String() string {
	return fmt.Sprintf("[%s] %s", s.Intent, s.Subquery)
}

// Plan is an ordered sequence of validated steps. Insertion order is
// execution order; later steps may depend on earlier answers.
type Plan struct {
	Steps []Step `json:"steps" yaml:"steps"`
}

// Len returns the number of steps.
func (p Plan) Len() int { return len(p.Steps) }

// IntentSet answers whether an intent name is registered. Satisfied by
// registry.Registry without importing it here.
type IntentSet interface {
	Has(intent string) bool
}

// Repair records one substitution made while normalizing a raw plan.
// Repairs are observability data, never errors.
type Repair struct {
	StepIndex   int    `json:"step_index"`
	Field       string `json:"field"` // "intent", "subquery", or "plan"
	Original    string `json:"original"`
	Substituted string `json:"substituted"`
}

// Normalize validates and repairs a raw plan. The result is always a
// non-empty Plan whose every intent is in the given set:
//
//   - unknown or blank intents are replaced with defaultIntent
//   - blank subqueries are replaced with the original question
//   - an empty raw plan becomes a single default-intent step for the question
//
// Normalize never fails; callers surface the returned repairs through their
// observability channel.
func Normalize(raw []RawStep, intents IntentSet, defaultIntent, question string) (Plan, []Repair) {
	var repairs []Repair
	steps := make([]Step, 0, len(raw))

	for i, rs := range raw {
		intent := strings.ToLower(strings.TrimSpace(rs.Intent))
		if intent == "" || !intents.Has(intent) {
			repairs = append(repairs, Repair{
				StepIndex:   i,
				Field:       "intent",
				Original:    rs.Intent,
				Substituted: defaultIntent,
			})
			intent = defaultIntent
		}

		subquery := strings.TrimSpace(rs.Subquery)
		if subquery == "" {
			repairs = append(repairs, Repair{
				StepIndex:   i,
				Field:       "subquery",
				Original:    rs.Subquery,
				Substituted: question,
			})
			subquery = question
		}

		steps = append(steps, Step{Subquery: subquery, Intent: intent})
	}

	if len(steps) == 0 {
		repairs = append(repairs, Repair{
			StepIndex:   0,
			Field:       "plan",
			Substituted: defaultIntent,
		})
		steps = []Step{{Subquery: question, Intent: defaultIntent}}
	}

	return Plan{Steps: steps}, repairs
}

// Validate checks the invariants Normalize guarantees. The orchestrator runs
// it before execution; a failure there is a defect, not a user condition.
func (p Plan) Validate(intents IntentSet) error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("plan has no steps")
	}
	for i, step := range p.Steps {
		if strings.TrimSpace(step.Subquery) == "" {
			return fmt.Errorf("step %d has blank subquery", i)
		}
		if !intents.Has(step.Intent) {
			return fmt.Errorf("step %d intent %q not registered", i, step.Intent)
		}
	}
	return nil
}

// MarshalYAML serializes a plan for operator display.
func MarshalYAML(p Plan) ([]byte, error) {
	return yaml.Marshal(p)
}
