package core

import (
	"context"
	"time"
)

// EventType identifies a semantic event emitted by the orchestration kernel.
type EventType string

const (
	EventPlanCreated   EventType = "plan.created"
	EventPlanRepaired  EventType = "plan.repaired"
	EventPlanFallback  EventType = "plan.fallback"
	EventStepStarted   EventType = "step.started"
	EventStepCompleted EventType = "step.completed"
	EventStepDegraded  EventType = "step.degraded"
	EventRunStarted    EventType = "run.started"
	EventRunCompleted  EventType = "run.completed"
	EventRunCancelled  EventType = "run.cancelled"
	EventRunError      EventType = "run.error"
)

// Event captures a semantic streaming/logging event. Repairs and fallbacks
// are surfaced here rather than as errors: the validator fixes malformed
// plans silently, but operators still need to see that it happened.
type Event struct {
	Type      EventType
	RunID     string
	Timestamp time.Time
	Payload   map[string]any
}

// EventEmitter receives semantic events.
type EventEmitter interface {
	Emit(ctx context.Context, event Event)
}

// NoopEventEmitter is a default no-op implementation.
type NoopEventEmitter struct{}

// Emit implements EventEmitter.
func (NoopEventEmitter) Emit(_ context.Context, _ Event) {}

// NewEvent builds a default event with timestamp.
func NewEvent(eventType EventType, runID string, payload map[string]any) Event {
	return Event{
		Type:      eventType,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// CollectorEmitter records events in memory. Intended for tests and for the
// CLI's --json output.
type CollectorEmitter struct {
	Events []Event
}

// Emit implements EventEmitter.
func (c *CollectorEmitter) Emit(_ context.Context, event Event) {
	c.Events = append(c.Events, event)
}
