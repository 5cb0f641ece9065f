// Package audit records what happened during orchestration runs: the plan
// that was executed, every step outcome, and any repairs made along the way.
// Stores are observability sinks; orchestration never reads them back to
// make decisions.
package audit

import (
	"context"
	"sync"
	"time"
)

// StepEvent is one recorded step outcome.
type StepEvent struct {
	RunID      string
	StepIndex  int
	Intent     string
	Subquery   string
	Answer     string
	Status     string // "completed", "degraded" or "cancelled"
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Step statuses.
const (
	StatusCompleted = "completed"
	StatusDegraded  = "degraded"
	StatusCancelled = "cancelled"
)

// Store persists step events.
type Store interface {
	Record(ctx context.Context, event StepEvent) error
	List(ctx context.Context, filter Filter) ([]StepEvent, error)
}

// Filter limits step event queries.
type Filter struct {
	RunID  string
	Intent string
	Status string
	Limit  int
}

// MemoryStore keeps step events in memory.
type MemoryStore struct {
	mu     sync.Mutex
	events []StepEvent
}

// NewMemoryStore returns an in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record appends a step event.
func (s *MemoryStore) Record(_ context.Context, event StepEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// List returns filtered step events in insertion order.
func (s *MemoryStore) List(_ context.Context, filter Filter) ([]StepEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StepEvent, 0, len(s.events))
	for _, ev := range s.events {
		if filter.RunID != "" && ev.RunID != filter.RunID {
			continue
		}
		if filter.Intent != "" && ev.Intent != filter.Intent {
			continue
		}
		if filter.Status != "" && ev.Status != filter.Status {
			continue
		}
		out = append(out, ev)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// normalizeTime ensures timestamps are stored in UTC.
func normalizeTime(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	return value.UTC()
}
