package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func sampleEvents(runID string) []StepEvent {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	return []StepEvent{
		{
			RunID:      runID,
			StepIndex:  0,
			Intent:     "search",
			Subquery:   "find safari tickets",
			Answer:     "Found SHOP-2847",
			Status:     StatusCompleted,
			StartedAt:  base,
			FinishedAt: base.Add(time.Second),
		},
		{
			RunID:      runID,
			StepIndex:  1,
			Intent:     "retrieve",
			Subquery:   "get SHOP-2847",
			Status:     StatusDegraded,
			Error:      "llm call failed",
			StartedAt:  base.Add(2 * time.Second),
			FinishedAt: base.Add(3 * time.Second),
		},
	}
}

func TestMemoryStoreRecordAndFilter(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for _, ev := range sampleEvents("run-1") {
		if err := store.Record(ctx, ev); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := store.Record(ctx, StepEvent{RunID: "run-2", Intent: "search", Status: StatusCompleted}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.List(ctx, Filter{RunID: "run-1"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events for run-1, got %d", len(got))
	}
	if got[0].StepIndex != 0 || got[1].StepIndex != 1 {
		t.Fatalf("insertion order not preserved: %+v", got)
	}

	degraded, err := store.List(ctx, Filter{Status: StatusDegraded})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(degraded) != 1 || degraded[0].Error != "llm call failed" {
		t.Fatalf("status filter failed: %+v", degraded)
	}

	limited, err := store.List(ctx, Filter{Limit: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit not applied: %+v", limited)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, ev := range sampleEvents("run-1") {
		if err := store.Record(ctx, ev); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := store.List(ctx, Filter{RunID: "run-1"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Intent != "search" || got[0].Answer != "Found SHOP-2847" {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	if got[1].Status != StatusDegraded || got[1].Error != "llm call failed" {
		t.Fatalf("unexpected second event: %+v", got[1])
	}

	byIntent, err := store.List(ctx, Filter{Intent: "retrieve"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byIntent) != 1 || byIntent[0].StepIndex != 1 {
		t.Fatalf("intent filter failed: %+v", byIntent)
	}
}
