package llm

import (
	"context"
	"errors"
	"testing"
)

func TestMockRepliesWithCannedAnswer(t *testing.T) {
	canned := `[{"subquery": "find checkout tickets", "intent": "search"}]`
	mock := &Mock{Response: canned}
	resp, err := mock.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "Why is checkout failing?"}},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content != canned {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one recorded request, got %d", len(reqs))
	}
	if reqs[0].Messages[0].Content != "Why is checkout failing?" {
		t.Errorf("request not captured: %+v", reqs[0].Messages)
	}
}

func TestMockSimulatesTransportFailure(t *testing.T) {
	mock := &Mock{Err: errors.New("connection refused")}
	if _, err := mock.Chat(context.Background(), ChatRequest{}); err == nil {
		t.Fatal("expected error")
	}
	if len(mock.Requests()) != 1 {
		t.Error("a failed call must still be recorded")
	}
}

func TestScriptedMockProvider(t *testing.T) {
	mock := NewScriptedMockProvider("first", "second")
	resp, err := mock.Chat(context.Background(), ChatRequest{})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content != "first" {
		t.Errorf("Expected 'first', got '%s'", resp.Content)
	}
	if mock.PeekNext() != "second" {
		t.Errorf("unexpected next response: %q", mock.PeekNext())
	}
	if _, err := mock.Chat(context.Background(), ChatRequest{}); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if _, err := mock.Chat(context.Background(), ChatRequest{}); err == nil {
		t.Error("expected error after responses exhausted")
	}
	if mock.CallCount != 3 {
		t.Errorf("unexpected call count: %d", mock.CallCount)
	}
}
