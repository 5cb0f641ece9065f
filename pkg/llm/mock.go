package llm

import (
	"context"
	"sync"
)

// Mock is an in-memory Provider for tests. Response stands in for whatever
// the backend would say: a JSON plan in planner tests, a step answer in
// handler tests. Err simulates a transport failure, and ChatFunc, when set,
// takes over the call entirely.
type Mock struct {
	Response string
	Err      error
	ChatFunc func(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	mu       sync.Mutex
	requests []ChatRequest
}

// Chat records the request and replies with the canned response.
func (m *Mock) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &ChatResponse{
		Content: m.Response,
		Usage: Usage{
			PromptTokens:     len(req.Messages) * 8,
			CompletionTokens: len(m.Response) / 4,
			TotalTokens:      len(req.Messages)*8 + len(m.Response)/4,
		},
	}, nil
}

// Requests returns every request Chat has seen, in call order. Failed calls
// are recorded too. Planner tests use this to check that the capability
// catalog and the question reached the prompt.
func (m *Mock) Requests() []ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

var _ Provider = (*Mock)(nil)
