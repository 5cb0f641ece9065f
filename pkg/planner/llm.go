// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/scouthq/scout/pkg/errors"
	"github.com/scouthq/scout/pkg/llm"
	"github.com/scouthq/scout/pkg/plan"
	"github.com/scouthq/scout/pkg/resilience"
	"github.com/scouthq/scout/pkg/telemetry"
)

const planSystemPrompt = `You decompose a user question into an execution plan.

%s

Rules:
- Break the question into the smallest number of focused subqueries.
- Pick exactly one intent per subquery from the list above.
- Later steps can use the answers of earlier steps.

Reply with ONLY a JSON array, no prose:
[{"subquery": "...", "intent": "..."}]

Examples:
- "What tickets are about Safari?" -> one search step
- "Get details for SHOP-2847" -> one retrieve step
- "Are mobile conversions down?" -> one analyze step
- "Find checkout issues and check if conversions dropped" -> a search step then an analyze step`

// LLMPlanner asks a reasoning backend for a plan and parses its reply.
// Unparseable replies come back as an empty raw plan, not an error, so the
// repair pass can fall back to a single default step.
type LLMPlanner struct {
	provider llm.Provider
	model    string
	retry    resilience.RetryConfig
	tracer   trace.Tracer
}

// LLMOption configures an LLMPlanner.
type LLMOption func(*LLMPlanner)

// WithRetry overrides the retry policy for backend calls.
func WithRetry(rc resilience.RetryConfig) LLMOption {
	return func(p *LLMPlanner) { p.retry = rc }
}

// NewLLM creates a planner backed by a provider.
func NewLLM(provider llm.Provider, model string, opts ...LLMOption) *LLMPlanner {
	p := &LLMPlanner{
		provider: provider,
		model:    model,
		retry:    resilience.DefaultRetryConfig(),
		tracer:   otel.Tracer("scout/planner"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan requests a raw plan for the question.
func (p *LLMPlanner) Plan(ctx context.Context, question, capabilities string) ([]plan.RawStep, error) {
	log := slog.Default()

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(planSystemPrompt, capabilities)},
		{Role: llm.RoleUser, Content: question},
	}

	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "Planner.Plan")
	defer span.End()
	span.SetAttributes(telemetry.LLMAttributes(p.model, len(messages), 0)...)

	resp, err := resilience.DoResult(ctx, p.retry, func() (*llm.ChatResponse, error) {
		return p.provider.Chat(ctx, llm.ChatRequest{
			Model:    p.model,
			Messages: messages,
		})
	})
	durationMs := time.Since(start).Seconds() * 1000
	if resp != nil {
		span.SetAttributes(telemetry.LLMUsageAttributes(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, durationMs)...)
	}
	if err != nil {
		return nil, errors.New(errors.CodePlannerError, "planner backend call failed", err).
			WithContext("model", p.model)
	}

	raw, parseErr := plan.ParseRawSteps(resp.Content)
	if parseErr != nil {
		log.Warn("planner.parse_failed",
			slog.String("model", p.model),
			slog.String("error", parseErr.Error()),
			slog.String("content", truncateForLog(resp.Content)),
		)
		return nil, nil
	}
	return raw, nil
}

func truncateForLog(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
