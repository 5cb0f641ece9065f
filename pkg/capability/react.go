// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/scouthq/scout/pkg/errors"
	"github.com/scouthq/scout/pkg/llm"
	"github.com/scouthq/scout/pkg/telemetry"
)

// ReActHandler answers a subquery by letting an LLM call tools in a
// reason/act loop. The loop is bounded: when the iteration cap is reached
// the model gets one final call with no tools to force an answer from the
// evidence gathered so far.
type ReActHandler struct {
	intent        string
	description   string
	provider      llm.Provider
	model         string
	tools         []Tool
	maxIterations int
	tracer        trace.Tracer
}

// ReActOption configures a ReActHandler.
type ReActOption func(*ReActHandler)

// WithMaxIterations bounds the tool-call loop. Values below 1 are ignored.
func WithMaxIterations(n int) ReActOption {
	return func(h *ReActHandler) {
		if n >= 1 {
			h.maxIterations = n
		}
	}
}

// NewReAct creates a tool-looping handler for an intent.
func NewReAct(intent, description string, provider llm.Provider, model string, tools []Tool, opts ...ReActOption) *ReActHandler {
	h := &ReActHandler{
		intent:        intent,
		description:   description,
		provider:      provider,
		model:         model,
		tools:         tools,
		maxIterations: 4,
		tracer:        otel.Tracer("scout/capability"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *ReActHandler) Intent() string      { return h.intent }
func (h *ReActHandler) Description() string { return h.description }

// Answer runs the tool loop. Tool failures are fed back to the model as
// observations rather than aborting the step; only LLM transport failures
// surface as errors.
func (h *ReActHandler) Answer(ctx context.Context, subquery, accumulated string) (string, error) {
	log := slog.Default()

	toolDefs := make([]llm.Tool, 0, len(h.tools))
	byName := make(map[string]Tool, len(h.tools))
	for _, tool := range h.tools {
		toolDefs = append(toolDefs, tool.ToolDefinition())
		byName[tool.Name()] = tool
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: h.systemPrompt(accumulated)},
		{Role: llm.RoleUser, Content: subquery},
	}

	for iteration := 0; iteration < h.maxIterations; iteration++ {
		resp, err := h.chat(ctx, messages, toolDefs)
		if err != nil {
			return "", err
		}
		if len(resp.ToolCalls) == 0 {
			return strings.TrimSpace(resp.Content), nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			observation := h.callTool(ctx, log, byName, call)
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    observation,
				ToolCallID: call.ID,
			})
		}
	}

	// Cap reached. Force a final answer with no tools on offer.
	log.Debug("capability.react.cap_reached",
		slog.String("intent", h.intent),
		slog.Int("max_iterations", h.maxIterations),
	)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: "Answer now using only the information gathered above. Do not request any more tools.",
	})
	resp, err := h.chat(ctx, messages, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

func (h *ReActHandler) systemPrompt(accumulated string) string {
	var sb strings.Builder
	sb.WriteString("You answer one step of a larger investigation.\n")
	fmt.Fprintf(&sb, "Your capability: %s\n", h.description)
	sb.WriteString("Use the available tools to gather evidence before answering. ")
	sb.WriteString("When nothing relevant is found, say so plainly; that is a valid answer. ")
	sb.WriteString("Reply with a concise, self-contained answer to the subquery.")
	if strings.TrimSpace(accumulated) != "" {
		sb.WriteString("\n\nFindings from earlier steps:\n")
		sb.WriteString(accumulated)
	}
	return sb.String()
}

func (h *ReActHandler) chat(ctx context.Context, messages []llm.Message, tools []llm.Tool) (*llm.ChatResponse, error) {
	start := time.Now()
	llmCtx, span := h.tracer.Start(ctx, "Capability.LLM.Chat")
	span.SetAttributes(telemetry.LLMAttributes(h.model, len(messages), 0)...)
	resp, err := h.provider.Chat(llmCtx, llm.ChatRequest{
		Model:    h.model,
		Messages: messages,
		Tools:    tools,
	})
	durationMs := time.Since(start).Seconds() * 1000
	if resp != nil {
		span.SetAttributes(telemetry.LLMAttributes(h.model, len(messages), len(resp.ToolCalls))...)
		span.SetAttributes(telemetry.LLMUsageAttributes(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, durationMs)...)
	}
	span.End()
	if err != nil {
		return nil, errors.New(errors.CodeLLMError, fmt.Sprintf("llm call failed for intent %q", h.intent), err).
			WithContext("model", h.model).
			WithRecoverable(true)
	}
	return resp, nil
}

func (h *ReActHandler) callTool(ctx context.Context, log *slog.Logger, byName map[string]Tool, call llm.ToolCall) string {
	name := call.Function.Name
	tool, ok := byName[name]
	if !ok {
		log.Warn("capability.tool.unknown",
			slog.String("intent", h.intent),
			slog.String("tool", name),
		)
		return fmt.Sprintf("error: tool %q is not available", name)
	}

	start := time.Now()
	toolCtx, span := h.tracer.Start(ctx, "Capability.Tool.Call")
	result, err := tool.Call(toolCtx, call.Function.Arguments)
	durationMs := time.Since(start).Seconds() * 1000
	span.SetAttributes(telemetry.ToolCallAttributes(name, call.ID, durationMs, err == nil)...)
	span.End()

	if err != nil {
		log.Warn("capability.tool.error",
			slog.String("intent", h.intent),
			slog.String("tool", name),
			slog.String("error", err.Error()),
		)
		return fmt.Sprintf("error: %s", err.Error())
	}

	log.Debug("capability.tool.complete",
		slog.String("intent", h.intent),
		slog.String("tool", name),
	)
	return renderObservation(result)
}

// renderObservation turns a tool result into the string the model reads.
func renderObservation(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}

var _ Handler = (*ReActHandler)(nil)
