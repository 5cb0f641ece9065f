// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

package openai

import (
	"testing"

	"github.com/scouthq/scout/pkg/llm"
)

func TestProviderImplementsInterface(t *testing.T) {
	var _ llm.Provider = (*Provider)(nil)
}

func TestNewProvider(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("expected non-nil provider")
	}
	if p.model != "gpt-5-mini" {
		t.Errorf("expected model gpt-5-mini, got %s", p.model)
	}
}

func TestWithModel(t *testing.T) {
	p := New(WithModel("gpt-4-turbo"))
	if p.model != "gpt-4-turbo" {
		t.Errorf("expected model gpt-4-turbo, got %s", p.model)
	}
}

func TestNewWithAPIKey(t *testing.T) {
	p := NewWithAPIKey("test-key")
	if p == nil {
		t.Fatal("expected non-nil provider")
	}
}

func TestConvertMessages(t *testing.T) {
	tests := []struct {
		name string
		msg  llm.Message
	}{
		{
			name: "system message",
			msg:  llm.Message{Role: llm.RoleSystem, Content: "You route questions to capabilities"},
		},
		{
			name: "user message",
			msg:  llm.Message{Role: llm.RoleUser, Content: "What broke the Safari checkout?"},
		},
		{
			name: "assistant message",
			msg:  llm.Message{Role: llm.RoleAssistant, Content: "Looking into it"},
		},
		{
			name: "tool observation",
			msg:  llm.Message{Role: llm.RoleTool, Content: "Found 1 ticket(s)", ToolCallID: "call_123"},
		},
		{
			name: "assistant with tool calls",
			msg: llm.Message{
				Role: llm.RoleAssistant,
				ToolCalls: []llm.ToolCall{
					{
						ID:   "call_123",
						Type: llm.ToolTypeFunction,
						Function: llm.FunctionCall{
							Name:      "search_jira",
							Arguments: `{"query":"safari"}`,
						},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Conversion must not panic for any role.
			_ = convertMessage(tt.msg)
		})
	}
}

func TestConvertTool(t *testing.T) {
	tool := llm.Tool{
		Type: llm.ToolTypeFunction,
		Function: llm.FunctionDef{
			Name:        "search_jira",
			Description: "Search JIRA tickets by keyword",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Search keywords",
					},
				},
				"required": []string{"query"},
			},
		},
	}

	// Conversion must not panic on a schema-bearing tool.
	_ = convertTool(tool)
}
