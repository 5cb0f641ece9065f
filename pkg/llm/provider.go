// Package llm defines the provider contract for reasoning backends. The
// orchestration kernel never depends on a concrete backend: the planner and
// the capability handlers receive a Provider and stay agnostic to how the
// completion is produced. Ollama ships in this package; hosted backends live
// in the nested providers modules.
package llm

import "context"

// Role identifies who authored a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	// RoleTool carries a tool observation back to the model inside the
	// capability loop. ToolCallID on the message links it to the request.
	RoleTool Role = "tool"
)

// ToolType classifies a tool. Function tools are the only kind.
type ToolType string

const (
	ToolTypeFunction ToolType = "function"
)

// FunctionDef describes a callable tool to the model. Parameters is a JSON
// Schema object; toolbox tools build theirs in ToolDefinition.
type FunctionDef struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  interface{} `json:"parameters"`
}

// Tool is a tool offered to the model for one call.
type Tool struct {
	Type     ToolType    `json:"type"`
	Function FunctionDef `json:"function"`
}

// FunctionCall names the tool the model wants and carries its arguments as
// the raw JSON string the backend produced. Argument parsing is the tool's
// problem; a parse failure becomes an error observation, not a step failure.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id,omitempty"`
	Type     ToolType     `json:"type"`
	Function FunctionCall `json:"function"`
}

// Message is one turn of the conversation. Assistant messages may carry
// ToolCalls; the matching observations come back as RoleTool messages with
// ToolCallID set.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ChatRequest is a single completion call. The planner sends no Tools and
// expects a JSON plan back; a capability handler offers its intent's toolset
// until the iteration cap forces a tool-free final call.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Tools       []Tool    `json:"tools,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// ChatResponse is the backend's reply. A response with ToolCalls continues
// the capability loop; one without is the answer for the step.
type ChatResponse struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Usage     Usage      `json:"usage"`
}

// Usage counts tokens as reported by the backend, recorded on the LLM call
// span. Backends that do not report usage leave it zero.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Provider is implemented by every reasoning backend.
type Provider interface {
	// Chat performs one completion call. Implementations must honor ctx
	// cancellation and return transport failures as errors; refusals and
	// nonsense answers are content, not errors.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
