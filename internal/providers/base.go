// Package providers defines the LLM provider interface and response types.
package providers

import "context"

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCallRequest represents a tool call from the LLM.
type ToolCallRequest struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolDefinition describes a tool offered to the LLM.
// Parameters is a JSON Schema object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// LLMResponse is the standardized response from any LLM provider.
type LLMResponse struct {
	Content          *string           `json:"content"`
	ToolCalls        []ToolCallRequest `json:"tool_calls,omitempty"`
	FinishReason     string            `json:"finish_reason"`
	Usage            map[string]int    `json:"usage,omitempty"`
	ReasoningContent *string           `json:"reasoning_content,omitempty"`
}

// HasToolCalls returns true if the response contains tool calls.
func (r *LLMResponse) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// Text returns the response content, or "" when the model sent none.
func (r *LLMResponse) Text() string {
	if r.Content == nil {
		return ""
	}
	return *r.Content
}

// Message represents a chat message.
// Assistant messages may carry ToolCalls; tool messages carry ToolCallID and Name.
type Message struct {
	Role       string            `json:"role"`
	Content    string            `json:"content"`
	ToolCalls  []ToolCallRequest `json:"tool_calls,omitempty"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
	Name       string            `json:"name,omitempty"`
}

// ChatRequest holds all parameters for a chat completion call.
type ChatRequest struct {
	Messages    []Message        `json:"messages"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	Model       string           `json:"model,omitempty"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature float64          `json:"temperature"`
}

// SystemPrompt returns the content of the leading system messages joined
// by blank lines, and the remaining conversation.
func (r ChatRequest) SystemPrompt() (string, []Message) {
	var system string
	i := 0
	for ; i < len(r.Messages) && r.Messages[i].Role == RoleSystem; i++ {
		if system != "" {
			system += "\n\n"
		}
		system += r.Messages[i].Content
	}
	return system, r.Messages[i:]
}

// LLMProvider is the interface for all LLM backends.
type LLMProvider interface {
	// Chat sends a chat completion request.
	// Transport and API failures are returned as errors.
	Chat(ctx context.Context, req ChatRequest) (*LLMResponse, error)

	// DefaultModel returns the default model identifier.
	DefaultModel() string
}

func strPtr(s string) *string { return &s }
