package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/dayuer/aibot-go/internal/providers"
)

// ContextBuilder assembles the system prompt and message list for the agent.
type ContextBuilder struct {
	Now func() time.Time
}

// NewContextBuilder creates a ContextBuilder using the wall clock.
func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{Now: time.Now}
}

// BuildSystemPrompt returns the research instructions followed by the
// answer format the model must follow.
func (c *ContextBuilder) BuildSystemPrompt(formatInstructions string) string {
	parts := []string{c.getIdentity()}
	if formatInstructions != "" {
		parts = append(parts, "Wrap the output in this format and provide no other text\n"+formatInstructions)
	}
	return strings.Join(parts, "\n\n")
}

func (c *ContextBuilder) getIdentity() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return fmt.Sprintf(`You are a chatbot that will help answer any question the users ask.
Answer the user query and use necessary tools to help you.

## Current Time
%s`, now().Format("2006-01-02 15:04 (Monday)"))
}

// BuildMessages constructs the initial message list for one query.
func (c *ContextBuilder) BuildMessages(query, formatInstructions string) []providers.Message {
	return []providers.Message{
		{Role: providers.RoleSystem, Content: c.BuildSystemPrompt(formatInstructions)},
		{Role: providers.RoleUser, Content: query},
	}
}

// AddToolResult appends a tool result message.
func (c *ContextBuilder) AddToolResult(messages []providers.Message, toolCallID, toolName, result string) []providers.Message {
	return append(messages, providers.Message{
		Role:       providers.RoleTool,
		ToolCallID: toolCallID,
		Name:       toolName,
		Content:    result,
	})
}

// AddAssistantMessage appends an assistant message with optional tool calls.
func (c *ContextBuilder) AddAssistantMessage(messages []providers.Message, content string, toolCalls []providers.ToolCallRequest) []providers.Message {
	return append(messages, providers.Message{
		Role:      providers.RoleAssistant,
		Content:   content,
		ToolCalls: toolCalls,
	})
}
