// Package tools defines the Tool interface and the research tools offered to the agent.
package tools

import (
	"context"

	"github.com/dayuer/aibot-go/internal/providers"
)

// Tool is the interface that all agent tools must implement.
type Tool interface {
	// Name returns the tool name used in LLM function calls.
	Name() string

	// Description returns what the tool does.
	Description() string

	// Parameters returns the JSON Schema for tool parameters.
	Parameters() map[string]any

	// Execute runs the tool with the given arguments.
	// Operational failures are reported in the returned string ("Error: ...")
	// so the model can react to them.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// ResultCache stores tool output keyed by a normalized request.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) bool
}

// ToDefinition converts a tool to the provider-neutral definition sent to the LLM.
func ToDefinition(t Tool) providers.ToolDefinition {
	return providers.ToolDefinition{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}
