package agent

import (
	"github.com/dayuer/aibot-go/internal/providers"
	"github.com/dayuer/aibot-go/internal/schema"
)

// Kind tells which shape a Result carries.
type Kind string

const (
	KindStructured Kind = "structured"
	KindRaw        Kind = "raw"
)

// Result is the outcome of one research run. Structured is set only for
// KindStructured; Messages is always the full conversation.
type Result struct {
	Kind       Kind                     `json:"kind"`
	Structured *schema.ResearchResponse `json:"structured_response,omitempty"`
	Messages   []providers.Message      `json:"messages"`
	ToolsUsed  []string                 `json:"tools_used,omitempty"`
	ParseError string                   `json:"parse_error,omitempty"` // why the final text was not structured
}

// LastMessage returns the final message of the conversation, or nil.
func (r *Result) LastMessage() *providers.Message {
	if r == nil || len(r.Messages) == 0 {
		return nil
	}
	return &r.Messages[len(r.Messages)-1]
}
