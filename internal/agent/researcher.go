package agent

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/dayuer/aibot-go/internal/providers"
	"github.com/dayuer/aibot-go/internal/schema"
	"github.com/dayuer/aibot-go/internal/tools"
)

// Researcher answers one question with the agent loop and asks the model for
// a schema.ResearchResponse. Which tools run, and how often, is up to the model.
type Researcher struct {
	Loop *AgentLoop
}

// NewResearcher wires a provider and tool registry into a Researcher.
func NewResearcher(provider providers.LLMProvider, registry *tools.Registry, cfg AgentConfig) *Researcher {
	return &Researcher{Loop: NewAgentLoop(provider, registry, cfg)}
}

// Research submits query and returns either a structured or a raw result.
// Only provider and transport failures are returned as errors.
func (r *Researcher) Research(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty query")
	}

	log.Printf("[Agent] Researching with %s (%d tools)", r.Loop.Model, len(r.Loop.Tools.Names()))
	messages := r.Loop.Context.BuildMessages(query, schema.FormatInstructions())

	out, err := r.Loop.Run(ctx, messages)
	if err != nil {
		return nil, err
	}

	res := &Result{Messages: out.Messages, ToolsUsed: out.ToolsUsed}
	parsed, perr := schema.Parse(out.Content)
	if perr != nil {
		log.Printf("[Agent] Falling back to raw response: %v", perr)
		res.Kind = KindRaw
		res.ParseError = perr.Error()
		return res, nil
	}
	res.Kind = KindStructured
	res.Structured = parsed
	return res, nil
}
