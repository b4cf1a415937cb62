package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/dayuer/aibot-go/internal/contextguard"
	"github.com/dayuer/aibot-go/internal/providers"
	"github.com/dayuer/aibot-go/internal/tools"
)

// MaxIterationsMessage is the final assistant message when the loop ceiling is hit.
const MaxIterationsMessage = "Max iterations reached"

// AgentLoop is the tool-calling engine.
// It calls the LLM, executes requested tools, and feeds results back until
// the model answers without tool calls.
type AgentLoop struct {
	Provider      providers.LLMProvider
	Tools         *tools.Registry
	Context       *ContextBuilder
	Guard         *contextguard.Guard // optional; shortens old tool output near the context limit
	Model         string
	MaxIterations int
	Temperature   float64
	MaxTokens     int
}

// AgentConfig holds configuration for creating an AgentLoop.
type AgentConfig struct {
	Model         string
	MaxIterations int
	Temperature   float64
	MaxTokens     int
}

// LoopResult is what one run of the loop produced.
type LoopResult struct {
	Content    string              // text of the final assistant message
	Messages   []providers.Message // full conversation, system prompt included
	ToolsUsed  []string            // tool names in call order
	Iterations int
}

// NewAgentLoop creates and configures an agent loop.
// A nil registry means no tools are offered.
func NewAgentLoop(provider providers.LLMProvider, registry *tools.Registry, cfg AgentConfig) *AgentLoop {
	model := cfg.Model
	if model == "" {
		model = provider.DefaultModel()
	}
	maxIter := cfg.MaxIterations
	if maxIter == 0 {
		maxIter = 25
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	if registry == nil {
		registry = tools.NewRegistry()
	}

	return &AgentLoop{
		Provider:      provider,
		Tools:         registry,
		Context:       NewContextBuilder(),
		Guard:         contextguard.NewGuard(contextguard.DefaultConfig()),
		Model:         model,
		MaxIterations: maxIter,
		Temperature:   cfg.Temperature,
		MaxTokens:     maxTokens,
	}
}

func (a *AgentLoop) definitions() []providers.ToolDefinition {
	all := a.Tools.All()
	defs := make([]providers.ToolDefinition, 0, len(all))
	for _, t := range all {
		defs = append(defs, tools.ToDefinition(t))
	}
	return defs
}

// Run executes the tool-calling loop until no more tool calls or max iterations.
// Provider failures end the run and are returned as errors; tool failures are
// handed back to the model as text.
func (a *AgentLoop) Run(ctx context.Context, messages []providers.Message) (*LoopResult, error) {
	result := &LoopResult{}
	defs := a.definitions()
	defer a.logGuardStats()

	for result.Iterations < a.MaxIterations {
		result.Iterations++
		if a.Guard != nil {
			messages = a.Guard.Apply(messages, a.Model)
		}

		resp, err := a.Provider.Chat(ctx, providers.ChatRequest{
			Messages:    messages,
			Tools:       defs,
			Model:       a.Model,
			MaxTokens:   a.MaxTokens,
			Temperature: a.Temperature,
		})
		if err != nil {
			result.Messages = messages
			return result, fmt.Errorf("LLM chat: %w", err)
		}

		if !resp.HasToolCalls() {
			result.Content = resp.Text()
			result.Messages = a.Context.AddAssistantMessage(messages, result.Content, nil)
			return result, nil
		}

		messages = a.Context.AddAssistantMessage(messages, resp.Text(), resp.ToolCalls)
		for _, tc := range resp.ToolCalls {
			result.ToolsUsed = append(result.ToolsUsed, tc.Name)
			log.Printf("[Agent] Tool call: %s", tc.Name)
			messages = a.Context.AddToolResult(messages, tc.ID, tc.Name, a.execute(ctx, tc))
		}
	}

	log.Printf("[Agent] Stopped after %d iterations", a.MaxIterations)
	result.Content = MaxIterationsMessage
	result.Messages = a.Context.AddAssistantMessage(messages, MaxIterationsMessage, nil)
	return result, nil
}

func (a *AgentLoop) logGuardStats() {
	if a.Guard == nil {
		return
	}
	st := a.Guard.Stats()
	log.Printf("[ContextGuard] checks=%v warnings=%v compressions=%v",
		st["totalChecks"], st["warningCount"], st["compressionCount"])
}

func (a *AgentLoop) execute(ctx context.Context, tc providers.ToolCallRequest) string {
	tool := a.Tools.Get(tc.Name)
	if tool == nil {
		return fmt.Sprintf("Error: unknown tool %q", tc.Name)
	}
	out, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return out
}
