// Anthropic Messages API provider built on anthropic-sdk-go.

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-3-haiku-20240307"

// AnthropicProvider talks to the Anthropic Messages API.
type AnthropicProvider struct {
	Model string

	client anthropic.Client
}

// NewAnthropicProvider creates an AnthropicProvider. An empty apiBase keeps
// the SDK default endpoint; extra options are appended after the key/base.
func NewAnthropicProvider(apiKey, apiBase, model string, opts ...option.RequestOption) *AnthropicProvider {
	if model == "" {
		model = DefaultAnthropicModel
	}
	// "anthropic/claude-..." is accepted for symmetry with gateway names.
	model = strings.TrimPrefix(model, "anthropic/")

	var all []option.RequestOption
	if apiKey != "" {
		all = append(all, option.WithAPIKey(apiKey))
	}
	if apiBase != "" {
		all = append(all, option.WithBaseURL(apiBase))
	}
	all = append(all, opts...)

	return &AnthropicProvider{
		Model:  model,
		client: anthropic.NewClient(all...),
	}
}

// DefaultModel satisfies the LLMProvider interface.
func (p *AnthropicProvider) DefaultModel() string { return p.Model }

// Chat sends a Messages API request.
func (p *AnthropicProvider) Chat(ctx context.Context, req ChatRequest) (*LLMResponse, error) {
	model := req.Model
	if model == "" {
		model = p.Model
	}
	model = strings.TrimPrefix(model, "anthropic/")

	maxTokens := req.MaxTokens
	if maxTokens < 1 {
		maxTokens = 4096
	}

	system, conversation := req.SystemPrompt()
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(maxTokens),
		Messages:    toAnthropicMessages(conversation),
		Temperature: anthropic.Float(req.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if len(req.Tools) > 0 {
		params.Tools = toAnthropicTools(req.Tools)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("calling Anthropic: %w", err)
	}
	return fromAnthropicMessage(msg), nil
}

func toAnthropicTools(defs []ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, d := range defs {
		schema := anthropic.ToolInputSchemaParam{Properties: d.Parameters["properties"]}
		if req, ok := d.Parameters["required"].([]string); ok {
			schema.Required = req
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        d.Name,
			Description: anthropic.String(d.Description),
			InputSchema: schema,
		}})
	}
	return out
}

// toAnthropicMessages folds consecutive tool results into a single user
// turn, which is how the Messages API expects them.
func toAnthropicMessages(msgs []Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	var results []anthropic.ContentBlockParamUnion

	flush := func() {
		if len(results) > 0 {
			out = append(out, anthropic.NewUserMessage(results...))
			results = nil
		}
	}

	for _, m := range msgs {
		switch m.Role {
		case RoleTool:
			isErr := strings.HasPrefix(m.Content, "Error")
			results = append(results, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, isErr))
		case RoleAssistant:
			flush()
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				args := tc.Arguments
				if args == nil {
					args = map[string]any{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, args, tc.Name))
			}
			if len(blocks) > 0 {
				out = append(out, anthropic.NewAssistantMessage(blocks...))
			}
		default:
			flush()
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	flush()
	return out
}

func fromAnthropicMessage(msg *anthropic.Message) *LLMResponse {
	var text strings.Builder
	var calls []ToolCallRequest
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			var args map[string]any
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					args = map[string]any{}
				}
			}
			calls = append(calls, ToolCallRequest{ID: block.ID, Name: block.Name, Arguments: args})
		}
	}

	finish := string(msg.StopReason)
	if finish == "" {
		finish = "stop"
	}

	return &LLMResponse{
		Content:      strPtr(text.String()),
		ToolCalls:    calls,
		FinishReason: finish,
		Usage: map[string]int{
			"prompt_tokens":     int(msg.Usage.InputTokens),
			"completion_tokens": int(msg.Usage.OutputTokens),
			"total_tokens":      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}
}
