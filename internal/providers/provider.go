// OpenAI-compatible LLM provider using standard HTTP.
// Works with OpenAI, OpenRouter, DeepSeek, Groq, Ollama and any other
// endpoint that speaks chat/completions with function calling.

package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider is an OpenAI-compatible LLM provider.
type Provider struct {
	APIKey       string
	APIBase      string
	Model        string // default model
	ExtraHeaders map[string]string
	HTTPClient   *http.Client

	gateway *ProviderSpec // detected gateway, if any
}

// NewProvider creates a Provider with given config.
func NewProvider(apiKey, apiBase, defaultModel, providerName string) *Provider {
	if defaultModel == "" {
		defaultModel = "gpt-4o-mini"
	}

	p := &Provider{
		APIKey:     apiKey,
		APIBase:    apiBase,
		Model:      defaultModel,
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
	}

	p.gateway = FindGateway(providerName, apiKey, apiBase)
	return p
}

// DefaultModel satisfies the LLMProvider interface.
func (p *Provider) DefaultModel() string { return p.Model }

// Chat sends a chat completion request.
func (p *Provider) Chat(ctx context.Context, req ChatRequest) (*LLMResponse, error) {
	model := req.Model
	if model == "" {
		model = p.Model
	}
	model = p.resolveModel(model)

	maxTokens := req.MaxTokens
	if maxTokens < 1 {
		maxTokens = 4096
	}

	temp := req.Temperature
	p.applyModelOverrides(model, &temp)

	body := map[string]any{
		"model":       model,
		"messages":    toOpenAIMessages(req.Messages),
		"max_tokens":  maxTokens,
		"temperature": temp,
	}
	if len(req.Tools) > 0 {
		body["tools"] = toOpenAITools(req.Tools)
		body["tool_choice"] = "auto"
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	apiBase := p.APIBase
	if apiBase == "" && p.gateway != nil {
		apiBase = p.gateway.DefaultAPIBase
	}
	if apiBase == "" {
		if spec := FindByModel(model); spec != nil && spec.DefaultAPIBase != "" {
			apiBase = spec.DefaultAPIBase
		}
	}
	if apiBase == "" {
		apiBase = "https://api.openai.com/v1"
	}
	endpoint := strings.TrimRight(apiBase, "/") + "/chat/completions"

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	for k, v := range p.ExtraHeaders {
		httpReq.Header.Set(k, v)
	}

	resp, err := p.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling LLM: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading LLM response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calling LLM (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return p.parseResponse(respBody)
}

// resolveModel strips the "provider/" prefix for direct API calls.
// Gateways such as OpenRouter expect the prefixed name and keep it.
func (p *Provider) resolveModel(model string) string {
	if p.gateway != nil {
		if p.gateway.StripModelPrefix {
			parts := strings.SplitN(model, "/", 2)
			model = parts[len(parts)-1]
		}
		return model
	}
	if idx := strings.Index(model, "/"); idx >= 0 {
		model = model[idx+1:]
	}
	return model
}

func (p *Provider) applyModelOverrides(model string, temperature *float64) {
	lower := strings.ToLower(model)
	spec := FindByModel(model)
	if spec == nil {
		return
	}
	for _, ov := range spec.ModelOverrides {
		if strings.Contains(lower, ov.Pattern) {
			if t, ok := ov.Overrides["temperature"].(float64); ok {
				*temperature = t
			}
			return
		}
	}
}

func toOpenAITools(defs []ToolDefinition) []map[string]any {
	out := make([]map[string]any, len(defs))
	for i, d := range defs {
		out[i] = map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        d.Name,
				"description": d.Description,
				"parameters":  d.Parameters,
			},
		}
	}
	return out
}

func toOpenAIMessages(msgs []Message) []map[string]any {
	out := make([]map[string]any, 0, len(msgs))
	for _, m := range msgs {
		msg := map[string]any{"role": m.Role, "content": m.Content}
		if len(m.ToolCalls) > 0 {
			calls := make([]map[string]any, len(m.ToolCalls))
			for i, tc := range m.ToolCalls {
				args, _ := json.Marshal(tc.Arguments)
				calls[i] = map[string]any{
					"id":   tc.ID,
					"type": "function",
					"function": map[string]any{
						"name":      tc.Name,
						"arguments": string(args),
					},
				}
			}
			msg["tool_calls"] = calls
		}
		if m.Role == RoleTool {
			msg["tool_call_id"] = m.ToolCallID
			msg["name"] = m.Name
		}
		out = append(out, msg)
	}
	return out
}

// openAIResponse mirrors the OpenAI chat completion response structure.
type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content          *string `json:"content"`
			ReasoningContent *string `json:"reasoning_content"`
			ToolCalls        []struct {
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (p *Provider) parseResponse(body []byte) (*LLMResponse, error) {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing LLM response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("parsing LLM response: no choices")
	}

	choice := resp.Choices[0]
	msg := choice.Message

	var toolCalls []ToolCallRequest
	for _, tc := range msg.ToolCalls {
		var args map[string]any
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				args = map[string]any{}
			}
		}
		toolCalls = append(toolCalls, ToolCallRequest{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	usage := map[string]int{}
	if resp.Usage != nil {
		usage["prompt_tokens"] = resp.Usage.PromptTokens
		usage["completion_tokens"] = resp.Usage.CompletionTokens
		usage["total_tokens"] = resp.Usage.TotalTokens
	}

	finishReason := choice.FinishReason
	if finishReason == "" {
		finishReason = "stop"
	}

	return &LLMResponse{
		Content:          msg.Content,
		ToolCalls:        toolCalls,
		FinishReason:     finishReason,
		Usage:            usage,
		ReasoningContent: msg.ReasoningContent,
	}, nil
}
