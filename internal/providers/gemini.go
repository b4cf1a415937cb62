// Google Gemini provider built on google.golang.org/genai.

package providers

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient is the subset of the genai SDK the provider needs.
type GeminiClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// genaiModels adapts *genai.Client to GeminiClient.
type genaiModels struct {
	client *genai.Client
}

func (g genaiModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, contents, config)
}

// GeminiProvider talks to the Gemini API.
type GeminiProvider struct {
	Model string

	client GeminiClient
}

// NewGeminiProvider creates a GeminiProvider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return NewGeminiProviderWithClient(genaiModels{client: client}, model), nil
}

// NewGeminiProviderWithClient creates a GeminiProvider around an existing client.
func NewGeminiProviderWithClient(client GeminiClient, model string) *GeminiProvider {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{
		Model:  strings.TrimPrefix(model, "gemini/"),
		client: client,
	}
}

// DefaultModel satisfies the LLMProvider interface.
func (p *GeminiProvider) DefaultModel() string { return p.Model }

// Chat sends a GenerateContent request.
func (p *GeminiProvider) Chat(ctx context.Context, req ChatRequest) (*LLMResponse, error) {
	model := req.Model
	if model == "" {
		model = p.Model
	}
	model = strings.TrimPrefix(model, "gemini/")

	system, conversation := req.SystemPrompt()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(system)},
		}
	}
	if len(req.Tools) > 0 {
		config.Tools = toGeminiTools(req.Tools)
	}

	resp, err := p.client.GenerateContent(ctx, model, toGeminiContents(conversation), config)
	if err != nil {
		return nil, fmt.Errorf("calling Gemini: %w", err)
	}
	return fromGeminiResponse(resp)
}

// toGeminiContents maps chat roles onto Gemini's user/model turns.
// Consecutive tool results are sent as one user turn of function responses.
func toGeminiContents(msgs []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	var responses []*genai.Part

	flush := func() {
		if len(responses) > 0 {
			contents = append(contents, &genai.Content{Role: "user", Parts: responses})
			responses = nil
		}
	}

	for _, m := range msgs {
		switch m.Role {
		case RoleTool:
			responses = append(responses, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       m.ToolCallID,
					Name:     m.Name,
					Response: map[string]any{"output": m.Content},
				},
			})
		case RoleAssistant:
			flush()
			var parts []*genai.Part
			if m.Content != "" {
				parts = append(parts, genai.NewPartFromText(m.Content))
			}
			for _, tc := range m.ToolCalls {
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: tc.Arguments},
				})
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: "model", Parts: parts})
			}
		default:
			flush()
			if m.Content != "" {
				contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
			}
		}
	}
	flush()
	return contents
}

func toGeminiTools(defs []ToolDefinition) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, d := range defs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  toGeminiSchema(d.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// toGeminiSchema converts a JSON Schema map into a genai.Schema.
// Only the keywords our tools use are carried over.
func toGeminiSchema(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}
	s := &genai.Schema{}
	if t, ok := m["type"].(string); ok {
		s.Type = toGeminiType(t)
	}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if pm, ok := raw.(map[string]any); ok {
				s.Properties[name] = toGeminiSchema(pm)
			}
		}
	}
	if items, ok := m["items"].(map[string]any); ok {
		s.Items = toGeminiSchema(items)
	}
	if req, ok := m["required"].([]string); ok {
		s.Required = req
	}
	return s
}

func toGeminiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

func fromGeminiResponse(resp *genai.GenerateContentResponse) (*LLMResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("calling Gemini: no candidates in response")
	}

	cand := resp.Candidates[0]
	var text, thoughts strings.Builder
	var calls []ToolCallRequest
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			switch {
			case part.FunctionCall != nil:
				id := part.FunctionCall.ID
				if id == "" {
					id = fmt.Sprintf("call_%d", len(calls)+1)
				}
				calls = append(calls, ToolCallRequest{
					ID:        id,
					Name:      part.FunctionCall.Name,
					Arguments: part.FunctionCall.Args,
				})
			case part.Thought:
				thoughts.WriteString(part.Text)
			default:
				text.WriteString(part.Text)
			}
		}
	}

	out := &LLMResponse{
		Content:      strPtr(text.String()),
		ToolCalls:    calls,
		FinishReason: strings.ToLower(string(cand.FinishReason)),
		Usage:        map[string]int{},
	}
	if out.FinishReason == "" {
		out.FinishReason = "stop"
	}
	if thoughts.Len() > 0 {
		out.ReasoningContent = strPtr(thoughts.String())
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage["prompt_tokens"] = int(u.PromptTokenCount)
		out.Usage["completion_tokens"] = int(u.CandidatesTokenCount)
		out.Usage["total_tokens"] = int(u.TotalTokenCount)
	}
	return out, nil
}
