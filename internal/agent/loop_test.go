package agent

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/dayuer/aibot-go/internal/providers"
	"github.com/dayuer/aibot-go/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider implements providers.LLMProvider for testing.
type mockProvider struct {
	responses []*providers.LLMResponse
	err       error
	callCount int
	requests  []providers.ChatRequest
}

func (m *mockProvider) Chat(_ context.Context, req providers.ChatRequest) (*providers.LLMResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if m.callCount >= len(m.responses) {
		s := "No more responses"
		return &providers.LLMResponse{Content: &s, FinishReason: "stop"}, nil
	}
	resp := m.responses[m.callCount]
	m.callCount++
	return resp, nil
}

func (m *mockProvider) DefaultModel() string { return "mock-model" }

func strP(s string) *string { return &s }

func toolCall(id, name string, args map[string]any) *providers.LLMResponse {
	return &providers.LLMResponse{
		Content:      strP(""),
		FinishReason: "tool_calls",
		ToolCalls:    []providers.ToolCallRequest{{ID: id, Name: name, Arguments: args}},
	}
}

// mockToolForLoop is a minimal tool implementation for testing the agent loop.
type mockToolForLoop struct {
	name   string
	result string
	err    error
	args   []map[string]any
}

func (m *mockToolForLoop) Name() string        { return m.name }
func (m *mockToolForLoop) Description() string { return "mock" }
func (m *mockToolForLoop) Parameters() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}
func (m *mockToolForLoop) Execute(_ context.Context, args map[string]any) (string, error) {
	m.args = append(m.args, args)
	if m.result == "" && m.err == nil {
		return "mock result", nil
	}
	return m.result, m.err
}

func registryWith(ts ...tools.Tool) *tools.Registry {
	r := tools.NewRegistry()
	for _, t := range ts {
		r.Register(t)
	}
	return r
}

func TestAgentLoop_Run_TextOnly(t *testing.T) {
	mp := &mockProvider{responses: []*providers.LLMResponse{
		{Content: strP("Hello human!"), FinishReason: "stop"},
	}}
	loop := NewAgentLoop(mp, nil, AgentConfig{})

	res, err := loop.Run(context.Background(), []providers.Message{
		{Role: providers.RoleSystem, Content: "You are helpful"},
		{Role: providers.RoleUser, Content: "Hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello human!", res.Content)
	assert.Empty(t, res.ToolsUsed)
	assert.Equal(t, 1, res.Iterations)
	require.Len(t, res.Messages, 3)
	assert.Equal(t, providers.RoleAssistant, res.Messages[2].Role)
}

func TestAgentLoop_Run_WithToolCalls(t *testing.T) {
	mp := &mockProvider{responses: []*providers.LLMResponse{
		toolCall("call_1", "search", map[string]any{"query": "Paris"}),
		{Content: strP("Paris it is"), FinishReason: "stop"},
	}}
	search := &mockToolForLoop{name: "search", result: "Paris is the capital"}
	loop := NewAgentLoop(mp, registryWith(search), AgentConfig{})

	res, err := loop.Run(context.Background(), []providers.Message{{Role: providers.RoleUser, Content: "capital?"}})
	require.NoError(t, err)
	assert.Equal(t, "Paris it is", res.Content)
	assert.Equal(t, []string{"search"}, res.ToolsUsed)
	assert.Equal(t, "Paris", search.args[0]["query"])

	// user, assistant(tool call), tool, assistant
	require.Len(t, res.Messages, 4)
	assert.Equal(t, "call_1", res.Messages[1].ToolCalls[0].ID)
	assert.Equal(t, providers.RoleTool, res.Messages[2].Role)
	assert.Equal(t, "call_1", res.Messages[2].ToolCallID)
	assert.Equal(t, "Paris is the capital", res.Messages[2].Content)

	// tools are offered on every call and the second call sees the tool result
	require.Len(t, mp.requests, 2)
	require.Len(t, mp.requests[0].Tools, 1)
	assert.Equal(t, "search", mp.requests[0].Tools[0].Name)
	assert.Len(t, mp.requests[1].Messages, 3)
}

func TestAgentLoop_ToolErrorsGoBackToModel(t *testing.T) {
	mp := &mockProvider{responses: []*providers.LLMResponse{
		toolCall("c1", "flaky", nil),
		toolCall("c2", "nonexistent", nil),
		{Content: strP("done"), FinishReason: "stop"},
	}}
	flaky := &mockToolForLoop{name: "flaky", err: errors.New("network down")}
	loop := NewAgentLoop(mp, registryWith(flaky), AgentConfig{})

	res, err := loop.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "done", res.Content)
	assert.Equal(t, "Error: network down", res.Messages[1].Content)
	assert.Equal(t, `Error: unknown tool "nonexistent"`, res.Messages[3].Content)
	assert.Equal(t, []string{"flaky", "nonexistent"}, res.ToolsUsed)
}

func TestAgentLoop_MaxIterations(t *testing.T) {
	// Provider always returns tool calls, so the loop must stop on its own.
	mp := &mockProvider{responses: make([]*providers.LLMResponse, 100)}
	for i := range mp.responses {
		mp.responses[i] = toolCall("c", "noop", nil)
	}
	loop := NewAgentLoop(mp, registryWith(&mockToolForLoop{name: "noop"}), AgentConfig{MaxIterations: 3})

	res, err := loop.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, MaxIterationsMessage, res.Content)
	assert.Equal(t, 3, mp.callCount)
	assert.Equal(t, MaxIterationsMessage, res.Messages[len(res.Messages)-1].Content)
}

func TestAgentLoop_ProviderError(t *testing.T) {
	mp := &mockProvider{err: errors.New("connection refused")}
	loop := NewAgentLoop(mp, nil, AgentConfig{})

	_, err := loop.Run(context.Background(), []providers.Message{{Role: providers.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAgentLoop_DefaultConfig(t *testing.T) {
	loop := NewAgentLoop(&mockProvider{}, nil, AgentConfig{})
	assert.Equal(t, "mock-model", loop.Model)
	assert.Equal(t, 25, loop.MaxIterations)
	assert.Equal(t, 4096, loop.MaxTokens)
	assert.NotNil(t, loop.Tools)
}

func TestAgentLoop_ConfigPassedToProvider(t *testing.T) {
	mp := &mockProvider{responses: []*providers.LLMResponse{{Content: strP("ok")}}}
	loop := NewAgentLoop(mp, nil, AgentConfig{Model: "claude-3-haiku-20240307", Temperature: 0.2, MaxTokens: 512})

	_, err := loop.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "claude-3-haiku-20240307", mp.requests[0].Model)
	assert.Equal(t, 0.2, mp.requests[0].Temperature)
	assert.Equal(t, 512, mp.requests[0].MaxTokens)
}

func TestAgentLoop_GuardShortensOldToolResults(t *testing.T) {
	big := strings.Repeat("x", 80_000)
	mp := &mockProvider{responses: []*providers.LLMResponse{
		toolCall("c1", "big", nil),
		toolCall("c2", "big", nil),
		{Content: strP("done")},
	}}
	loop := NewAgentLoop(mp, registryWith(&mockToolForLoop{name: "big", result: big}), AgentConfig{Model: "deepseek-chat"})

	res, err := loop.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "done", res.Content)

	// third call: two 80k-char results ≈ 80k tokens > 64k limit, so the older one is cut
	last := mp.requests[2].Messages
	assert.Less(t, len(last[1].Content), 1000)
	assert.Equal(t, big, last[3].Content)
}

func TestAgentLoop_LogsGuardStats(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	mp := &mockProvider{responses: []*providers.LLMResponse{
		toolCall("c1", "echo", nil),
		{Content: strP("done")},
	}}
	loop := NewAgentLoop(mp, registryWith(&mockToolForLoop{name: "echo", result: "ok"}), AgentConfig{Model: "gpt-4o"})

	_, err := loop.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[ContextGuard] checks=2 warnings=0 compressions=0")
}
