package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const franceJSON = `{"topic": "Capital of France", "summary": "Paris is the capital of France.", "sources": ["https://en.wikipedia.org/wiki/Paris"], "tools_used": ["wikipedia"]}`

func TestParse_PlainJSON(t *testing.T) {
	r, err := Parse(franceJSON)
	require.NoError(t, err)
	assert.Equal(t, "Capital of France", r.Topic)
	assert.Equal(t, "Paris is the capital of France.", r.Summary)
	assert.Equal(t, []string{"https://en.wikipedia.org/wiki/Paris"}, r.Sources)
	assert.Equal(t, []string{"wikipedia"}, r.ToolsUsed)
}

func TestParse_CodeFence(t *testing.T) {
	r, err := Parse("```json\n" + franceJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Capital of France", r.Topic)
}

func TestParse_SurroundingText(t *testing.T) {
	r, err := Parse("Here is your answer:\n" + franceJSON + "\nLet me know if you need more.")
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", r.Summary)
}

func TestParse_EmptyListsAccepted(t *testing.T) {
	r, err := Parse(`{"topic":"t","summary":"s","sources":[],"tools_used":[]}`)
	require.NoError(t, err)
	assert.Empty(t, r.Sources)
	assert.NotNil(t, r.Sources)
}

func TestParse_NotStructured(t *testing.T) {
	cases := map[string]string{
		"free text":     "Paris is the capital of France.",
		"missing field": `{"topic":"t","summary":"s","sources":[]}`,
		"unknown field": `{"topic":"t","summary":"s","sources":[],"tools_used":[],"extra":1}`,
		"wrong type":    `{"topic":"t","summary":"s","sources":"one","tools_used":[]}`,
		"broken json":   `{"topic": "t", "summary": }`,
		"empty":         "",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := Parse(text)
			assert.Nil(t, r)
			assert.True(t, errors.Is(err, ErrNotStructured), "got %v", err)
		})
	}
}

func TestParse_MissingFieldsNamed(t *testing.T) {
	_, err := Parse(`{"summary":"s"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topic, sources, tools_used")
}

func TestJSONSchema_RequiresAllFields(t *testing.T) {
	var s struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	require.NoError(t, json.Unmarshal([]byte(JSONSchema()), &s))
	assert.Equal(t, "object", s.Type)
	assert.ElementsMatch(t, []string{"topic", "summary", "sources", "tools_used"}, s.Required)
	assert.Len(t, s.Properties, 4)
}

func TestFormatInstructions(t *testing.T) {
	fi := FormatInstructions()
	assert.Contains(t, fi, "JSON schema")
	assert.Contains(t, fi, `"tools_used"`)
	assert.Contains(t, fi, "```")
}

func TestJSONSchema_Descriptions(t *testing.T) {
	assert.Contains(t, JSONSchema(), "The answer to the question.")
}
