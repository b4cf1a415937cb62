// Package schema defines the structured answer the research agent must return
// and the best-effort parser applied to the model's final message.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// ErrNotStructured is returned by Parse when the text does not hold a
// ResearchResponse. Callers fall back to the raw conversation.
var ErrNotStructured = errors.New("response is not structured")

// ResearchResponse is the answer shape the model is instructed to emit.
type ResearchResponse struct {
	Topic     string   `json:"topic" jsonschema:"title=Topic" jsonschema_description:"What the question is about."`
	Summary   string   `json:"summary" jsonschema:"title=Summary" jsonschema_description:"The answer to the question."`
	Sources   []string `json:"sources" jsonschema:"title=Sources" jsonschema_description:"URLs or references the answer relies on."`
	ToolsUsed []string `json:"tools_used" jsonschema:"title=Tools Used" jsonschema_description:"Names of the tools called while researching."`
}

// JSONSchema returns the schema of ResearchResponse as indented JSON.
func JSONSchema() string {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Anonymous:      true,
	}
	s := r.Reflect(&ResearchResponse{})
	s.Version = ""
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		// Reflected schemas always marshal.
		panic(fmt.Sprintf("schema: marshal: %v", err))
	}
	return string(data)
}

// FormatInstructions tells the model how to shape its final answer.
func FormatInstructions() string {
	return `The output should be formatted as a JSON instance that conforms to the JSON schema below.

As an example, for the schema {"properties": {"foo": {"title": "Foo", "description": "a list of strings", "type": "array", "items": {"type": "string"}}}, "required": ["foo"]}
the object {"foo": ["bar", "baz"]} is a well-formatted instance of the schema. The object {"properties": {"foo": ["bar", "baz"]}} is not well-formatted.

Here is the output schema:
` + "```\n" + JSONSchema() + "\n```"
}

// wire mirrors ResearchResponse with pointers so missing fields can be told
// apart from empty ones.
type wire struct {
	Topic     *string   `json:"topic"`
	Summary   *string   `json:"summary"`
	Sources   *[]string `json:"sources"`
	ToolsUsed *[]string `json:"tools_used"`
}

// Parse extracts a ResearchResponse from model output. Markdown code fences
// and text around the outermost JSON object are ignored. Every field must be
// present and no others are accepted.
func Parse(text string) (*ResearchResponse, error) {
	obj, ok := extractObject(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object found", ErrNotStructured)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(obj)))
	dec.DisallowUnknownFields()
	var w wire
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotStructured, err)
	}

	var missing []string
	if w.Topic == nil {
		missing = append(missing, "topic")
	}
	if w.Summary == nil {
		missing = append(missing, "summary")
	}
	if w.Sources == nil {
		missing = append(missing, "sources")
	}
	if w.ToolsUsed == nil {
		missing = append(missing, "tools_used")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing field(s) %s", ErrNotStructured, strings.Join(missing, ", "))
	}

	return &ResearchResponse{
		Topic:     *w.Topic,
		Summary:   *w.Summary,
		Sources:   *w.Sources,
		ToolsUsed: *w.ToolsUsed,
	}, nil
}

func extractObject(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
