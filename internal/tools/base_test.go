package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// RunToolContractTests runs the standard contract tests that ALL tools must pass.
// Call this in each tool's test file to ensure contract compliance.
func RunToolContractTests(t *testing.T, tool Tool) {
	t.Helper()

	t.Run("Contract/Name_NonEmpty", func(t *testing.T) {
		assert.NotEmpty(t, tool.Name(), "Tool.Name() must return non-empty string")
	})

	t.Run("Contract/Description_NonEmpty", func(t *testing.T) {
		assert.NotEmpty(t, tool.Description(), "Tool.Description() must return non-empty string")
	})

	t.Run("Contract/Parameters_ValidSchema", func(t *testing.T) {
		p := tool.Parameters()
		assert.NotNil(t, p, "Tool.Parameters() must not be nil")
		assert.Equal(t, "object", p["type"], "Parameters root type must be 'object'")
		props, hasProps := p["properties"].(map[string]any)
		assert.True(t, hasProps, "Parameters must have 'properties' field")
		required, _ := p["required"].([]string)
		for _, name := range required {
			assert.Contains(t, props, name, "required parameter must be declared")
		}
	})

	t.Run("Contract/ToDefinition", func(t *testing.T) {
		def := ToDefinition(tool)
		assert.Equal(t, tool.Name(), def.Name)
		assert.Equal(t, tool.Description(), def.Description)
		assert.Equal(t, tool.Parameters(), def.Parameters)
	})
}

// memCache is an in-memory ResultCache for tests.
type memCache struct {
	data map[string]string
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (m *memCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memCache) Set(_ context.Context, key, value string) bool {
	m.data[key] = value
	m.sets++
	return true
}
