package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dayuer/aibot-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aibot", "config.yaml")

	created, err := writeDefaultConfig(path)
	require.NoError(t, err)
	assert.True(t, created)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Agent.Model, cfg.Agent.Model)

	created, err = writeDefaultConfig(path)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestWriteEnvTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	created, err := writeEnvTemplate(path)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# ANTHROPIC_API_KEY=")
	assert.Contains(t, text, "# GEMINI_API_KEY=")
	assert.Contains(t, text, "# BRAVE_API_KEY=")

	require.NoError(t, os.WriteFile(path, []byte("KEEP=1\n"), 0600))
	created, err = writeEnvTemplate(path)
	require.NoError(t, err)
	assert.False(t, created)
	data, _ = os.ReadFile(path)
	assert.Equal(t, "KEEP=1\n", string(data))
}
