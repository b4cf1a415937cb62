package tools

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var blockHeader = regexp.MustCompile(`^--- Response by AIBOT ---\nTime of response: \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\n\n`)

func fixedNow() time.Time { return time.Date(2024, 5, 1, 12, 30, 45, 0, time.Local) }

func TestSaveTool_Contract(t *testing.T) {
	RunToolContractTests(t, &SaveTool{})
}

func TestSaveTool_WritesBlock(t *testing.T) {
	dir := t.TempDir()
	tool := &SaveTool{Dir: dir, Now: fixedNow}

	out, err := tool.Execute(context.Background(), map[string]any{"data": "X"})
	require.NoError(t, err)
	assert.Equal(t, "Data successfully saved to response_output.txt", out)

	content, err := os.ReadFile(filepath.Join(dir, DefaultSaveFilename))
	require.NoError(t, err)
	assert.Equal(t, "--- Response by AIBOT ---\nTime of response: 2024-05-01 12:30:45\n\nX\n\n", string(content))
	assert.Regexp(t, blockHeader, string(content))
}

func TestSaveTool_AppendsBlocks(t *testing.T) {
	dir := t.TempDir()
	tool := &SaveTool{Dir: dir}

	_, err := tool.Execute(context.Background(), map[string]any{"data": "first", "filename": "notes.txt"})
	require.NoError(t, err)
	_, err = tool.Execute(context.Background(), map[string]any{"data": "second", "filename": "notes.txt"})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	text := string(content)
	assert.Equal(t, 2, strings.Count(text, "--- Response by AIBOT ---"))
	assert.Less(t, strings.Index(text, "first"), strings.Index(text, "second"))
	assert.Regexp(t, blockHeader, text)
}

func TestSaveTool_DefaultFilenameOverride(t *testing.T) {
	dir := t.TempDir()
	tool := &SaveTool{Dir: dir, DefaultFilename: "research.txt"}

	out, _ := tool.Execute(context.Background(), map[string]any{"data": "X"})
	assert.Equal(t, "Data successfully saved to research.txt", out)
	assert.FileExists(t, filepath.Join(dir, "research.txt"))
}

func TestSaveTool_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	tool := &SaveTool{Dir: dir}

	out, err := tool.Execute(context.Background(), map[string]any{"data": "X", "filename": "missing/dir/out.txt"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Error writing file:"), out)
	assert.NoDirExists(t, filepath.Join(dir, "missing"))
}

func TestSaveTool_AllowedDir(t *testing.T) {
	dir := t.TempDir()
	tool := &SaveTool{Dir: dir, AllowedDir: dir}

	out, _ := tool.Execute(context.Background(), map[string]any{"data": "X", "filename": "../escape.txt"})
	assert.Contains(t, out, "outside allowed directory")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "escape.txt"))

	out, _ = tool.Execute(context.Background(), map[string]any{"data": "X", "filename": "inside.txt"})
	assert.Equal(t, "Data successfully saved to inside.txt", out)
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	got, err := resolvePath(filepath.Join(dir, "a.txt"), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.txt"), got)

	_, err = resolvePath("/etc/passwd", dir)
	assert.Error(t, err)
}
