package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dayuer/aibot-go/internal/utils"
)

// DefaultSaveFilename is used when the model does not name a file.
const DefaultSaveFilename = "response_output.txt"

// SaveTool appends timestamped text blocks to a file.
// Writes are not locked; concurrent processes may interleave blocks.
type SaveTool struct {
	Dir             string // base for relative filenames; "" means the working directory
	DefaultFilename string
	AllowedDir      string // when set, writes outside it are refused
	Now             func() time.Time
}

func (t *SaveTool) Name() string        { return "save_text_to_file" }
func (t *SaveTool) Description() string { return "Saves structured research data to a text file." }
func (t *SaveTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"data":     map[string]any{"type": "string", "description": "The text to save"},
			"filename": map[string]any{"type": "string", "description": "Target file name (default " + DefaultSaveFilename + ")"},
		},
		"required": []string{"data"},
	}
}

type saveArgs struct {
	Data     string `mapstructure:"data"`
	Filename string `mapstructure:"filename"`
}

func (t *SaveTool) Execute(_ context.Context, args map[string]any) (string, error) {
	var a saveArgs
	if err := decodeArgs(args, &a); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	filename := strings.TrimSpace(a.Filename)
	if filename == "" {
		filename = t.DefaultFilename
	}
	if filename == "" {
		filename = DefaultSaveFilename
	}

	path := utils.ExpandHome(filename)
	if !filepath.IsAbs(path) && t.Dir != "" {
		path = filepath.Join(utils.ExpandHome(t.Dir), path)
	}
	resolved, err := resolvePath(path, t.AllowedDir)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	block := fmt.Sprintf("--- Response by AIBOT ---\nTime of response: %s\n\n%s\n\n", utils.Timestamp(now()), a.Data)

	if err := appendFile(resolved, block); err != nil {
		return fmt.Sprintf("Error writing file: %v", err), nil
	}
	return fmt.Sprintf("Data successfully saved to %s", filename), nil
}

func appendFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// resolvePath makes path absolute and optionally enforces directory restriction.
func resolvePath(path string, allowedDir string) (string, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if allowedDir != "" {
		absAllowed, _ := filepath.Abs(utils.ExpandHome(allowedDir))
		rel, err := filepath.Rel(absAllowed, resolved)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("path %s is outside allowed directory %s", path, allowedDir)
		}
	}
	return resolved, nil
}
