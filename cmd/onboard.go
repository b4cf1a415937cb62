package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dayuer/aibot-go/internal/config"
	"github.com/dayuer/aibot-go/internal/providers"
	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create a default aibot config and a .env template",
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	out := cmd.OutOrStdout()

	created, err := writeDefaultConfig(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "✓ Created config at %s\n", path)
	} else {
		fmt.Fprintf(out, "Config already exists at %s\n", path)
	}

	created, err = writeEnvTemplate(".env")
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintln(out, "✓ Created .env template")
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Put your API key in .env (ANTHROPIC_API_KEY for the default model)")
	fmt.Fprintln(out, "  2. Ask: aibot -m \"What is the capital of France?\"")
	return nil
}

// writeDefaultConfig saves DefaultConfig to path unless a file is already there.
func writeDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := config.Save(config.DefaultConfig(), path); err != nil {
		return false, fmt.Errorf("creating config: %w", err)
	}
	return true, nil
}

// writeEnvTemplate lists every credential variable aibot reads, commented out.
func writeEnvTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	var b strings.Builder
	b.WriteString("# aibot credentials. Uncomment the ones you use.\n")
	seen := map[string]bool{}
	for _, spec := range providers.Providers {
		if seen[spec.EnvKey] {
			continue
		}
		seen[spec.EnvKey] = true
		fmt.Fprintf(&b, "# %s=\n", spec.EnvKey)
	}
	b.WriteString("# BRAVE_API_KEY=\n# AIBOT_MODEL=\n# AIBOT_REDIS_URL=redis://localhost:6379/0\n")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, err
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return false, fmt.Errorf("creating %s: %w", path, err)
	}
	return true, nil
}
