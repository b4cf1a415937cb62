package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dayuer/aibot-go/internal/config"
	"github.com/dayuer/aibot-go/internal/providers"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show aibot configuration and credentials",
	RunE:  runStatus,
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Faint(true).Width(11)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")) // dim gray
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderStatus(cfg, path))
	return nil
}

func renderStatus(cfg config.Config, path string) string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + " " + value
	}

	provider := missingStyle.Render("none")
	if spec, _, err := resolveProvider(cfg); err == nil {
		provider = spec.Label()
	}

	cacheState := missingStyle.Render("disabled")
	if cfg.Cache.URL != "" {
		cacheState = cfg.Cache.URL
	}

	lines := []string{
		titleStyle.Render("aibot status"),
		"",
		row("Config", path),
		row("Model", cfg.Agent.Model),
		row("Provider", provider),
		row("Search", cfg.Tools.Search.Provider),
		row("Wikipedia", fmt.Sprintf("%s, top %d, %d chars", cfg.Tools.Wikipedia.Language, cfg.Tools.Wikipedia.TopK, cfg.Tools.Wikipedia.MaxChars)),
		row("Save to", cfg.Tools.Save.Filename),
		row("Cache", cacheState),
		"",
		titleStyle.Render("Credentials"),
	}
	for _, spec := range providers.Providers {
		mark := missingStyle.Render("-")
		if cfg.ProviderFor(spec.Name).APIKey != "" {
			mark = okStyle.Render("✓")
		}
		lines = append(lines, row(spec.Label(), mark))
	}
	braveMark := missingStyle.Render("-")
	if cfg.Tools.Search.APIKey != "" {
		braveMark = okStyle.Render("✓")
	}
	lines = append(lines, row("Brave", braveMark))

	return strings.Join(lines, "\n")
}
