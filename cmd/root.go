package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var (
	configPath string
	askMessage string
)

var rootCmd = &cobra.Command{
	Use:   "aibot",
	Short: "Ask one question, get a researched answer",
	Long: `aibot sends one question to an LLM that can search the web, look topics up
on Wikipedia and save notes to a file, then prints the answer's summary.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAsk,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file, JSON or YAML (default ~/.aibot/config.json)")
	rootCmd.Flags().StringVarP(&askMessage, "message", "m", "", "question to ask instead of prompting for one")
}
