package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dayuer/aibot-go/internal/agent"
	"github.com/dayuer/aibot-go/internal/cache"
	"github.com/dayuer/aibot-go/internal/config"
	"github.com/dayuer/aibot-go/internal/presenter"
	"github.com/spf13/cobra"
)

// Prompt is shown before reading the question from stdin.
const Prompt = "What do you want to ask?: "

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	query := askMessage
	if query == "" {
		query, err = readQuery(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}
	return ask(ctx, cfg, query, cmd.OutOrStdout())
}

// ask runs one research query with cfg and prints the answer to out.
func ask(ctx context.Context, cfg config.Config, query string, out io.Writer) error {
	provider, err := makeProvider(ctx, cfg)
	if err != nil {
		return err
	}

	store := cache.New(ctx, cacheConfig(cfg))
	defer store.Close()

	researcher := agent.NewResearcher(provider, makeRegistry(cfg, resultCache(store)), agentConfig(cfg))
	result, err := researcher.Research(ctx, query)
	if err != nil {
		return err
	}
	return presenter.Present(out, result)
}

// readQuery prints the prompt and reads one line from in.
func readQuery(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprintln(out, Prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading question: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no question given")
	}
	return line, nil
}
