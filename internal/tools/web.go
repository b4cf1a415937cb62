package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dayuer/aibot-go/internal/cache"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36"

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// SearchBackend runs a web search against one provider.
type SearchBackend interface {
	Search(ctx context.Context, query string, count int) ([]SearchResult, error)
}

// WebSearchTool searches the web through a SearchBackend.
type WebSearchTool struct {
	Backend    SearchBackend
	MaxResults int
	Cache      ResultCache // optional
}

func (t *WebSearchTool) Name() string        { return "search" }
func (t *WebSearchTool) Description() string { return "Search the web for information" }
func (t *WebSearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": "Search query"},
		},
		"required": []string{"query"},
	}
}

type searchArgs struct {
	Query string `mapstructure:"query"`
}

func (t *WebSearchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var a searchArgs
	if err := decodeArgs(args, &a); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	query := strings.TrimSpace(a.Query)
	if query == "" {
		return "Error: query is required", nil
	}
	if t.Backend == nil {
		return "Error: no search backend configured", nil
	}

	count := t.MaxResults
	if count <= 0 {
		count = 5
	}

	key := cache.KeySearch + strings.ToLower(query)
	if t.Cache != nil {
		if hit, ok := t.Cache.Get(ctx, key); ok {
			return hit, nil
		}
	}

	results, err := t.Backend.Search(ctx, query, count)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if len(results) == 0 {
		return fmt.Sprintf("No results for: %s", query), nil
	}

	out := formatResults(query, results, count)
	if t.Cache != nil {
		t.Cache.Set(ctx, key, out)
	}
	return out, nil
}

func formatResults(query string, results []SearchResult, count int) string {
	lines := []string{fmt.Sprintf("Results for: %s\n", query)}
	for i, item := range results {
		if i >= count {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s\n   %s", i+1, item.Title, item.URL))
		if item.Snippet != "" {
			lines = append(lines, "   "+item.Snippet)
		}
	}
	return strings.Join(lines, "\n")
}

var (
	reScript = regexp.MustCompile(`(?is)<script[\s\S]*?</script>`)
	reStyle  = regexp.MustCompile(`(?is)<style[\s\S]*?</style>`)
	reTag    = regexp.MustCompile(`<[^>]+>`)
)

func stripTags(text string) string {
	text = reScript.ReplaceAllString(text, "")
	text = reStyle.ReplaceAllString(text, "")
	text = reTag.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
