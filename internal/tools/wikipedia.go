package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dayuer/aibot-go/internal/cache"
	"github.com/dayuer/aibot-go/internal/utils"
)

// NoWikipediaResult is returned when the search finds no article.
const NoWikipediaResult = "No good Wikipedia Search Result was found"

// WikipediaTool looks a topic up on Wikipedia and returns a short excerpt.
// Output is capped at MaxChars runes so tool results stay cheap for the model.
type WikipediaTool struct {
	BaseURL  string // e.g. https://en.wikipedia.org; derived from Language when empty
	Language string
	TopK     int
	MaxChars int
	Client   *http.Client
	Cache    ResultCache // optional
}

// NewWikipediaTool creates a WikipediaTool with a 10s timeout.
func NewWikipediaTool(language string, topK, maxChars int) *WikipediaTool {
	return &WikipediaTool{
		Language: language,
		TopK:     topK,
		MaxChars: maxChars,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *WikipediaTool) Name() string { return "wikipedia" }
func (t *WikipediaTool) Description() string {
	return "A wrapper around Wikipedia. Useful for answering general questions about people, places, companies, facts, historical events, or other subjects. Input should be a search query."
}
func (t *WikipediaTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": "Topic to look up"},
		},
		"required": []string{"query"},
	}
}

func (t *WikipediaTool) maxChars() int {
	if t.MaxChars <= 0 {
		return 4000
	}
	return t.MaxChars
}

func (t *WikipediaTool) topK() int {
	if t.TopK <= 0 {
		return 1
	}
	return t.TopK
}

func (t *WikipediaTool) baseURL() string {
	if t.BaseURL != "" {
		return strings.TrimRight(t.BaseURL, "/")
	}
	lang := t.Language
	if lang == "" {
		lang = "en"
	}
	return "https://" + lang + ".wikipedia.org"
}

func (t *WikipediaTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	return utils.TruncateString(t.lookup(ctx, args), t.maxChars(), ""), nil
}

func (t *WikipediaTool) lookup(ctx context.Context, args map[string]any) string {
	var a searchArgs
	if err := decodeArgs(args, &a); err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	query := strings.TrimSpace(a.Query)
	if query == "" {
		return "Error: query is required"
	}

	key := fmt.Sprintf("%s%s:%d:%d:%s", cache.KeyWikipedia, t.Language, t.topK(), t.maxChars(), strings.ToLower(query))
	if t.Cache != nil {
		if hit, ok := t.Cache.Get(ctx, key); ok {
			return hit
		}
	}

	titles, err := t.search(ctx, query)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	var summaries []string
	for _, title := range titles {
		extract, err := t.extract(ctx, title)
		if err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		if extract == "" {
			continue
		}
		summaries = append(summaries, fmt.Sprintf("Page: %s\nSummary: %s", title, extract))
	}
	if len(summaries) == 0 {
		return NoWikipediaResult
	}

	out := utils.TruncateString(strings.Join(summaries, "\n\n"), t.maxChars(), "")
	if t.Cache != nil {
		t.Cache.Set(ctx, key, out)
	}
	return out
}

func (t *WikipediaTool) get(ctx context.Context, params url.Values, out any) error {
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, "GET", t.baseURL()+"/w/api.php?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "aibot/1.0 (research assistant)")
	req.Header.Set("Accept", "application/json")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding wikipedia response: %w", err)
	}
	return nil
}

func (t *WikipediaTool) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(t.topK()))

	var data struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := t.get(ctx, params, &data); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(data.Query.Search))
	for i, s := range data.Query.Search {
		if i >= t.topK() {
			break
		}
		titles = append(titles, s.Title)
	}
	return titles, nil
}

func (t *WikipediaTool) extract(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", title)

	var data struct {
		Query struct {
			Pages []struct {
				Title   string `json:"title"`
				Extract string `json:"extract"`
				Missing bool   `json:"missing"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := t.get(ctx, params, &data); err != nil {
		return "", err
	}
	for _, p := range data.Query.Pages {
		if !p.Missing && p.Extract != "" {
			return strings.TrimSpace(p.Extract), nil
		}
	}
	return "", nil
}
