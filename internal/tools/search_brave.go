package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const braveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// BraveSearch queries the Brave Search API.
type BraveSearch struct {
	APIKey   string
	Endpoint string // defaults to the public API
	Client   *http.Client
}

// NewBraveSearch creates a Brave backend with a 10s timeout.
func NewBraveSearch(apiKey string) *BraveSearch {
	return &BraveSearch{APIKey: apiKey, Client: &http.Client{Timeout: 10 * time.Second}}
}

// Search implements SearchBackend.
func (b *BraveSearch) Search(ctx context.Context, query string, count int) ([]SearchResult, error) {
	if b.APIKey == "" {
		return nil, errors.New("BRAVE_API_KEY not configured")
	}
	endpoint := b.Endpoint
	if endpoint == "" {
		endpoint = braveEndpoint
	}
	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("q", query)
	q.Set("count", strconv.Itoa(count))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave search HTTP %d", resp.StatusCode)
	}

	var data struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding brave response: %w", err)
	}

	results := make([]SearchResult, 0, len(data.Web.Results))
	for _, item := range data.Web.Results {
		results = append(results, SearchResult{
			Title:   item.Title,
			URL:     item.URL,
			Snippet: cleanHTML(item.Description),
		})
	}
	return results, nil
}
