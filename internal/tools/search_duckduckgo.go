package tools

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const duckDuckGoEndpoint = "https://lite.duckduckgo.com/lite/"

// DuckDuckGo scrapes the DuckDuckGo lite HTML page. No API key required.
type DuckDuckGo struct {
	Endpoint string // defaults to lite.duckduckgo.com
	Client   *http.Client
}

// NewDuckDuckGo creates a DuckDuckGo backend with a 15s timeout.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{Client: &http.Client{Timeout: 15 * time.Second}}
}

// Search implements SearchBackend. A 429 is reported as an error; the
// caller decides whether to try again.
func (d *DuckDuckGo) Search(ctx context.Context, query string, count int) ([]SearchResult, error) {
	endpoint := d.Endpoint
	if endpoint == "" {
		endpoint = duckDuckGoEndpoint
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("duckduckgo rate limit exceeded")
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("duckduckgo HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("reading duckduckgo response: %w", err)
	}
	return parseDuckDuckGoLite(string(body), count), nil
}

var (
	reDDGLink = regexp.MustCompile(`(?s)<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>(.*?)</a>`)
	// class can precede href
	reDDGLinkAlt = regexp.MustCompile(`(?s)<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>(.*?)</a>`)
	reDDGSnippet = regexp.MustCompile(`(?s)<td[^>]*class=['"]result-snippet['"][^>]*>(.*?)</td>`)
)

// parseDuckDuckGoLite extracts result links and snippets from the lite page.
func parseDuckDuckGoLite(page string, count int) []SearchResult {
	links := reDDGLink.FindAllStringSubmatch(page, -1)
	if len(links) == 0 {
		links = reDDGLinkAlt.FindAllStringSubmatch(page, -1)
	}
	snippets := reDDGSnippet.FindAllStringSubmatch(page, -1)

	var results []SearchResult
	for i, m := range links {
		href := resolveDDGRedirect(html.UnescapeString(strings.TrimSpace(m[1])))
		title := cleanHTML(m[2])
		if href == "" || title == "" {
			continue
		}
		r := SearchResult{Title: title, URL: href}
		if i < len(snippets) {
			r.Snippet = cleanHTML(snippets[i][1])
		}
		results = append(results, r)
		if count > 0 && len(results) >= count {
			break
		}
	}
	return results
}

// resolveDDGRedirect unwraps "//duckduckgo.com/l/?uddg=<target>" links.
func resolveDDGRedirect(href string) string {
	if !strings.Contains(href, "duckduckgo.com/l/") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func cleanHTML(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(stripTags(s))), " ")
}
