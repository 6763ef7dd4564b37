// Package wiki searches the Arch Wiki and turns the results into prompt
// context for the AI provider. Lookups go through the MediaWiki opensearch
// API; the top hit's page text is fetched and cleaned so the model sees
// actual documentation, not just titles.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dacraezy/archlinux-ai-cli/pkg/cache"
	clog "github.com/dacraezy/archlinux-ai-cli/pkg/log"
)

const (
	defaultEndpoint = "https://wiki.archlinux.org/api.php"

	// searchLimit caps opensearch results per query
	searchLimit = 5

	// pageTextLimit caps the extracted page text fed into the prompt
	pageTextLimit = 4000
)

// Result is one Arch Wiki search hit
type Result struct {
	Title string
	URL   string
}

type Client struct {
	http     *http.Client
	endpoint string
	cacheTTL time.Duration
	noCache  bool
}

func NewClient() *Client {
	return &Client{
		http:     &http.Client{Timeout: 10 * time.Second},
		endpoint: defaultEndpoint,
		cacheTTL: cache.DefaultTTL,
	}
}

// Search queries the opensearch API and returns up to searchLimit hits
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", fmt.Sprintf("%d", searchLimit))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}
	req.Header.Set("User-Agent", "archlinux-ai-cli")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wiki search failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiki search failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wiki search read failed: %w", err)
	}

	return parseOpensearch(body)
}

// parseOpensearch decodes the opensearch response shape:
// [query, [titles...], [descriptions...], [urls...]]
func parseOpensearch(body []byte) ([]Result, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unexpected opensearch response: %w", err)
	}
	if len(raw) < 4 {
		return nil, fmt.Errorf("unexpected opensearch response: %d elements", len(raw))
	}

	var titles, urls []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return nil, fmt.Errorf("unexpected opensearch titles: %w", err)
	}
	if err := json.Unmarshal(raw[3], &urls); err != nil {
		return nil, fmt.Errorf("unexpected opensearch urls: %w", err)
	}

	var results []Result
	for i := range titles {
		if i >= len(urls) {
			break
		}
		results = append(results, Result{Title: titles[i], URL: urls[i]})
	}
	return results, nil
}

// PageText fetches a wiki page and extracts readable text. Scripts, styles
// and chrome elements are stripped; whitespace is collapsed.
func (c *Client) PageText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("invalid page request: %w", err)
	}
	req.Header.Set("User-Agent", "archlinux-ai-cli")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("page fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page fetch failed: HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page HTML: %w", err)
	}

	doc.Find("script, style, nav, footer, header").Remove()

	// Prefer the article body when present
	content := doc.Find("#mw-content-text")
	text := content.Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	result := strings.Join(cleaned, "\n")
	if len(result) > pageTextLimit {
		result = result[:pageTextLimit]
	}
	return result, nil
}

// Context builds the wiki context block for a query. Results are cached on
// disk; a fresh entry skips the network entirely.
func (c *Client) Context(ctx context.Context, query string) (string, error) {
	key := cache.Key(query)
	if !c.noCache {
		if cached, ok := cache.Read(key, c.cacheTTL); ok {
			clog.Debug("wiki cache hit", "query", query)
			return cached, nil
		}
	}

	results, err := c.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No specific Arch Wiki pages found for this query.", nil
	}

	var b strings.Builder
	b.WriteString("Relevant Arch Wiki pages:\n")
	for _, r := range results {
		fmt.Fprintf(&b, "- %s: %s\n", r.Title, r.URL)
	}

	// Page text is best-effort; a failed fetch still leaves the title list
	if text, err := c.PageText(ctx, results[0].URL); err == nil && text != "" {
		fmt.Fprintf(&b, "\nFrom %q:\n%s\n", results[0].Title, text)
	} else if err != nil {
		clog.Debug("wiki page fetch skipped", "url", results[0].URL, "error", err)
	}

	context := b.String()
	if !c.noCache {
		if err := cache.Write(key, query, context); err != nil {
			clog.Warn("could not cache wiki context", "error", err)
		}
	}
	return context, nil
}
