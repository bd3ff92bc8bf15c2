package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// WebResult is one web search hit.
type WebResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// ImageResult is one image search hit.
type ImageResult struct {
	Title    string `json:"title"`
	ImageURL string `json:"image"`
}

// WebSearcher is the web search capability. Failures surface as errors here;
// executors fold them into empty, absence-tagged results.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]WebResult, error)
}

// ImageSearcher is the image search capability.
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string) ([]ImageResult, error)
}

const (
	maxWebResults   = 5
	maxImageResults = 8
)

// DuckDuckGoClient talks to DuckDuckGo's HTML endpoint for web results and
// the i.js endpoint for images. No API key required, which also means the
// service rate-limits aggressively; callers treat errors as empty results.
type DuckDuckGoClient struct {
	httpClient *http.Client
	htmlURL    string
	imageURL   string
	vqdURL     string
}

func NewDuckDuckGoClient() *DuckDuckGoClient {
	return &DuckDuckGoClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		htmlURL:    "https://html.duckduckgo.com/html/",
		imageURL:   "https://duckduckgo.com/i.js",
		vqdURL:     "https://duckduckgo.com/",
	}
}

var (
	resultPattern  = regexp.MustCompile(`(?s)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	snippetPattern = regexp.MustCompile(`(?s)<a[^>]+class="result__snippet"[^>]*>(.*?)</a>`)
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
	vqdPattern     = regexp.MustCompile(`vqd=['"]?([\d-]+)['"]?`)
)

func (c *DuckDuckGoClient) Search(ctx context.Context, query string) ([]WebResult, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, "POST", c.htmlURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	titles := resultPattern.FindAllStringSubmatch(string(body), maxWebResults)
	snippets := snippetPattern.FindAllStringSubmatch(string(body), maxWebResults)

	results := make([]WebResult, 0, len(titles))
	for i, m := range titles {
		r := WebResult{
			Title: cleanHTML(m[2]),
			Link:  html.UnescapeString(m[1]),
		}
		if i < len(snippets) {
			r.Snippet = cleanHTML(snippets[i][1])
		}
		results = append(results, r)
	}

	return results, nil
}

func (c *DuckDuckGoClient) SearchImages(ctx context.Context, query string) ([]ImageResult, error) {
	vqd, err := c.fetchVQD(ctx, query)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"q":   {query},
		"o":   {"json"},
		"vqd": {vqd},
		"f":   {",,,"},
		"l":   {"us-en"},
	}
	req, err := http.NewRequestWithContext(ctx, "GET", c.imageURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://duckduckgo.com/")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []struct {
			Title string `json:"title"`
			Image string `json:"image"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("error unmarshaling image results: %w", err)
	}

	results := make([]ImageResult, 0, maxImageResults)
	for _, r := range payload.Results {
		if r.Image == "" {
			continue
		}
		results = append(results, ImageResult{Title: r.Title, ImageURL: r.Image})
		if len(results) == maxImageResults {
			break
		}
	}

	return results, nil
}

// fetchVQD extracts the per-query token DuckDuckGo requires for its JSON
// image endpoint.
func (c *DuckDuckGoClient) fetchVQD(ctx context.Context, query string) (string, error) {
	params := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, "GET", c.vqdURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	m := vqdPattern.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("no vqd token in response")
	}
	return string(m[1]), nil
}

func (c *DuckDuckGoClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed with status %d", resp.StatusCode)
	}

	return body, nil
}

func cleanHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
}

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
