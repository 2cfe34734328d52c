package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// Fetcher downloads an article page and extracts its details. Each fetch is
// bounded by the configured timeout so one slow source cannot stall a whole
// acquisition batch.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewFetcher creates a fetcher with a per-article timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// FetchDetails downloads the page at pageURL, runs readability over it, and
// extracts article fields from the readable content.
func (f *Fetcher) FetchDetails(ctx context.Context, pageURL string) (Details, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return Details{}, fmt.Errorf("invalid article URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Details{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Details{}, fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Details{}, fmt.Errorf("article fetch returned %s", resp.Status)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return Details{}, fmt.Errorf("readability extraction failed: %w", err)
	}

	details := ExtractDetails(article.TextContent, pageURL, article.Content)

	// Prefer readability's metadata where our own extraction came up empty.
	if details.ImageURL == "" {
		details.ImageURL = article.Image
	}
	if details.Author == "" {
		details.Author = article.Byline
	}
	if details.Summary == "" {
		details.Summary = article.Excerpt
	}

	return details, nil
}
