// Package search finds candidate news articles on the open web.
//
// Backends are interchangeable: a keyed REST search API and a
// development-only browser-scraping backend. The adapter tries its
// backends in order until one yields results, so a misconfigured or
// failing backend degrades to "no results" rather than an error.
package search

import (
	"context"
	"log"
	"strings"
	"time"
)

// Hit is a single normalized web-search result.
type Hit struct {
	Title         string
	URL           string
	Description   string
	ImageURL      string
	PublishedDate time.Time
}

// Backend is one web-search implementation.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, count int) ([]Hit, error)
}

// Adapter fans a search out to an ordered list of backends.
type Adapter struct {
	backends []Backend
}

// NewAdapter creates an adapter over the given backends, tried in order.
func NewAdapter(backends ...Backend) *Adapter {
	return &Adapter{backends: backends}
}

// Search tries each backend in order and returns the first non-empty result
// set. Backend errors are logged and skipped; when every backend fails or
// comes back empty the adapter returns an empty slice, never an error.
func (a *Adapter) Search(ctx context.Context, query string, count int) ([]Hit, error) {
	for _, b := range a.backends {
		hits, err := b.Search(ctx, query, count)
		if err != nil {
			log.Printf("Search backend %s failed: %v", b.Name(), err)
			continue
		}
		if len(hits) > 0 {
			log.Printf("Found %d results via %s for: %q", len(hits), b.Name(), query)
			return hits, nil
		}
	}
	return []Hit{}, nil
}

// BuildQuery constructs the web-search query for an industry: the base
// string, then category, source, search term, and a recency hint, in that
// order.
func BuildQuery(industry, category, source, searchTerm string) string {
	parts := []string{industry + " industry news"}
	if category != "" {
		parts = append(parts, category)
	}
	if source != "" {
		parts = append(parts, "from "+source)
	}
	if searchTerm != "" {
		parts = append(parts, searchTerm)
	}
	parts = append(parts, "past week")
	return strings.Join(parts, " ")
}
