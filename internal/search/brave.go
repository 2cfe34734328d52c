package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	braveEndpoint = "https://api.search.brave.com/res/v1/web/search"

	// The Brave web search API caps count at 20 per call.
	braveMaxCount = 20
)

// Brave queries the Brave web search REST API.
// https://api.search.brave.com/app/documentation/web-search
type Brave struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
}

// NewBrave creates a Brave backend with the production endpoint.
func NewBrave(apiKey string) *Brave {
	return &Brave{
		APIKey:   apiKey,
		Endpoint: braveEndpoint,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Name identifies this backend in logs.
func (b *Brave) Name() string { return "brave" }

// Search performs a web search, returning at most count hits.
func (b *Brave) Search(ctx context.Context, query string, count int) ([]Hit, error) {
	if count > braveMaxCount {
		count = braveMaxCount
	}

	reqURL := fmt.Sprintf("%s?q=%s&count=%d", b.Endpoint, url.QueryEscape(query), count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave search returned %s", resp.Status)
	}

	var raw struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode brave response: %w", err)
	}

	var hits []Hit
	for i, r := range raw.Web.Results {
		if i >= count {
			break
		}
		hits = append(hits, Hit{Title: r.Title, URL: r.URL, Description: r.Description})
	}
	return hits, nil
}
