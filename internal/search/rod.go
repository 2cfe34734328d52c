package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodBackend scrapes the DuckDuckGo HTML results page with a headless
// browser. It is only wired up in development builds; production relies on
// the Brave REST backend.
type RodBackend struct {
	headless bool

	mu      sync.Mutex
	browser *rod.Browser
}

// NewRodBackend creates the browser-scraping backend. The browser itself is
// launched lazily on first search.
func NewRodBackend(headless bool) *RodBackend {
	return &RodBackend{headless: headless}
}

// Name identifies this backend in logs.
func (r *RodBackend) Name() string { return "rod" }

// initBrowser launches the browser on first use.
func (r *RodBackend) initBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	path, _ := launcher.LookPath()
	u, err := launcher.New().
		Bin(path).
		Headless(r.headless).
		Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	r.browser = browser
	return browser, nil
}

// Close closes the browser and cleans up resources
func (r *RodBackend) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser.Close()
	}
	return nil
}

// Search loads the search results page and extracts title, link, and snippet
// from each result.
func (r *RodBackend) Search(ctx context.Context, query string, count int) ([]Hit, error) {
	browser, err := r.initBrowser()
	if err != nil {
		return nil, err
	}

	searchURL := "https://html.duckduckgo.com/html/?q=" + url.QueryEscape(query)
	page, err := browser.Page(proto.TargetCreateTarget{URL: searchURL})
	if err != nil {
		return nil, fmt.Errorf("failed to open results page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(30 * time.Second)
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("results page failed to load: %w", err)
	}

	results, err := page.Elements("div.result")
	if err != nil {
		return nil, fmt.Errorf("failed to find results: %w", err)
	}

	var hits []Hit
	for _, el := range results {
		if len(hits) >= count {
			break
		}

		link, err := el.Element("a.result__a")
		if err != nil {
			continue
		}
		href, err := link.Attribute("href")
		if err != nil || href == nil {
			continue
		}
		title, err := link.Text()
		if err != nil || title == "" {
			continue
		}

		hit := Hit{Title: strings.TrimSpace(title), URL: resolveResultURL(*href)}
		if hit.URL == "" {
			continue
		}

		if snippet, err := el.Element("a.result__snippet"); err == nil {
			if text, err := snippet.Text(); err == nil {
				hit.Description = strings.TrimSpace(text)
			}
		}

		hits = append(hits, hit)
	}

	return hits, nil
}

// resolveResultURL unwraps DuckDuckGo's redirect links, which carry the
// target URL in a uddg query parameter.
func resolveResultURL(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return href
	}
	return ""
}
