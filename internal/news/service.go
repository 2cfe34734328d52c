// Package news implements the acquisition pipeline for market-news content:
// persisted store first, live web search plus scraping second, synthesized
// placeholder articles as the unconditional last resort.
package news

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/practicedash/newswire/internal/classify"
	"github.com/practicedash/newswire/internal/database"
	"github.com/practicedash/newswire/internal/extract"
	"github.com/practicedash/newswire/internal/mock"
	"github.com/practicedash/newswire/internal/search"
)

// DefaultRecencyWindow is the trailing span within which live articles must
// fall.
const DefaultRecencyWindow = 7 * 24 * time.Hour

// Store is the persisted-store surface the pipeline reads and writes.
type Store interface {
	GetArticles(ctx context.Context, industry string, filter database.ArticleFilter) ([]database.Article, error)
	GetFeaturedArticles(ctx context.Context, industry string, limit int) ([]database.Article, error)
	UpsertArticle(ctx context.Context, a database.Article) error
	ArticleExists(ctx context.Context, url string) (bool, error)
	GetCategories(ctx context.Context, industry string) ([]database.Category, error)
	GetSources(ctx context.Context, industry string) ([]database.Source, error)
	GetTrendingTopics(ctx context.Context, industry string, limit int) ([]database.TrendingTopic, error)
	GetUpcomingEvents(ctx context.Context, industry string, limit int) ([]database.Event, error)
}

// Searcher finds candidate articles on the web.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]search.Hit, error)
}

// DetailFetcher scrapes one article page into structured fields.
type DetailFetcher interface {
	FetchDetails(ctx context.Context, url string) (extract.Details, error)
}

// Options narrows an article request.
type Options struct {
	Limit      int
	Category   string
	Source     string
	SearchTerm string
}

// Service orchestrates the store → external → mock fallback chain.
type Service struct {
	store         Store
	searcher      Searcher
	fetcher       DetailFetcher
	mock          *mock.Generator
	recencyWindow time.Duration
}

// NewService wires the pipeline together. A recencyWindow of zero gets the
// default seven days.
func NewService(store Store, searcher Searcher, fetcher DetailFetcher, gen *mock.Generator, recencyWindow time.Duration) *Service {
	if recencyWindow <= 0 {
		recencyWindow = DefaultRecencyWindow
	}
	return &Service{
		store:         store,
		searcher:      searcher,
		fetcher:       fetcher,
		mock:          gen,
		recencyWindow: recencyWindow,
	}
}

// GetArticles returns up to opts.Limit articles for an industry. It always
// returns a slice: store failures fall through to external acquisition, and
// external failures fall through to the mock generator. The slice is empty
// only when the limit is zero.
func (s *Service) GetArticles(ctx context.Context, industry string, opts Options) []database.Article {
	industry = strings.ToLower(industry)
	if opts.Limit <= 0 {
		return []database.Article{}
	}

	stored, err := s.store.GetArticles(ctx, industry, database.ArticleFilter{
		Limit:      opts.Limit,
		Category:   opts.Category,
		Source:     opts.Source,
		SearchTerm: opts.SearchTerm,
		Since:      time.Now().Add(-s.recencyWindow),
	})
	if err != nil {
		log.Printf("Store read failed for %s articles: %v", industry, err)
		external, extErr := s.acquireExternal(ctx, industry, opts, opts.Limit)
		if extErr == nil && len(external) > 0 {
			return external
		}
		if extErr != nil {
			log.Printf("External acquisition failed for %s: %v", industry, extErr)
		}
		return s.mock.Generate(industry, opts.Limit, opts.Category, opts.Source)
	}

	if len(stored) >= opts.Limit {
		return stored
	}

	log.Printf("Found %d of %d recent %s articles in store, trying external sources", len(stored), opts.Limit, industry)
	external, extErr := s.acquireExternal(ctx, industry, opts, opts.Limit-len(stored))
	if extErr != nil {
		log.Printf("External acquisition failed for %s: %v", industry, extErr)
		return s.mock.Generate(industry, opts.Limit, opts.Category, opts.Source)
	}

	merged := append(stored, external...)
	if len(merged) == 0 {
		log.Printf("No %s articles found anywhere, generating mock data", industry)
		return s.mock.Generate(industry, opts.Limit, opts.Category, opts.Source)
	}
	return merged
}

// acquireExternal searches the web and builds full article records from the
// hits, in discovery order: duplicate and already-stored URLs are skipped,
// articles older than the recency window are dropped, and the loop exits
// once limit articles
// are built. Newly acquired articles are persisted in the background.
func (s *Service) acquireExternal(ctx context.Context, industry string, opts Options, limit int) ([]database.Article, error) {
	query := search.BuildQuery(industry, opts.Category, opts.Source, opts.SearchTerm)
	hits, err := s.searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-s.recencyWindow)
	seen := make(map[string]bool)
	var articles []database.Article

	for _, hit := range hits {
		if hit.URL == "" || seen[hit.URL] {
			continue
		}
		seen[hit.URL] = true

		// Anything already in the store was either returned by the store
		// read or filtered out of it; either way the page does not need
		// another scrape.
		if exists, err := s.store.ArticleExists(ctx, hit.URL); err != nil {
			log.Printf("Existence check failed for %s: %v", hit.URL, err)
		} else if exists {
			continue
		}

		details := s.hitDetails(ctx, hit)

		if details.PublishedDate.Before(cutoff) {
			log.Printf("Skipping article older than the recency window: %s", hit.Title)
			continue
		}

		title := hit.Title
		if title == "" {
			title = "Untitled Article"
		}

		summary := details.Summary
		if summary == "" {
			summary = hit.Description
		}
		content := details.Content
		if content == "" {
			content = hit.Description
		}
		imageURL := details.ImageURL
		if imageURL == "" {
			imageURL = hit.ImageURL
		}
		author := details.Author
		if author == "" {
			author = "Unknown"
		}

		articles = append(articles, database.Article{
			ID:            len(articles) + 1,
			Title:         title,
			Summary:       summary,
			Content:       content,
			ImageURL:      imageURL,
			URL:           hit.URL,
			PublishedDate: details.PublishedDate,
			Author:        author,
			Source:        extract.ResolveSource(hit.URL),
			Category:      classify.Classify(title+" "+hit.Description+" "+content, industry),
			Industry:      industry,
			Featured:      false,
		})

		if len(articles) >= limit {
			break
		}
	}

	if len(articles) > 0 {
		go s.persist(context.Background(), articles)
	}

	return articles, nil
}

// hitDetails is the per-hit pipeline stage: scrape the page, and on failure
// fall back to the fields the search hit already carries.
func (s *Service) hitDetails(ctx context.Context, hit search.Hit) extract.Details {
	details, err := s.fetcher.FetchDetails(ctx, hit.URL)
	if err == nil {
		if !hit.PublishedDate.IsZero() && details.PublishedDate.IsZero() {
			details.PublishedDate = hit.PublishedDate
		}
		return details
	}

	log.Printf("Detail fetch failed for %s, using search result fields: %v", hit.URL, err)
	details = extract.Details{
		Summary:  hit.Description,
		Content:  hit.Description,
		ImageURL: hit.ImageURL,
	}
	if !hit.PublishedDate.IsZero() {
		details.PublishedDate = hit.PublishedDate
	} else {
		details.PublishedDate = time.Now()
	}
	return details
}

// persist upserts acquired articles keyed by URL. Duplicate URLs are ignored
// by the store, so concurrent writers racing on the same article are safe.
func (s *Service) persist(ctx context.Context, articles []database.Article) {
	stored := 0
	for _, a := range articles {
		if err := s.store.UpsertArticle(ctx, a); err != nil {
			log.Printf("Error storing article %s: %v", a.URL, err)
			continue
		}
		stored++
	}
	log.Printf("Stored %d of %d acquired articles", stored, len(articles))
}

// GetFeaturedArticles returns articles flagged for prominent placement.
// Errors yield an empty slice, never a failure.
func (s *Service) GetFeaturedArticles(ctx context.Context, industry string, limit int) []database.Article {
	articles, err := s.store.GetFeaturedArticles(ctx, strings.ToLower(industry), limit)
	if err != nil {
		log.Printf("Error fetching featured articles: %v", err)
		return []database.Article{}
	}
	return articles
}

// GetCategories returns the category taxonomy for an industry. When the
// store has no category rows, or the read fails, the fixed classifier
// taxonomy stands in.
func (s *Service) GetCategories(ctx context.Context, industry string) []database.Category {
	industry = strings.ToLower(industry)
	categories, err := s.store.GetCategories(ctx, industry)
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
	}
	if len(categories) == 0 {
		return taxonomyCategories(industry)
	}
	return categories
}

func taxonomyCategories(industry string) []database.Category {
	names := classify.Categories(industry)
	categories := make([]database.Category, len(names))
	for i, name := range names {
		categories[i] = database.Category{ID: i + 1, Name: name, Industry: industry}
	}
	return categories
}

// GetSources returns the known publications for an industry.
func (s *Service) GetSources(ctx context.Context, industry string) []database.Source {
	sources, err := s.store.GetSources(ctx, strings.ToLower(industry))
	if err != nil {
		log.Printf("Error fetching sources: %v", err)
		return []database.Source{}
	}
	return sources
}

// GetTrendingTopics returns the most popular topics for an industry.
func (s *Service) GetTrendingTopics(ctx context.Context, industry string, limit int) []database.TrendingTopic {
	topics, err := s.store.GetTrendingTopics(ctx, strings.ToLower(industry), limit)
	if err != nil {
		log.Printf("Error fetching trending topics: %v", err)
		return []database.TrendingTopic{}
	}
	return topics
}

// GetUpcomingEvents returns events starting today or later.
func (s *Service) GetUpcomingEvents(ctx context.Context, industry string, limit int) []database.Event {
	events, err := s.store.GetUpcomingEvents(ctx, strings.ToLower(industry), limit)
	if err != nil {
		log.Printf("Error fetching upcoming events: %v", err)
		return []database.Event{}
	}
	return events
}
