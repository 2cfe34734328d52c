package news

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/practicedash/newswire/internal/database"
	"github.com/practicedash/newswire/internal/extract"
	"github.com/practicedash/newswire/internal/mock"
	"github.com/practicedash/newswire/internal/search"
)

// fakeStore mirrors the real store's URL semantics: rows are keyed by URL
// and a conflicting upsert is ignored, first writer wins.
type fakeStore struct {
	mu       sync.Mutex
	articles []database.Article
	byURL    map[string]database.Article
	err      error
	upserts  chan database.Article
}

func newFakeStore(articles []database.Article, err error) *fakeStore {
	byURL := make(map[string]database.Article)
	for _, a := range articles {
		byURL[a.URL] = a
	}
	return &fakeStore{articles: articles, byURL: byURL, err: err, upserts: make(chan database.Article, 64)}
}

func (f *fakeStore) GetArticles(ctx context.Context, industry string, filter database.ArticleFilter) ([]database.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.articles) > filter.Limit {
		return f.articles[:filter.Limit], nil
	}
	return f.articles, nil
}

func (f *fakeStore) GetFeaturedArticles(ctx context.Context, industry string, limit int) ([]database.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

func (f *fakeStore) UpsertArticle(ctx context.Context, a database.Article) error {
	f.mu.Lock()
	if _, ok := f.byURL[a.URL]; !ok {
		f.byURL[a.URL] = a
	}
	f.mu.Unlock()
	f.upserts <- a
	return nil
}

func (f *fakeStore) ArticleExists(ctx context.Context, url string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byURL[url]
	return ok, nil
}

func (f *fakeStore) GetCategories(ctx context.Context, industry string) ([]database.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []database.Category{{ID: 1, Name: "Technology", Industry: industry}}, nil
}

func (f *fakeStore) GetSources(ctx context.Context, industry string) ([]database.Source, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []database.Source{{ID: 1, Name: "DentistryToday", Industry: industry}}, nil
}

func (f *fakeStore) GetTrendingTopics(ctx context.Context, industry string, limit int) ([]database.TrendingTopic, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []database.TrendingTopic{{ID: 1, Topic: "Implants", Industry: industry, Popularity: 9}}, nil
}

func (f *fakeStore) GetUpcomingEvents(ctx context.Context, industry string, limit int) ([]database.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []database.Event{{ID: 1, Name: "Expo", Industry: industry}}, nil
}

type fakeSearcher struct {
	hits     []search.Hit
	err      error
	gotQuery string
	gotCount int
	calls    int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, count int) ([]search.Hit, error) {
	f.calls++
	f.gotQuery = query
	f.gotCount = count
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type fakeFetcher struct {
	details map[string]extract.Details
	err     error
	calls   int
}

func (f *fakeFetcher) FetchDetails(ctx context.Context, url string) (extract.Details, error) {
	f.calls++
	if f.err != nil {
		return extract.Details{}, f.err
	}
	if d, ok := f.details[url]; ok {
		return d, nil
	}
	return extract.Details{Summary: "summary", Content: "content", PublishedDate: time.Now()}, nil
}

func newTestService(store Store, searcher Searcher, fetcher DetailFetcher) *Service {
	gen := mock.NewGenerator(rand.New(rand.NewSource(1)))
	return NewService(store, searcher, fetcher, gen, DefaultRecencyWindow)
}

func storedArticles(n int) []database.Article {
	var articles []database.Article
	for i := 0; i < n; i++ {
		articles = append(articles, database.Article{
			ID:            i + 1,
			Title:         fmt.Sprintf("Stored %d", i+1),
			URL:           fmt.Sprintf("https://stored.example.com/%d", i+1),
			PublishedDate: time.Now().Add(-time.Duration(i) * time.Hour),
			Industry:      "dental",
		})
	}
	return articles
}

func searchHits(n int) []search.Hit {
	var hits []search.Hit
	for i := 0; i < n; i++ {
		hits = append(hits, search.Hit{
			Title:       fmt.Sprintf("Hit %d", i+1),
			URL:         fmt.Sprintf("https://hits.example.com/%d", i+1),
			Description: "A fresh industry story",
		})
	}
	return hits
}

func TestGetArticlesStoreSatisfiesLimit(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := newTestService(newFakeStore(storedArticles(3), nil), searcher, &fakeFetcher{})

	articles := svc.GetArticles(context.Background(), "dental", Options{Limit: 3})
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}
	if searcher.calls != 0 {
		t.Errorf("search should not run when the store satisfies the limit, got %d calls", searcher.calls)
	}
}

func TestGetArticlesTopUpMergesStoreFirst(t *testing.T) {
	// Store has 3 recent articles; search yields 5 hits, one a duplicate
	// URL, so external acquisition contributes 4. Final result: 7,
	// store-origin articles first.
	store := newFakeStore(storedArticles(3), nil)
	hits := searchHits(4)
	hits = append(hits, search.Hit{Title: "Dup", URL: hits[0].URL, Description: "same url"})
	searcher := &fakeSearcher{hits: hits}

	svc := newTestService(store, searcher, &fakeFetcher{})
	articles := svc.GetArticles(context.Background(), "dental", Options{Limit: 10})

	if len(articles) != 7 {
		t.Fatalf("expected 7 articles, got %d", len(articles))
	}
	for i := 0; i < 3; i++ {
		if articles[i].Title != fmt.Sprintf("Stored %d", i+1) {
			t.Errorf("position %d: expected store article first, got %q", i, articles[i].Title)
		}
	}
	for i := 0; i < 4; i++ {
		if articles[3+i].Title != fmt.Sprintf("Hit %d", i+1) {
			t.Errorf("position %d: expected external article in discovery order, got %q", 3+i, articles[3+i].Title)
		}
	}
	if searcher.gotCount != 7 {
		t.Errorf("expected search for the remaining 7, got %d", searcher.gotCount)
	}
}

func TestGetArticlesDeduplicatesByURL(t *testing.T) {
	hits := []search.Hit{
		{Title: "One", URL: "https://example.com/a", Description: "d"},
		{Title: "One again", URL: "https://example.com/a", Description: "d"},
	}
	svc := newTestService(newFakeStore(nil, nil), &fakeSearcher{hits: hits}, &fakeFetcher{})

	articles := svc.GetArticles(context.Background(), "dental", Options{Limit: 10})
	if len(articles) != 1 {
		t.Fatalf("expected 1 article after dedup, got %d", len(articles))
	}
	if articles[0].Title != "One" {
		t.Errorf("expected the first hit to win, got %q", articles[0].Title)
	}
}

func TestGetArticlesDropsStaleHits(t *testing.T) {
	hits := searchHits(2)
	fetcher := &fakeFetcher{details: map[string]extract.Details{
		hits[0].URL: {Summary: "s", Content: "c", PublishedDate: time.Now().AddDate(0, 0, -30)},
		hits[1].URL: {Summary: "s", Content: "c", PublishedDate: time.Now()},
	}}
	svc := newTestService(newFakeStore(nil, nil), &fakeSearcher{hits: hits}, fetcher)

	articles := svc.GetArticles(context.Background(), "dental", Options{Limit: 10})
	if len(articles) != 1 {
		t.Fatalf("expected the stale hit dropped, got %d articles", len(articles))
	}
	if articles[0].URL != hits[1].URL {
		t.Errorf("expected only the recent hit, got %q", articles[0].URL)
	}
}

func TestGetArticlesSkipsAlreadyStoredURLs(t *testing.T) {
	// One of the search hits points at an article the store already holds.
	// The stored copy must not be re-fetched or duplicated in the result.
	stored := storedArticles(1)
	store := newFakeStore(stored, nil)
	hits := []search.Hit{
		{Title: "Stored again", URL: stored[0].URL, Description: "same story"},
		{Title: "Fresh", URL: "https://hits.example.com/fresh", Description: "new story"},
	}
	fetcher := &fakeFetcher{}
	svc := newTestService(store, &fakeSearcher{hits: hits}, fetcher)

	articles := svc.GetArticles(context.Background(), "dental", Options{Limit: 5})
	if len(articles) != 2 {
		t.Fatalf("expected the stored article plus the fresh hit, got %d", len(articles))
	}
	if articles[0].Title != "Stored 1" || articles[1].Title != "Fresh" {
		t.Errorf("unexpected merge: %q, %q", articles[0].Title, articles[1].Title)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected a single detail fetch for the fresh URL, got %d", fetcher.calls)
	}
}

func TestGetArticlesSameURLKeepsFirstWrite(t *testing.T) {
	store := newFakeStore(nil, nil)
	url := "https://hits.example.com/story"
	svc := newTestService(store, &fakeSearcher{hits: []search.Hit{
		{Title: "Original Headline", URL: url, Description: "first pass"},
	}}, &fakeFetcher{})

	svc.GetArticles(context.Background(), "dental", Options{Limit: 5})
	select {
	case <-store.upserts:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the first upsert")
	}

	// A later acquisition surfaces the same URL with different fields.
	svc2 := newTestService(store, &fakeSearcher{hits: []search.Hit{
		{Title: "Rewritten Headline", URL: url, Description: "second pass"},
	}}, &fakeFetcher{})
	svc2.GetArticles(context.Background(), "dental", Options{Limit: 5})

	store.mu.Lock()
	kept, ok := store.byURL[url]
	rows := len(store.byURL)
	store.mu.Unlock()
	if !ok || rows != 1 {
		t.Fatalf("expected exactly one stored row for %s, got %d", url, rows)
	}
	if kept.Title != "Original Headline" {
		t.Errorf("expected the first write kept, got %q", kept.Title)
	}
}

func TestGetArticlesStoreErrorFallsToExternal(t *testing.T) {
	svc := newTestService(newFakeStore(nil, errors.New("store down")), &fakeSearcher{hits: searchHits(2)}, &fakeFetcher{})

	articles := svc.GetArticles(context.Background(), "dental", Options{Limit: 10})
	if len(articles) != 2 {
		t.Fatalf("expected 2 external articles, got %d", len(articles))
	}
	if articles[0].Title != "Hit 1" {
		t.Errorf("expected external article, got %q", articles[0].Title)
	}
}

func TestGetArticlesEverythingFailsFallsToMock(t *testing.T) {
	svc := newTestService(
		newFakeStore(nil, errors.New("store down")),
		&fakeSearcher{err: errors.New("search down")},
		&fakeFetcher{},
	)

	articles := svc.GetArticles(context.Background(), "Dental", Options{Limit: 6})
	if len(articles) != 6 {
		t.Fatalf("expected 6 mock articles, got %d", len(articles))
	}
	for i, a := range articles {
		if a.Industry != "dental" {
			t.Errorf("article %d: industry %q, want lower-cased dental", i, a.Industry)
		}
	}
}

func TestGetArticlesNothingFoundFallsToMock(t *testing.T) {
	svc := newTestService(newFakeStore(nil, nil), &fakeSearcher{}, &fakeFetcher{})

	articles := svc.GetArticles(context.Background(), "aesthetic", Options{Limit: 4})
	if len(articles) != 4 {
		t.Fatalf("expected 4 mock articles, got %d", len(articles))
	}
}

func TestGetArticlesZeroLimit(t *testing.T) {
	svc := newTestService(newFakeStore(storedArticles(3), nil), &fakeSearcher{}, &fakeFetcher{})

	articles := svc.GetArticles(context.Background(), "dental", Options{})
	if len(articles) != 0 {
		t.Errorf("expected empty result for zero limit, got %d", len(articles))
	}
}

func TestGetArticlesRespectsLimit(t *testing.T) {
	svc := newTestService(newFakeStore(nil, nil), &fakeSearcher{hits: searchHits(20)}, &fakeFetcher{})

	articles := svc.GetArticles(context.Background(), "dental", Options{Limit: 5})
	if len(articles) != 5 {
		t.Errorf("expected the limit enforced, got %d articles", len(articles))
	}
}

func TestGetArticlesFetchFailureUsesHitFields(t *testing.T) {
	hits := []search.Hit{{Title: "Headline", URL: "https://example.com/a", Description: "the snippet"}}
	svc := newTestService(newFakeStore(nil, nil), &fakeSearcher{hits: hits}, &fakeFetcher{err: errors.New("timeout")})

	articles := svc.GetArticles(context.Background(), "dental", Options{Limit: 5})
	if len(articles) != 1 {
		t.Fatalf("expected the hit kept despite fetch failure, got %d articles", len(articles))
	}
	a := articles[0]
	if a.Summary != "the snippet" || a.Content != "the snippet" {
		t.Errorf("expected hit fields used, got summary %q content %q", a.Summary, a.Content)
	}
	if a.Author != "Unknown" {
		t.Errorf("expected Unknown author, got %q", a.Author)
	}
	if a.Source != "Example" {
		t.Errorf("expected source resolved from URL, got %q", a.Source)
	}
}

func TestGetArticlesPersistsAcquired(t *testing.T) {
	store := newFakeStore(nil, nil)
	svc := newTestService(store, &fakeSearcher{hits: searchHits(2)}, &fakeFetcher{})

	articles := svc.GetArticles(context.Background(), "dental", Options{Limit: 10})
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}

	// Persistence runs in the background; wait for both upserts.
	for i := 0; i < 2; i++ {
		select {
		case a := <-store.upserts:
			if a.URL == "" {
				t.Errorf("upserted article missing URL: %+v", a)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for upsert %d", i+1)
		}
	}
}

func TestGetArticlesQueryConstruction(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := newTestService(newFakeStore(nil, nil), searcher, &fakeFetcher{})

	svc.GetArticles(context.Background(), "dental", Options{
		Limit:      5,
		Category:   "Technology",
		Source:     "DentistryToday",
		SearchTerm: "implants",
	})

	want := "dental industry news Technology from DentistryToday implants past week"
	if searcher.gotQuery != want {
		t.Errorf("query = %q, want %q", searcher.gotQuery, want)
	}
}

func TestReferenceReadsNeverError(t *testing.T) {
	broken := newFakeStore(nil, errors.New("store down"))
	svc := newTestService(broken, &fakeSearcher{}, &fakeFetcher{})
	ctx := context.Background()

	if got := svc.GetCategories(ctx, "dental"); len(got) == 0 {
		t.Error("expected taxonomy categories on store error, got none")
	}
	if got := svc.GetSources(ctx, "dental"); got == nil || len(got) != 0 {
		t.Errorf("expected empty sources on store error, got %#v", got)
	}
	if got := svc.GetFeaturedArticles(ctx, "dental", 3); got == nil || len(got) != 0 {
		t.Errorf("expected empty featured articles on store error, got %#v", got)
	}
	if got := svc.GetTrendingTopics(ctx, "dental", 5); got == nil || len(got) != 0 {
		t.Errorf("expected empty topics on store error, got %#v", got)
	}
	if got := svc.GetUpcomingEvents(ctx, "dental", 5); got == nil || len(got) != 0 {
		t.Errorf("expected empty events on store error, got %#v", got)
	}
}

func TestGetCategoriesFallsBackToTaxonomy(t *testing.T) {
	broken := newFakeStore(nil, errors.New("store down"))
	svc := newTestService(broken, &fakeSearcher{}, &fakeFetcher{})

	categories := svc.GetCategories(context.Background(), "dental")
	if len(categories) != 6 {
		t.Fatalf("expected the fixed dental taxonomy, got %d categories", len(categories))
	}
	if categories[0].Name != "Technology" || categories[5].Name != "Regulation" {
		t.Errorf("unexpected taxonomy: %+v", categories)
	}
	for i, c := range categories {
		if c.Industry != "dental" {
			t.Errorf("category %d: industry %q, want dental", i, c.Industry)
		}
	}
}

func TestReferenceReadsPassThrough(t *testing.T) {
	svc := newTestService(newFakeStore(nil, nil), &fakeSearcher{}, &fakeFetcher{})
	ctx := context.Background()

	categories := svc.GetCategories(ctx, "dental")
	if len(categories) != 1 || categories[0].Name != "Technology" {
		t.Errorf("unexpected categories: %+v", categories)
	}
	topics := svc.GetTrendingTopics(ctx, "dental", 5)
	if len(topics) != 1 || topics[0].Topic != "Implants" {
		t.Errorf("unexpected topics: %+v", topics)
	}
}
