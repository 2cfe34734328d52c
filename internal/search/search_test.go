package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		industry, category, source, term string
		want                             string
	}{
		{"dental", "", "", "", "dental industry news past week"},
		{"dental", "Technology", "", "", "dental industry news Technology past week"},
		{"aesthetic", "Trends", "MedicalNews", "botox", "aesthetic industry news Trends from MedicalNews botox past week"},
		{"dental", "", "", "implants", "dental industry news implants past week"},
	}
	for _, tt := range tests {
		got := BuildQuery(tt.industry, tt.category, tt.source, tt.term)
		if got != tt.want {
			t.Errorf("BuildQuery(%q, %q, %q, %q) = %q, want %q", tt.industry, tt.category, tt.source, tt.term, got, tt.want)
		}
	}
}

type stubBackend struct {
	name  string
	hits  []Hit
	err   error
	calls int
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Search(ctx context.Context, query string, count int) ([]Hit, error) {
	s.calls++
	return s.hits, s.err
}

func TestAdapterFirstBackendWins(t *testing.T) {
	first := &stubBackend{name: "a", hits: []Hit{{Title: "one", URL: "https://a"}}}
	second := &stubBackend{name: "b", hits: []Hit{{Title: "two", URL: "https://b"}}}

	hits, err := NewAdapter(first, second).Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "one" {
		t.Errorf("expected first backend's result, got %+v", hits)
	}
	if second.calls != 0 {
		t.Errorf("second backend should not be called, got %d calls", second.calls)
	}
}

func TestAdapterFallsThroughOnError(t *testing.T) {
	first := &stubBackend{name: "a", err: errors.New("boom")}
	second := &stubBackend{name: "b", hits: []Hit{{Title: "two", URL: "https://b"}}}

	hits, err := NewAdapter(first, second).Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "two" {
		t.Errorf("expected fallback backend's result, got %+v", hits)
	}
}

func TestAdapterFallsThroughOnEmpty(t *testing.T) {
	first := &stubBackend{name: "a"}
	second := &stubBackend{name: "b", hits: []Hit{{Title: "two", URL: "https://b"}}}

	hits, _ := NewAdapter(first, second).Search(context.Background(), "q", 5)
	if len(hits) != 1 || hits[0].Title != "two" {
		t.Errorf("expected fallback backend's result, got %+v", hits)
	}
}

func TestAdapterAllExhaustedReturnsEmpty(t *testing.T) {
	first := &stubBackend{name: "a", err: errors.New("boom")}
	second := &stubBackend{name: "b"}

	hits, err := NewAdapter(first, second).Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("adapter must not surface backend errors, got %v", err)
	}
	if hits == nil || len(hits) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", hits)
	}
}

func TestAdapterNoBackends(t *testing.T) {
	hits, err := NewAdapter().Search(context.Background(), "q", 5)
	if err != nil || len(hits) != 0 {
		t.Errorf("expected empty result from empty adapter, got %v, %v", hits, err)
	}
}

func TestBraveSearch(t *testing.T) {
	var gotToken, gotCount string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Subscription-Token")
		gotCount = r.URL.Query().Get("count")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"web":{"results":[
			{"title":"First","url":"https://one.example.com","description":"d1"},
			{"title":"Second","url":"https://two.example.com","description":"d2"}
		]}}`))
	}))
	defer ts.Close()

	b := NewBrave("secret-key")
	b.Endpoint = ts.URL

	hits, err := b.Search(context.Background(), "dental industry news past week", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotToken != "secret-key" {
		t.Errorf("expected subscription token header, got %q", gotToken)
	}
	if gotCount != "20" {
		t.Errorf("expected count capped at 20, got %q", gotCount)
	}
	if len(hits) != 2 || hits[0].Title != "First" || hits[1].URL != "https://two.example.com" {
		t.Errorf("unexpected hits: %+v", hits)
	}
	if hits[0].Description != "d1" {
		t.Errorf("expected description mapped, got %q", hits[0].Description)
	}
}

func TestBraveSearchNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	b := NewBrave("key")
	b.Endpoint = ts.URL

	if _, err := b.Search(context.Background(), "q", 5); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}

func TestResolveResultURL(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"https://example.com/story", "https://example.com/story"},
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fstory&rut=abc", "https://example.com/story"},
		{"javascript:void(0)", ""},
	}
	for _, tt := range tests {
		if got := resolveResultURL(tt.href); got != tt.want {
			t.Errorf("resolveResultURL(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
