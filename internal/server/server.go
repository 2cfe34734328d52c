package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/practicedash/newswire/internal/config"
	"github.com/practicedash/newswire/internal/news"
)

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	news   *news.Service
	config *config.Config
}

// New creates a new server instance
func New(svc *news.Service, cfg *config.Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		news:   svc,
		config: cfg,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Timeout(60 * time.Second))

	// Routes
	s.router.Route("/api/news/{industry}", func(r chi.Router) {
		r.Use(s.industryCtx)
		r.Get("/", s.handleArticles)
		r.Get("/featured", s.handleFeatured)
		r.Get("/categories", s.handleCategories)
		r.Get("/sources", s.handleSources)
		r.Get("/trending", s.handleTrending)
		r.Get("/events", s.handleEvents)
		r.Get("/rss.xml", s.handleRSS)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Router returns the Chi router
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	log.Printf("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// industryCtx rejects requests for unknown industry verticals.
func (s *Server) industryCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		industry := strings.ToLower(chi.URLParam(r, "industry"))
		if industry != "dental" && industry != "aesthetic" {
			http.Error(w, "Unknown industry", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func industryParam(r *http.Request) string {
	return strings.ToLower(chi.URLParam(r, "industry"))
}

// queryLimit parses the limit query parameter with a default.
func queryLimit(r *http.Request, defaultLimit int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return defaultLimit
	}
	return limit
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// handleArticles serves the acquisition pipeline's output. The pipeline
// never fails, so this handler always answers 200 with an array.
func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := news.Options{
		Limit:      queryLimit(r, 10),
		Category:   q.Get("category"),
		Source:     q.Get("source"),
		SearchTerm: q.Get("q"),
	}

	articles := s.news.GetArticles(r.Context(), industryParam(r), opts)
	writeJSON(w, articles)
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	articles := s.news.GetFeaturedArticles(r.Context(), industryParam(r), queryLimit(r, 3))
	writeJSON(w, articles)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.news.GetCategories(r.Context(), industryParam(r)))
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.news.GetSources(r.Context(), industryParam(r)))
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.news.GetTrendingTopics(r.Context(), industryParam(r), queryLimit(r, 5)))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.news.GetUpcomingEvents(r.Context(), industryParam(r), queryLimit(r, 5)))
}

// handleRSS serves the industry's recent articles as an RSS feed.
func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	industry := industryParam(r)
	articles := s.news.GetArticles(r.Context(), industry, news.Options{Limit: queryLimit(r, 50)})

	feed, err := GenerateRSSFeed(articles, s.config, industry)
	if err != nil {
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(feed))
}
