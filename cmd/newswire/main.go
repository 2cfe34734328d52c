package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/practicedash/newswire/internal/config"
	"github.com/practicedash/newswire/internal/database"
	"github.com/practicedash/newswire/internal/extract"
	"github.com/practicedash/newswire/internal/mock"
	"github.com/practicedash/newswire/internal/news"
	"github.com/practicedash/newswire/internal/search"
	"github.com/practicedash/newswire/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	// Load .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Println("Starting Newswire...")

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// Assemble search backends in fallback order. The browser-scraping
	// backend is development-only; Brave requires an API key.
	var backends []search.Backend
	if cfg.IsDevelopment() && cfg.SearchBackendEnabled {
		rodBackend := search.NewRodBackend(cfg.SearchHeadless)
		defer rodBackend.Close()
		backends = append(backends, rodBackend)
		log.Println("Enabled browser search backend")
	}
	if cfg.BraveAPIKey != "" {
		backends = append(backends, search.NewBrave(cfg.BraveAPIKey))
		log.Println("Enabled Brave search backend")
	}
	if len(backends) == 0 {
		log.Println("No search backends available, live acquisition disabled")
	}
	adapter := search.NewAdapter(backends...)

	// Build the acquisition pipeline
	fetcher := extract.NewFetcher(time.Duration(cfg.ScrapeTimeoutSecs) * time.Second)
	gen := mock.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	svc := news.NewService(db, adapter, fetcher, gen, time.Duration(cfg.RecencyWindowDays)*24*time.Hour)

	// Create server
	srv := server.New(svc, cfg)
	log.Println("Initialized server")

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down gracefully...")
		os.Exit(0)
	}()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Server starting on http://localhost%s", addr)
	return srv.Start(addr)
}
