package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment values recognized by the service.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseURL string

	// Search backends
	BraveAPIKey          string
	Environment          string
	SearchBackendEnabled bool
	SearchHeadless       bool

	// Acquisition
	RecencyWindowDays int
	ScrapeTimeoutSecs int

	// Server
	Port int

	// RSS Feed
	FeedTitle       string
	FeedDescription string
	FeedLink        string
	FeedAuthor      string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		BraveAPIKey:          getEnv("BRAVE_SEARCH_API_KEY", ""),
		Environment:          getEnv("ENVIRONMENT", EnvDevelopment),
		SearchBackendEnabled: getEnvAsBool("SEARCH_BACKEND_ENABLED", true),
		SearchHeadless:       getEnvAsBool("SEARCH_HEADLESS", true),
		RecencyWindowDays:    getEnvAsInt("RECENCY_WINDOW_DAYS", 7),
		ScrapeTimeoutSecs:    getEnvAsInt("SCRAPE_TIMEOUT_SECONDS", 30),
		Port:                 getEnvAsInt("PORT", 8080),
		FeedTitle:            getEnv("FEED_TITLE", "Newswire Market News"),
		FeedDescription:      getEnv("FEED_DESCRIPTION", "Industry news articles"),
		FeedLink:             getEnv("FEED_LINK", "http://localhost:8080"),
		FeedAuthor:           getEnv("FEED_AUTHOR", "Newswire"),
	}

	// A missing Brave API key is not a config error: it only means that
	// backend is unavailable.
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Environment != EnvDevelopment && cfg.Environment != EnvProduction {
		return nil, fmt.Errorf("ENVIRONMENT must be %q or %q", EnvDevelopment, EnvProduction)
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
