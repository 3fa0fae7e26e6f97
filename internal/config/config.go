package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultFeedURL is the USGS all-day summary feed.
const DefaultFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson"

// Config holds the application configuration.
type Config struct {
	ServerPort      int
	FeedURL         string
	FeedTimeout     time.Duration // 0 disables the client timeout
	RefreshSchedule string        // cron expression for the background feed refresher
	AllowedOrigins  []string
	LogLevel        string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	timeoutStr := getEnv("FEED_TIMEOUT", "0s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout < 0 {
		return nil, errors.New("invalid FEED_TIMEOUT")
	}

	cfg := &Config{
		ServerPort:      port,
		FeedURL:         getEnv("FEED_URL", DefaultFeedURL),
		FeedTimeout:     timeout,
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 15m"),
		AllowedOrigins:  splitOrigins(getEnv("ALLOWED_ORIGINS", "*")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	if cfg.FeedURL == "" {
		return nil, errors.New("FEED_URL is required")
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
