package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, time.Duration(0), cfg.FeedTimeout)
	assert.Equal(t, "@every 15m", cfg.RefreshSchedule)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FEED_URL", "https://feed.example.com/day.geojson")
	t.Setenv("FEED_TIMEOUT", "30s")
	t.Setenv("REFRESH_SCHEDULE", "@every 5m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "https://feed.example.com/day.geojson", cfg.FeedURL)
	assert.Equal(t, 30*time.Second, cfg.FeedTimeout)
	assert.Equal(t, "@every 5m", cfg.RefreshSchedule)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidFeedTimeout(t *testing.T) {
	t.Setenv("FEED_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_EmptyFeedURL(t *testing.T) {
	t.Setenv("FEED_URL", "")

	_, err := Load()
	require.Error(t, err)
}
