package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Logging config
	assert.Empty(t, cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.RateLimit.Global)

	// Launch config
	assert.Equal(t, 90*time.Second, cfg.Launch.Timeout)
	assert.Equal(t, 4, cfg.Launch.Concurrency)
	assert.Equal(t, 10.0, cfg.Launch.Rate)
	assert.Equal(t, 100*time.Millisecond, cfg.Launch.PollInterval)

	// Project config
	assert.Equal(t, "./projects", cfg.Project.Dir)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                 "9000",
		"HOST":                 "127.0.0.1",
		"LOG_LEVEL":            "debug",
		"LOG_DEV":              "true",
		"RATE_LIMIT_RPS":       "500",
		"RATE_LIMIT_BURST":     "1000",
		"RATE_LIMIT_ENABLED":   "false",
		"RATE_LIMIT_GLOBAL":    "true",
		"LAUNCH_TIMEOUT":       "2m",
		"LAUNCH_CONCURRENCY":   "8",
		"LAUNCH_RATE":          "2.5",
		"LAUNCH_POLL_INTERVAL": "250ms",
		"PROJECT_DIR":          "/srv/projects",
		"PROJECT_PATTERN":      "*.yaml",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.RateLimit.Global)
	assert.Equal(t, 2*time.Minute, cfg.Launch.Timeout)
	assert.Equal(t, 8, cfg.Launch.Concurrency)
	assert.Equal(t, 2.5, cfg.Launch.Rate)
	assert.Equal(t, 250*time.Millisecond, cfg.Launch.PollInterval)
	assert.Equal(t, "/srv/projects", cfg.Project.Dir)
	assert.Equal(t, "*.yaml", cfg.Project.Pattern)
}

func TestLaunchConfig(t *testing.T) {
	tests := []struct {
		name            string
		timeout         string
		concurrency     string
		wantTimeout     time.Duration
		wantConcurrency int
	}{
		{
			name:            "default values",
			wantTimeout:     90 * time.Second,
			wantConcurrency: 4,
		},
		{
			name:            "short timeout",
			timeout:         "5s",
			wantTimeout:     5 * time.Second,
			wantConcurrency: 4,
		},
		{
			name:            "single worker",
			concurrency:     "1",
			wantTimeout:     90 * time.Second,
			wantConcurrency: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout != "" {
				t.Setenv("LAUNCH_TIMEOUT", tt.timeout)
			}
			if tt.concurrency != "" {
				t.Setenv("LAUNCH_CONCURRENCY", tt.concurrency)
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantTimeout, cfg.Launch.Timeout)
			assert.Equal(t, tt.wantConcurrency, cfg.Launch.Concurrency)
		})
	}
}

func TestLoadOrDefaultFallsBackOnInvalidValue(t *testing.T) {
	t.Setenv("LAUNCH_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, 90*time.Second, cfg.Launch.Timeout)
}
