package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Launch    LaunchConfig
	Project   ProjectConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL"` // Empty: debug with LOG_DEV, info otherwise
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Global            bool `envconfig:"RATE_LIMIT_GLOBAL" default:"false"` // One bucket for all clients
}

// LaunchConfig holds restoration session settings.
type LaunchConfig struct {
	Timeout      time.Duration `envconfig:"LAUNCH_TIMEOUT" default:"90s"`
	Concurrency  int           `envconfig:"LAUNCH_CONCURRENCY" default:"4"`
	Rate         float64       `envconfig:"LAUNCH_RATE" default:"10"`
	PollInterval time.Duration `envconfig:"LAUNCH_POLL_INTERVAL" default:"100ms"`
}

// ProjectConfig holds where workspace projects are discovered.
type ProjectConfig struct {
	Dir     string `envconfig:"PROJECT_DIR" default:"./projects"`
	Pattern string `envconfig:"PROJECT_PATTERN" default:"**/*.{json,yaml,yml,toml}"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Launch: LaunchConfig{
			Timeout:      90 * time.Second,
			Concurrency:  4,
			Rate:         10,
			PollInterval: 100 * time.Millisecond,
		},
		Project: ProjectConfig{
			Dir:     "./projects",
			Pattern: "**/*.{json,yaml,yml,toml}",
		},
	}
}
