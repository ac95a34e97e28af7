// Package config provides 12-factor configuration for the workspace launcher.
//
// Configuration is loaded from environment variables with defaults.
// CLI flags in cmd/server override the port and the project to restore.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP or global rate limiting of the HTTP API
//   - Launch: Session timeout, worker count, launch pacing, poll interval
//   - Project: Directory and glob used to discover project files
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED, RATE_LIMIT_GLOBAL
//   - LAUNCH_TIMEOUT, LAUNCH_CONCURRENCY, LAUNCH_RATE, LAUNCH_POLL_INTERVAL
//   - PROJECT_DIR, PROJECT_PATTERN
package config
