// Package main is the entry point for the workspace launcher backend.
//
// The server restores workspace projects: it launches every application
// of a project, places its window and reports progress.
//
// The server provides:
//   - REST API for restoration sessions and project discovery
//   - WebSocket streaming of launch progress
//   - Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Serve and restore a project immediately
//	./server -port 8000 -project ./projects/dev.yaml
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
