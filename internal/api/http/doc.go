// Package http provides HTTP handlers for the launcher REST API.
//
// Endpoints:
//   - Health: / and /health
//   - Sessions: /sessions, /sessions/current, /sessions/:id
//   - Projects: /projects
//   - Metrics: /metrics/json
//
// Example Usage:
//
//	handlers := http.NewHandlers(sessions, projects, hub, metrics, logger)
//	router.GET("/health", handlers.Health)
//	router.POST("/sessions", handlers.StartSession)
package http
