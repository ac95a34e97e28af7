// Package middleware provides HTTP middleware for the launcher API.
//
// Middleware stack:
//   - CORS: Cross-origin access for progress UIs (gin-contrib/cors)
//   - RateLimit: Per-IP token buckets with idle client eviction
//   - GlobalRateLimit: One token bucket for all clients
//   - RequestID: X-Request-ID propagation
//   - RequestLogger: Request logging with zap
//   - Recovery: Panic recovery with a JSON 500 response
package middleware
