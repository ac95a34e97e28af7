/*
Package monitoring provides Prometheus metrics for the workspace launcher.

# Features

- HTTP request metrics (count, latency) via Gin middleware
- Launch state transitions and per-state application gauges
- Launch and window move operation durations
- Session outcomes and durations
- WebSocket connection and message metrics

# Usage

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	router.Use(monitoring.Middleware(metrics))

	timer := monitoring.NewTimer(metrics, "launch")
	// ... launch the application ...
	timer.Stop("success")

Metrics are registered on the Registerer given to NewMetrics; expose them
with promhttp.HandlerFor on the matching Gatherer.
*/
package monitoring
