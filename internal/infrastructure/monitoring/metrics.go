package monitoring

import (
	"sync"
	"time"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Launch metrics
	Transitions       prometheus.Counter
	AppsByState       *prometheus.GaugeVec
	OperationDuration *prometheus.HistogramVec
	SessionsTotal     *prometheus.CounterVec
	SessionDuration   prometheus.Histogram
	SessionsActive    prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests    int64 `json:"total_requests"`
	TotalErrors      int64 `json:"total_errors"`
	TotalTransitions int64 `json:"total_transitions"`
	SessionsFinished int64 `json:"sessions_finished"`
	SessionsFailed   int64 `json:"sessions_failed"`
}

// NewMetrics creates a metrics collector registered on reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "launcher_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		// Launch metrics
		Transitions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "launcher_transitions_total",
				Help: "Total number of accepted launch state changes",
			},
		),
		AppsByState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "launcher_apps",
				Help: "Applications of the current session by launch state",
			},
			[]string{"state"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "launcher_operation_duration_seconds",
				Help:    "Duration of launch and window move operations in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation", "status"},
		),
		SessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_sessions_total",
				Help: "Total number of finished restoration sessions by outcome",
			},
			[]string{"outcome"},
		),
		SessionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "launcher_session_duration_seconds",
				Help:    "Restoration session duration in seconds",
				Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "launcher_sessions_active",
				Help: "Number of running restoration sessions",
			},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "launcher_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// ObserveStatus records one accepted change and the resulting per-state counts
func (m *Metrics) ObserveStatus(status types.LaunchStatusMap) {
	m.Transitions.Inc()
	m.SetAppsByState(status)

	m.mu.Lock()
	m.snapshot.TotalTransitions++
	m.mu.Unlock()
}

// SetAppsByState sets the per-state gauges from a status map
func (m *Metrics) SetAppsByState(status types.LaunchStatusMap) {
	for _, state := range types.LaunchStates {
		m.AppsByState.WithLabelValues(state.String()).Set(float64(status.Count(state)))
	}
}

// RecordOperation records a launch or move call
func (m *Metrics) RecordOperation(operation, status string, duration time.Duration) {
	m.OperationDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// SessionStarted marks a session as running
func (m *Metrics) SessionStarted() {
	m.SessionsActive.Inc()
}

// SessionFinished records the outcome of a session
func (m *Metrics) SessionFinished(succeeded bool, duration time.Duration) {
	outcome := "succeeded"
	if !succeeded {
		outcome = "failed"
	}
	m.SessionsActive.Dec()
	m.SessionsTotal.WithLabelValues(outcome).Inc()
	m.SessionDuration.Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.SessionsFinished++
	if !succeeded {
		m.snapshot.SessionsFailed++
	}
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// Snapshot returns current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
