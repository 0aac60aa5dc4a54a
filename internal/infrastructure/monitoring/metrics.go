// Package monitoring exposes prometheus metrics for the web front end and
// the dispatch pipeline.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors. Collectors register on the
// default registry at construction, so build exactly one per process.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	DispatchTotal    *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec

	SessionsActive prometheus.Gauge
	WSConnections  prometheus.Gauge
}

// NewMetrics creates and registers the metric collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termipy_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termipy_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		DispatchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termipy_dispatch_total",
				Help: "Total number of dispatched commands",
			},
			[]string{"command", "exit_code"},
		),
		DispatchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termipy_dispatch_duration_seconds",
				Help:    "Command dispatch duration in seconds",
				Buckets: []float64{.001, .01, .05, .1, .5, 1, 5, 30},
			},
			[]string{"command"},
		),
		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termipy_sessions_active",
				Help: "Number of sessions seen by the web front end",
			},
		),
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termipy_ws_connections",
				Help: "Open stats websocket connections",
			},
		),
	}
}

// RecordRequest records one served HTTP request.
func (m *Metrics) RecordRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDispatch records one dispatched command with its outcome.
func (m *Metrics) RecordDispatch(command string, exitCode int, duration time.Duration) {
	m.DispatchTotal.WithLabelValues(command, strconv.Itoa(exitCode)).Inc()
	m.DispatchDuration.WithLabelValues(command).Observe(duration.Seconds())
}
