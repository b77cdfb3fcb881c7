package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all Prometheus metrics for the backend
type Registry struct {
	// HTTP metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Chat metrics
	ChatConnectionsActive prometheus.Gauge
	ChatMessagesTotal     prometheus.CounterVec

	// Membership metrics
	JoinAttemptsTotal prometheus.CounterVec
}

// NewRegistry initializes and returns a new Registry with all metrics
func NewRegistry() *Registry {
	return &Registry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetapp_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meetapp_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "meetapp_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		ChatConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "meetapp_chat_connections_active",
				Help: "Currently open chat websocket connections",
			},
		),
		ChatMessagesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetapp_chat_messages_total",
				Help: "Chat frames handled by outcome",
			},
			[]string{"outcome"},
		),

		JoinAttemptsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetapp_join_attempts_total",
				Help: "Activity join attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
}
