package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	RealtimeSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_realtime_subscribers",
			Help: "Open realtime (SSE) subscriptions",
		},
	)

	proposalEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_proposal_events_total",
			Help: "Proposal lifecycle events (created, viewed, accepted)",
		},
		[]string{"event"},
	)

	hunterEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_hunter_events_total",
			Help: "Lead Hunter operations (search, analysis, deep_analysis, conversion, demo)",
		},
		[]string{"event"},
	)

	effectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_side_effect_failures_total",
			Help: "Best-effort side effects that failed after commit",
		},
		[]string{"effect"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

func RecordProposal(event string) {
	proposalEvents.WithLabelValues(event).Inc()
}

func RecordHunter(event string) {
	hunterEvents.WithLabelValues(event).Inc()
}

func RecordEffectFailure(effect string) {
	effectFailures.WithLabelValues(effect).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
