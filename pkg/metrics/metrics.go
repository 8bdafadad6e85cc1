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
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	DriveOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drive_operations_total",
			Help: "Remote storage operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	OAuthRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oauth_token_refresh_total",
			Help: "Google OAuth refresh exchanges by outcome",
		},
		[]string{"outcome"},
	)

	DocumentEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_events_total",
			Help: "Document lifecycle events published to Kafka",
		},
		[]string{"event", "outcome"},
	)
)
