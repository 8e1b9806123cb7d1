// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the portal API.
// Pass to components that need to record metrics.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	Submissions      *prometheus.CounterVec
	LoginAttempts    *prometheus.CounterVec
	CooldownRejects  *prometheus.CounterVec
	GatewayDuration  *prometheus.HistogramVec
	GatewayFailures  *prometheus.CounterVec
	MediaUploadBytes prometheus.Counter
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portal",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests handled",
			},
			[]string{"route", "status"},
		),
		HTTPDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "portal",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		Submissions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portal",
				Name:      "submissions_total",
				Help:      "Public form submissions by type and outcome",
			},
			[]string{"type", "outcome"}, // outcome=accepted/cached/in_progress/throttled/failed
		),
		LoginAttempts: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portal",
				Name:      "login_attempts_total",
				Help:      "Admin login attempts by outcome",
			},
			[]string{"outcome"},
		),
		CooldownRejects: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portal",
				Name:      "cooldown_rejections_total",
				Help:      "Actions rejected by the per-address cooldown",
			},
			[]string{"action"},
		),
		GatewayDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "portal",
				Name:      "gateway_request_duration_seconds",
				Help:      "Latency of calls to external gateways",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"gateway"},
		),
		GatewayFailures: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portal",
				Name:      "gateway_failures_total",
				Help:      "Failed calls to external gateways",
			},
			[]string{"gateway"},
		),
		MediaUploadBytes: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "portal",
				Name:      "media_upload_bytes_total",
				Help:      "Bytes uploaded to the media bucket",
			},
		),
	}
}

// NewNop returns metrics registered on a throwaway registry, for tests and tools
func NewNop() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
