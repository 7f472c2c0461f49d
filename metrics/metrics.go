// Package metrics exposes Prometheus collectors for backend calls, page
// renders, session redirects and rate limiting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequestsTotal counts backend REST calls.
	// Labels: operation (list_recipes, login, ...), status (HTTP code or "error")
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tastytrail",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of backend REST calls by operation and status",
		},
		[]string{"operation", "status"},
	)

	// BackendRequestDuration tracks backend call latency.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tastytrail",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duration of backend REST calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// PageRendersTotal counts rendered pages.
	PageRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tastytrail",
			Subsystem: "pages",
			Name:      "renders_total",
			Help:      "Total number of rendered pages by template",
		},
		[]string{"page"},
	)

	// SessionRedirectsTotal counts redirects to the login page.
	// Labels: reason (missing_token, unauthorized)
	SessionRedirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tastytrail",
			Subsystem: "session",
			Name:      "login_redirects_total",
			Help:      "Total number of redirects to the login page by reason",
		},
		[]string{"reason"},
	)

	// RateLimitedTotal counts requests rejected by the auth rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tastytrail",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected with 429 by path",
		},
		[]string{"path"},
	)
)
