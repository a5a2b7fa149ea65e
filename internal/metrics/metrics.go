// Package metrics provides Prometheus metrics for the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequestsTotal counts upstream completion attempts by outcome.
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "english_api",
			Name:      "provider_requests_total",
			Help:      "Total number of completion attempts per provider",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderRequestDuration measures upstream completion latency.
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "english_api",
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of completion attempts in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)

	// FallbacksTotal counts transitions from one provider to the next.
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "english_api",
			Name:      "provider_fallbacks_total",
			Help:      "Total number of fallbacks to the next provider",
		},
		[]string{"tag", "from", "reason"},
	)

	// ExhaustedTotal counts requests for which every provider failed.
	ExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "english_api",
			Name:      "provider_chain_exhausted_total",
			Help:      "Total number of requests where every provider failed",
		},
		[]string{"tag"},
	)

	// HTTPRequestsTotal counts HTTP requests by route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "english_api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

// RecordAttempt records one provider call.
func RecordAttempt(provider, outcome string, seconds float64) {
	ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordFallback records a move to the next provider.
func RecordFallback(tag, from, reason string) {
	FallbacksTotal.WithLabelValues(tag, from, reason).Inc()
}

// RecordExhausted records a request that no provider could serve.
func RecordExhausted(tag string) {
	ExhaustedTotal.WithLabelValues(tag).Inc()
}

// RecordHTTP records a served HTTP request.
func RecordHTTP(method, route, status string) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}
