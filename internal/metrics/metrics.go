// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationsTotal counts served recommendation sets by outcome:
	// cached, llm or fallback.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_recommendations_total",
			Help: "Recommendation requests served, by outcome",
		},
		[]string{"outcome"},
	)

	// FallbackReasonsTotal counts why the deterministic recommender was used.
	FallbackReasonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_recommendation_fallbacks_total",
			Help: "Fallback recommender invocations, by reason",
		},
		[]string{"reason"},
	)

	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_llm_requests_total",
			Help: "Calls to the text-generation provider, by provider and result",
		},
		[]string{"provider", "result"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripwise_llm_request_duration_seconds",
			Help:    "Latency of single provider attempts",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider"},
	)

	ProviderRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_llm_retries_total",
			Help: "Provider retries, by provider and error kind",
		},
		[]string{"provider", "kind"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tripwise_llm_circuit_breaker_state",
			Help: "Provider circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// DestinationCacheTotal counts destination cache lookups by result:
	// hit, miss, stale or incomplete.
	DestinationCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_destination_cache_total",
			Help: "Destination detail cache lookups, by result",
		},
		[]string{"result"},
	)
)

// ObserveProviderCall records one provider attempt.
func ObserveProviderCall(provider string, elapsed time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ProviderRequestsTotal.WithLabelValues(provider, result).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}
