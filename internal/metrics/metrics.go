// Package metrics exposes Prometheus counters for the planning core.
//
// Usage:
//
//	metrics.RecordCacheLookup(metrics.ResultHit)
//	metrics.RecordGeneration(domain.GeneratorAI, metrics.OutcomeError)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// Cache lookup results.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Generator run outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
	OutcomeRejected = "rejected"
)

var (
	// CacheLookupsTotal counts itinerary cache lookups by result.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinerary_cache_lookups_total",
			Help: "Total number of itinerary cache lookups",
		},
		[]string{"result"},
	)

	// CacheStoresTotal counts itinerary cache writes.
	CacheStoresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "itinerary_cache_stores_total",
			Help: "Total number of itinerary cache writes",
		},
	)

	// CacheEvictionsTotal counts entries removed by clear or reaping.
	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinerary_cache_evictions_total",
			Help: "Total number of itinerary cache entries removed",
		},
		[]string{"reason"},
	)

	// GeneratorRunsTotal counts itinerary generator runs by tag and outcome.
	GeneratorRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinerary_generator_runs_total",
			Help: "Total number of itinerary generator runs",
		},
		[]string{"generator", "outcome"},
	)

	// FeedbackEventsTotal counts DNA feedback events by category and action.
	FeedbackEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dna_feedback_events_total",
			Help: "Total number of DNA feedback events applied",
		},
		[]string{"category", "action"},
	)

	// TripTransitionsTotal counts trip status changes by target status.
	TripTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_status_transitions_total",
			Help: "Total number of trip status transitions",
		},
		[]string{"to"},
	)

	// EnrichmentCallsTotal counts day enrichment calls by outcome.
	EnrichmentCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_enrichment_calls_total",
			Help: "Total number of trip day enrichment calls",
		},
		[]string{"outcome"},
	)

	// EnrichmentBreakerState is the enrichment circuit breaker state
	// (0 closed, 1 half-open, 2 open).
	EnrichmentBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trip_enrichment_breaker_state",
			Help: "Enrichment circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)
)

// RecordCacheLookup counts a cache lookup.
func RecordCacheLookup(result string) {
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordCacheStore counts a cache write.
func RecordCacheStore() {
	CacheStoresTotal.Inc()
}

// RecordCacheEvictions adds n removed entries under reason ("clear" or "ttl").
func RecordCacheEvictions(reason string, n int) {
	if n <= 0 {
		return
	}
	CacheEvictionsTotal.WithLabelValues(reason).Add(float64(n))
}

// RecordGeneration counts a generator run.
func RecordGeneration(tag domain.GeneratorTag, outcome string) {
	GeneratorRunsTotal.WithLabelValues(string(tag), outcome).Inc()
}

// RecordFeedback counts an applied feedback event.
func RecordFeedback(category domain.Category, action domain.FeedbackAction) {
	FeedbackEventsTotal.WithLabelValues(string(category), string(action)).Inc()
}

// RecordTripTransition counts a trip status change.
func RecordTripTransition(to domain.TripStatus) {
	TripTransitionsTotal.WithLabelValues(string(to)).Inc()
}

// RecordEnrichment counts a day enrichment call. Outcome is success, error
// or rejected (breaker open).
func RecordEnrichment(outcome string) {
	EnrichmentCallsTotal.WithLabelValues(outcome).Inc()
}

// SetEnrichmentBreakerState publishes the breaker state.
func SetEnrichmentBreakerState(state float64) {
	EnrichmentBreakerState.Set(state)
}
