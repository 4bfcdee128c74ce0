package trip

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/heartmarshall/intellitrip-backend/internal/config"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/internal/metrics"
)

// Enricher attaches opaque weather and detail documents to a day.
type Enricher interface {
	EnrichDay(ctx context.Context, destination string, day domain.DayPlan) (weather, details json.RawMessage, err error)
}

type dayExtras struct {
	weather json.RawMessage
	details json.RawMessage
}

// enrichment guards an Enricher with a circuit breaker. Failures are
// logged and never block the caller.
type enrichment struct {
	enricher Enricher
	cb       *gobreaker.CircuitBreaker[dayExtras]
	timeout  time.Duration
	log      *slog.Logger
}

func newEnrichment(log *slog.Logger, enricher Enricher, cfg config.EnrichmentConfig) *enrichment {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	cb := gobreaker.NewCircuitBreaker[dayExtras](gobreaker.Settings{
		Name:        "trip-enrichment",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("enrichment breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.SetEnrichmentBreakerState(breakerStateValue(to))
		},
	})
	return &enrichment{enricher: enricher, cb: cb, timeout: cfg.Timeout, log: log}
}

// apply enriches every day of it in place. Days that fail keep their
// previous documents.
func (e *enrichment) apply(ctx context.Context, destination string, it *domain.Itinerary) {
	if e == nil || e.enricher == nil {
		return
	}

	for i := range it.Days {
		day := it.Days[i]
		extras, err := e.cb.Execute(func() (dayExtras, error) {
			callCtx := ctx
			if e.timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, e.timeout)
				defer cancel()
			}
			weather, details, err := e.enricher.EnrichDay(callCtx, destination, day)
			return dayExtras{weather: weather, details: details}, err
		})

		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordEnrichment(metrics.OutcomeRejected)
			e.log.WarnContext(ctx, "enrichment skipped, breaker open",
				slog.String("destination", destination),
				slog.Int("remaining_days", len(it.Days)-i),
			)
			return
		case err != nil:
			metrics.RecordEnrichment(metrics.OutcomeError)
			e.log.WarnContext(ctx, "day enrichment failed",
				slog.String("destination", destination),
				slog.Int("day", day.Day),
				slog.String("error", err.Error()),
			)
			continue
		}

		metrics.RecordEnrichment(metrics.OutcomeSuccess)
		if len(extras.weather) > 0 {
			it.Days[i].Weather = extras.weather
		}
		if len(extras.details) > 0 {
			it.Days[i].Enrichment = extras.details
		}
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
