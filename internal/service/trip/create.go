package trip

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/internal/metrics"
	"github.com/heartmarshall/intellitrip-backend/pkg/ctxutil"
)

// Create persists a planned trip for the caller. A trip with the same
// destination and dates is returned as is with Deduplicated set.
func (s *Service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	it := input.Itinerary.Clone()
	it.RebaseDates(input.StartDate)
	s.enrich.apply(ctx, input.Destination, &it)

	tag := input.GeneratorTag
	if tag == "" {
		tag = domain.GeneratorMock
	}
	t := &domain.Trip{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Destination:    strings.TrimSpace(input.Destination),
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Budget:         input.Budget,
		Travelers:      input.Travelers,
		Accommodation:  input.Accommodation,
		Transportation: input.Transportation,
		DNA:            input.DNA,
		Itinerary:      it,
		Status:         domain.TripStatusPlanned,
		GeneratorTag:   tag,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	t.Recount()

	return s.insert(ctx, t)
}

func (s *Service) insert(ctx context.Context, t *domain.Trip) (*CreateResult, error) {
	stored, created, err := s.trips.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}

	if !created {
		s.log.InfoContext(ctx, "trip deduplicated",
			slog.String("owner_id", t.OwnerID.String()),
			slog.String("trip_id", stored.ID.String()),
		)
		return &CreateResult{Trip: stored, Deduplicated: true}, nil
	}

	metrics.RecordTripTransition(domain.TripStatusPlanned)
	s.notifyTransition(ctx, domain.TransitionToPlanned)
	s.log.InfoContext(ctx, "trip created",
		slog.String("owner_id", stored.OwnerID.String()),
		slog.String("trip_id", stored.ID.String()),
		slog.String("destination", stored.Destination),
		slog.Int("activities", stored.Counters.TotalActivities),
	)
	return &CreateResult{Trip: stored}, nil
}

// ListPreplanned returns anonymized planned trips across all owners,
// newest first, optionally for one destination. limit <= 0 selects
// DefaultPreplannedLimit; larger values are capped.
func (s *Service) ListPreplanned(ctx context.Context, destination string, limit int) ([]domain.Trip, error) {
	switch {
	case limit <= 0:
		limit = DefaultPreplannedLimit
	case limit > MaxPreplannedLimit:
		limit = MaxPreplannedLimit
	}

	trips, err := s.trips.ListPreplanned(ctx, strings.TrimSpace(destination), limit)
	if err != nil {
		return nil, fmt.Errorf("list preplanned trips: %w", err)
	}
	for i := range trips {
		anonymize(&trips[i])
	}
	return trips, nil
}

// ClonePreplanned copies a planned trip of any owner into a fresh planned
// trip of the caller.
func (s *Service) ClonePreplanned(ctx context.Context, input CloneInput) (*CreateResult, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	src, err := s.trips.GetAnyOwner(ctx, input.SourceID)
	if err != nil {
		return nil, fmt.Errorf("get source trip: %w", err)
	}
	if src.Status != domain.TripStatusPlanned {
		return nil, fmt.Errorf("trip %s: %w", input.SourceID, domain.ErrNotFound)
	}

	start, end := src.StartDate, src.EndDate
	if input.StartDate != nil {
		start = *input.StartDate
		end = start.AddDate(0, 0, src.TotalDays()-1)
	}
	if input.EndDate != nil {
		end = *input.EndDate
	}
	if domain.DaysInclusive(start, end) < 1 {
		return nil, domain.NewValidationError("end_date", "must not be before start_date")
	}

	now := time.Now()
	it := src.Itinerary.Clone()
	it.ResetProgress()
	it.RebaseDates(start)

	t := &domain.Trip{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Destination:    src.Destination,
		StartDate:      start,
		EndDate:        end,
		Budget:         src.Budget,
		Travelers:      src.Travelers,
		Accommodation:  src.Accommodation,
		Transportation: src.Transportation,
		DNA:            src.DNA,
		Itinerary:      it,
		Status:         domain.TripStatusPlanned,
		GeneratorTag:   src.GeneratorTag,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	t.Recount()

	return s.insert(ctx, t)
}

// anonymize strips owner identity and progress from a shared trip.
func anonymize(t *domain.Trip) {
	t.OwnerID = uuid.Nil
	t.DNA = domain.DNASnapshot{}
	t.Itinerary.ResetProgress()
	t.Counters = domain.TripCounters{TotalActivities: t.Itinerary.ActivityCount()}
	t.StartedAt = nil
	t.CompletedAt = nil
}
