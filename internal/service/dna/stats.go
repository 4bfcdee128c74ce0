package dna

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/pkg/ctxutil"
)

// UpdateTripStats applies one trip lifecycle transition to the caller's
// profile counters. Transitions whose source bucket is empty fail with
// domain.ErrInvalidTransition.
func (s *Service) UpdateTripStats(ctx context.Context, transition domain.TripTransition) (*domain.DNAProfile, error) {
	return s.mutateStats(ctx, "trip stats updated", func(ctx context.Context, p *domain.DNAProfile) error {
		return ApplyTripTransition(&p.TripStats, transition)
	}, slog.String("transition", transition.String()))
}

// SyncTripStats recomputes the lifecycle counters from the live set of the
// caller's trips. Used where no incremental transition applies, such as
// cancellation.
func (s *Service) SyncTripStats(ctx context.Context) (*domain.DNAProfile, error) {
	return s.mutateStats(ctx, "trip stats synced", func(ctx context.Context, p *domain.DNAProfile) error {
		counts, err := s.trips.CountByStatus(ctx, p.OwnerID)
		if err != nil {
			return fmt.Errorf("count trips: %w", err)
		}
		StatsFromCounts(&p.TripStats, counts)
		return nil
	})
}

func (s *Service) mutateStats(
	ctx context.Context,
	msg string,
	apply func(ctx context.Context, p *domain.DNAProfile) error,
	attrs ...any,
) (*domain.DNAProfile, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var profile *domain.DNAProfile
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.profiles.GetByOwnerForUpdate(txCtx, ownerID)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		if err := apply(txCtx, p); err != nil {
			return err
		}
		p.UpdatedAt = time.Now()
		if err := s.profiles.Update(txCtx, p); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	attrs = append(attrs,
		slog.String("owner_id", ownerID.String()),
		slog.Int("planned", profile.TripStats.PlannedTrips),
		slog.Int("ongoing", profile.TripStats.OngoingTrips),
		slog.Int("completed", profile.TripStats.CompletedTrips),
	)
	s.log.InfoContext(ctx, msg, attrs...)

	return profile, nil
}
