package trip

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/internal/metrics"
	"github.com/heartmarshall/intellitrip-backend/pkg/ctxutil"
)

// UpdateStatus moves a trip through its lifecycle and keeps the
// traveler's trip stats in step.
func (s *Service) UpdateStatus(ctx context.Context, tripID uuid.UUID, status domain.TripStatus) (*domain.Trip, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", "must be one of planned, ongoing, completed, cancelled")
	}

	var (
		trip *domain.Trip
		from domain.TripStatus
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.trips.GetByIDForUpdate(txCtx, ownerID, tripID)
		if err != nil {
			return fmt.Errorf("get trip: %w", err)
		}

		from = t.Status
		now := time.Now()
		if err := t.TransitionTo(status, now); err != nil {
			return err
		}
		t.UpdatedAt = now
		if err := s.trips.Update(txCtx, t); err != nil {
			return fmt.Errorf("update trip: %w", err)
		}
		trip = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTripTransition(status)
	switch status {
	case domain.TripStatusOngoing:
		s.notifyTransition(ctx, domain.TransitionPlannedToOngoing)
	case domain.TripStatusCompleted:
		s.notifyTransition(ctx, domain.TransitionOngoingToDone)
	case domain.TripStatusCancelled:
		s.resyncStats(ctx)
	}

	s.log.InfoContext(ctx, "trip status changed",
		slog.String("trip_id", tripID.String()),
		slog.String("from", from.String()),
		slog.String("to", status.String()),
	)
	return trip, nil
}
