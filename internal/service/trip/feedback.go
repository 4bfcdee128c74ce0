package trip

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/internal/service/dna"
)

// The helpers below run after the trip transaction committed. A DNA
// failure is logged; the trip change stands.

func (s *Service) notifyFeedback(ctx context.Context, tripID uuid.UUID, category domain.Category, action domain.FeedbackAction) {
	_, err := s.dna.ApplyFeedback(ctx, dna.FeedbackInput{Category: category, Action: action, TripID: &tripID})
	if err != nil {
		s.log.WarnContext(ctx, "dna feedback not applied",
			slog.String("trip_id", tripID.String()),
			slog.String("category", category.String()),
			slog.String("action", action.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) notifyTransition(ctx context.Context, transition domain.TripTransition) {
	if _, err := s.dna.UpdateTripStats(ctx, transition); err != nil {
		s.log.WarnContext(ctx, "dna trip stats not updated",
			slog.String("transition", transition.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) resyncStats(ctx context.Context) {
	if _, err := s.dna.SyncTripStats(ctx); err != nil {
		s.log.WarnContext(ctx, "dna trip stats not synced", slog.String("error", err.Error()))
	}
}
