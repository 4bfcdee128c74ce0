package dna

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

// ApplyFeedback evolves the caller's profile from one feedback signal and
// appends it to the evolution history. A missing profile is reported as
// domain.ErrNotFound and never created.
func (s *Service) ApplyFeedback(ctx context.Context, input FeedbackInput) (*domain.DNAProfile, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var profile *domain.DNAProfile
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.profiles.GetByOwnerForUpdate(txCtx, ownerID)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		now := time.Now()
		delta := s.rules.ApplyFeedback(p, input.Category, input.Action)
		p.UpdatedAt = now

		if err := s.profiles.Update(txCtx, p); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		if err := s.profiles.AppendEvent(txCtx, domain.EvolutionEvent{
			ID:        uuid.New(),
			ProfileID: p.ID,
			Action:    input.Action,
			Category:  input.Category,
			Delta:     delta,
			TripID:    input.TripID,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("append evolution event: %w", err)
		}

		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordFeedback(input.Category, input.Action)
	s.log.InfoContext(ctx, "dna feedback applied",
		slog.String("owner_id", ownerID.String()),
		slog.String("category", input.Category.String()),
		slog.String("action", input.Action.String()),
		slog.Float64("score", profile.CurrentScores.Get(input.Category)),
	)

	return profile, nil
}
