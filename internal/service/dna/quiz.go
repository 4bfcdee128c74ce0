package dna

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/pkg/ctxutil"
)

// InitializeFromQuiz creates the caller's profile from quiz answers. Taking
// the quiz again replaces the snapshot and current scores but keeps
// counters, trip stats and history.
func (s *Service) InitializeFromQuiz(ctx context.Context, input QuizInput) (*domain.DNAProfile, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	initial, scores := s.rules.InitialProfile(input)

	var (
		profile *domain.DNAProfile
		retake  bool
	)
	run := func(txCtx context.Context) error {
		now := time.Now()

		existing, err := s.profiles.GetByOwnerForUpdate(txCtx, ownerID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			profile, err = s.profiles.Create(txCtx, &domain.DNAProfile{
				ID:            uuid.New(),
				OwnerID:       ownerID,
				InitialScores: initial,
				CurrentScores: scores,
				Insights:      ComputeInsights(scores, s.rules.BalancedGap),
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if err != nil {
				return fmt.Errorf("create profile: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("get profile: %w", err)
		}

		retake = true
		existing.InitialScores = initial
		existing.CurrentScores = scores
		existing.Insights = ComputeInsights(scores, s.rules.BalancedGap)
		existing.UpdatedAt = now
		if err := s.profiles.Update(txCtx, existing); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		profile = existing
		return nil
	}

	err := s.tx.RunInTx(ctx, run)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Lost a first-time creation race; the row exists now, so retake.
		err = s.tx.RunInTx(ctx, run)
	}
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "dna profile initialized",
		slog.String("owner_id", ownerID.String()),
		slog.Bool("retake", retake),
		slog.String("dominant_trait", profile.Insights.DominantTrait.String()),
		slog.String("travel_style", profile.Insights.TravelStyle.String()),
	)

	return profile, nil
}
