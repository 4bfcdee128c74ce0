package dna

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/pkg/ctxutil"
)

// GetProfile returns the caller's profile.
func (s *Service) GetProfile(ctx context.Context) (*domain.DNAProfile, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	p, err := s.profiles.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// ListHistory returns the newest evolution events of the caller's profile.
// limit <= 0 selects DefaultHistoryLimit; larger values are capped.
func (s *Service) ListHistory(ctx context.Context, limit int) ([]domain.EvolutionEvent, error) {
	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	events, err := s.profiles.ListEvents(ctx, p.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list evolution events: %w", err)
	}
	return events, nil
}

// RecomputeInsights re-derives insights from current scores and persists
// them when they changed.
func (s *Service) RecomputeInsights(ctx context.Context) (*domain.DNAProfile, error) {
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
		profile = p

		ins := ComputeInsights(p.CurrentScores, s.rules.BalancedGap)
		if ins == p.Insights {
			return nil
		}
		p.Insights = ins
		p.UpdatedAt = time.Now()
		if err := s.profiles.Update(txCtx, p); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}
