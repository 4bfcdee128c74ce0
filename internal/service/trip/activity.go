package trip

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/internal/metrics"
	"github.com/heartmarshall/intellitrip-backend/pkg/ctxutil"
)

// MarkDone completes an active activity. Activities that are already done
// or skipped are left unchanged and no feedback is sent. Completing the
// last open activity of an ongoing trip completes the trip.
func (s *Service) MarkDone(ctx context.Context, ref ActivityRef) (*ActivityResult, error) {
	return s.markActivity(ctx, ref, domain.FeedbackCompleted, (*domain.Trip).MarkActivityDone)
}

// MarkSkipped skips an active activity. Same contract as MarkDone.
func (s *Service) MarkSkipped(ctx context.Context, ref ActivityRef) (*ActivityResult, error) {
	return s.markActivity(ctx, ref, domain.FeedbackSkipped, (*domain.Trip).MarkActivitySkipped)
}

func (s *Service) markActivity(
	ctx context.Context,
	ref ActivityRef,
	action domain.FeedbackAction,
	mark func(t *domain.Trip, dayIndex, activityIndex int, now time.Time) (bool, error),
) (*ActivityResult, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var res ActivityResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.trips.GetByIDForUpdate(txCtx, ownerID, ref.TripID)
		if err != nil {
			return fmt.Errorf("get trip: %w", err)
		}
		if err := checkActivityChange(t, action.String(), true); err != nil {
			return err
		}

		now := time.Now()
		changed, err := mark(t, ref.DayIndex, ref.ActivityIndex, now)
		if err != nil {
			return fmt.Errorf("activity %d/%d: %w", ref.DayIndex, ref.ActivityIndex, err)
		}

		res.Trip = t
		res.Changed = changed
		a, _ := t.Activity(ref.DayIndex, ref.ActivityIndex)
		res.Activity = *a
		res.AllProcessed, res.TripCompleted = t.CheckCompletion(now)
		if !changed && !res.TripCompleted {
			return nil
		}

		t.UpdatedAt = now
		if err := s.trips.Update(txCtx, t); err != nil {
			return fmt.Errorf("update trip: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Changed {
		s.notifyFeedback(ctx, ref.TripID, res.Activity.Category, action)
	}
	if res.TripCompleted {
		metrics.RecordTripTransition(domain.TripStatusCompleted)
		s.notifyTransition(ctx, domain.TransitionOngoingToDone)
	}

	s.log.InfoContext(ctx, "activity marked",
		slog.String("trip_id", ref.TripID.String()),
		slog.String("action", action.String()),
		slog.Bool("changed", res.Changed),
		slog.Bool("trip_completed", res.TripCompleted),
	)
	return &res, nil
}

// RequestAlternative records that the traveler wants something else for
// an activity in any status and returns a proposed replacement. Cancelled
// trips are rejected.
func (s *Service) RequestAlternative(ctx context.Context, ref ActivityRef) (*AlternativeResult, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var res AlternativeResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.trips.GetByIDForUpdate(txCtx, ownerID, ref.TripID)
		if err != nil {
			return fmt.Errorf("get trip: %w", err)
		}
		if err := checkActivityChange(t, "alternative_requested", true); err != nil {
			return err
		}

		current, err := t.RequestAlternative(ref.DayIndex, ref.ActivityIndex)
		if err != nil {
			return fmt.Errorf("activity %d/%d: %w", ref.DayIndex, ref.ActivityIndex, err)
		}
		t.UpdatedAt = time.Now()
		if err := s.trips.Update(txCtx, t); err != nil {
			return fmt.Errorf("update trip: %w", err)
		}

		res.Trip = t
		res.Current = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyFeedback(ctx, ref.TripID, res.Current.Category, domain.FeedbackAlternativeRequested)
	res.Proposal = s.proposer.ProposeAlternative(res.Trip.Destination, res.Current)

	s.log.InfoContext(ctx, "alternative requested",
		slog.String("trip_id", ref.TripID.String()),
		slog.String("from", res.Current.Category.String()),
		slog.String("to", res.Proposal.Category.String()),
	)
	return &res, nil
}

// AcceptAlternative replaces an activity with an accepted alternative. The
// replacement is active again and counts as a completed signal for its
// category. Only planned and ongoing trips accept replacements.
func (s *Service) AcceptAlternative(ctx context.Context, input AcceptInput) (*ActivityResult, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var res ActivityResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.trips.GetByIDForUpdate(txCtx, ownerID, input.TripID)
		if err != nil {
			return fmt.Errorf("get trip: %w", err)
		}
		if err := checkActivityChange(t, "alternative_accepted", false); err != nil {
			return err
		}

		next, err := t.ReplaceActivity(input.DayIndex, input.ActivityIndex, input.Alternative)
		if err != nil {
			return fmt.Errorf("activity %d/%d: %w", input.DayIndex, input.ActivityIndex, err)
		}
		t.UpdatedAt = time.Now()
		if err := s.trips.Update(txCtx, t); err != nil {
			return fmt.Errorf("update trip: %w", err)
		}

		res.Trip = t
		res.Activity = next
		res.Changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyFeedback(ctx, input.TripID, res.Activity.Category, domain.FeedbackCompleted)

	s.log.InfoContext(ctx, "alternative accepted",
		slog.String("trip_id", input.TripID.String()),
		slog.String("category", res.Activity.Category.String()),
	)
	return &res, nil
}

// checkActivityChange rejects activity changes on cancelled trips and, unless
// completedOK, on completed ones.
func checkActivityChange(t *domain.Trip, op string, completedOK bool) error {
	switch {
	case t.Status == domain.TripStatusCancelled,
		t.Status == domain.TripStatusCompleted && !completedOK:
		return &domain.TransitionError{Entity: "trip", From: string(t.Status), To: "activity_" + op}
	}
	return nil
}
