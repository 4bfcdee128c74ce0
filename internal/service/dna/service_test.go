package dna

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/intellitrip-backend/internal/config"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testEvolutionConfig() config.EvolutionConfig {
	return config.EvolutionConfig{CompletedDelta: 0.1, SkippedDelta: -0.1, AlternativeDelta: -0.05, BalancedGap: 1.0}
}

func testQuizConfig() config.QuizConfig {
	return config.QuizConfig{BudgetTierMax: 0.4, MidRangeTierMax: 0.8, PaceSlow: 0.9, PaceModerate: 0.6, PaceFast: 0.3}
}

func newTestService(profiles *profileRepoMock, trips *tripCounterMock, tx *txManagerMock) *Service {
	if trips == nil {
		trips = &tripCounterMock{}
	}
	if tx == nil {
		tx = &txManagerMock{}
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(log, profiles, trips, tx, testEvolutionConfig(), testQuizConfig())
}

func ownerCtx(ownerID uuid.UUID) context.Context {
	return ctxutil.WithOwnerID(context.Background(), ownerID)
}

func existingProfile(ownerID uuid.UUID) *domain.DNAProfile {
	p := &domain.DNAProfile{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		InitialScores: domain.InitialScores{Adventure: 0.5, Culture: 0.5, Foodie: 0.5, Budget: 0.5, BudgetTier: domain.BudgetTierMidRange, Pace: domain.PaceModerate},
		CurrentScores: domain.Scores{Adventure: 5, Culture: 5, Foodie: 5, Relaxation: 6},
		TripStats:     domain.TripStats{TotalTrips: 3, PlannedTrips: 1, OngoingTrips: 1, CompletedTrips: 1, TotalActivitiesCompleted: 4},
	}
	p.Counters.Completed.Inc(domain.CategoryCulture)
	p.Insights = ComputeInsights(p.CurrentScores, 1.0)
	return p
}

// ---------------------------------------------------------------------------
// InitializeFromQuiz
// ---------------------------------------------------------------------------

func TestService_InitializeFromQuiz_CreatesProfile(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	profiles := &profileRepoMock{
		GetByOwnerForUpdateFunc: func(context.Context, uuid.UUID) (*domain.DNAProfile, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestService(profiles, nil, nil)

	got, err := svc.InitializeFromQuiz(ownerCtx(ownerID), QuizInput{
		Adventure: 0.8, Culture: 0.3, Foodie: 0.5, Budget: 0.2, Pace: domain.PaceSlow,
	})

	require.NoError(t, err)
	assert.Equal(t, ownerID, got.OwnerID)
	assert.Equal(t, domain.Scores{Adventure: 8, Culture: 3, Foodie: 5, Relaxation: 9}, got.CurrentScores)
	assert.Equal(t, domain.BudgetTierBudget, got.InitialScores.BudgetTier)
	assert.Equal(t, domain.TravelStyleRelaxationSeeker, got.Insights.TravelStyle)
	assert.Equal(t, domain.TripStats{}, got.TripStats)
	require.Len(t, profiles.CreateCalls(), 1)
	assert.Empty(t, profiles.UpdateCalls())
}

func TestService_InitializeFromQuiz_RetakeKeepsHistory(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	existing := existingProfile(ownerID)
	profiles := &profileRepoMock{
		GetByOwnerForUpdateFunc: func(context.Context, uuid.UUID) (*domain.DNAProfile, error) {
			return existing, nil
		},
	}
	svc := newTestService(profiles, nil, nil)

	got, err := svc.InitializeFromQuiz(ownerCtx(ownerID), QuizInput{
		Adventure: 1, Culture: 0, Foodie: 0, Budget: 0.9, Pace: domain.PaceFast,
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
	assert.Equal(t, domain.Scores{Adventure: 10, Relaxation: 3}, got.CurrentScores)
	assert.Equal(t, domain.BudgetTierLuxury, got.InitialScores.BudgetTier)
	assert.Equal(t, 1, got.Counters.Completed.Culture)
	assert.Equal(t, 3, got.TripStats.TotalTrips)
	assert.Equal(t, domain.TravelStyleExplorer, got.Insights.TravelStyle)
	assert.Empty(t, profiles.CreateCalls())
	require.Len(t, profiles.UpdateCalls(), 1)
}

func TestService_InitializeFromQuiz_CreateRaceRetriesAsRetake(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	existing := existingProfile(ownerID)
	lookups := 0
	profiles := &profileRepoMock{
		GetByOwnerForUpdateFunc: func(context.Context, uuid.UUID) (*domain.DNAProfile, error) {
			lookups++
			if lookups == 1 {
				return nil, domain.ErrNotFound
			}
			return existing, nil
		},
		CreateFunc: func(context.Context, *domain.DNAProfile) (*domain.DNAProfile, error) {
			return nil, domain.ErrAlreadyExists
		},
	}
	tx := &txManagerMock{}
	svc := newTestService(profiles, nil, tx)

	got, err := svc.InitializeFromQuiz(ownerCtx(ownerID), QuizInput{Adventure: 0.5, Pace: domain.PaceModerate})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
	assert.Equal(t, 2, tx.RunInTxCalls())
	require.Len(t, profiles.UpdateCalls(), 1)
}

func TestService_InitializeFromQuiz_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unauthorized", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(&profileRepoMock{}, nil, nil)
		_, err := svc.InitializeFromQuiz(context.Background(), QuizInput{Pace: domain.PaceSlow})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("validation collects every field", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(&profileRepoMock{}, nil, nil)
		_, err := svc.InitializeFromQuiz(ownerCtx(uuid.New()), QuizInput{Adventure: 1.5, Budget: -0.1, Pace: "sprint"})

		require.ErrorIs(t, err, domain.ErrValidation)
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Errors, 3)
	})
}

// ---------------------------------------------------------------------------
// ApplyFeedback
// ---------------------------------------------------------------------------

func TestService_ApplyFeedback(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	existing := existingProfile(ownerID)
	tripID := uuid.New()
	profiles := &profileRepoMock{
		GetByOwnerForUpdateFunc: func(context.Context, uuid.UUID) (*domain.DNAProfile, error) {
			return existing, nil
		},
	}
	svc := newTestService(profiles, nil, nil)

	got, err := svc.ApplyFeedback(ownerCtx(ownerID), FeedbackInput{
		Category: domain.CategoryFoodie, Action: domain.FeedbackSkipped, TripID: &tripID,
	})

	require.NoError(t, err)
	assert.InDelta(t, 4.9, got.CurrentScores.Foodie, 1e-9)
	assert.Equal(t, 1, got.Counters.Skipped.Foodie)
	assert.Equal(t, 1, got.TripStats.TotalActivitiesSkipped)

	events := profiles.AppendEventCalls()
	require.Len(t, events, 1)
	assert.Equal(t, existing.ID, events[0].ProfileID)
	assert.Equal(t, domain.FeedbackSkipped, events[0].Action)
	assert.Equal(t, &tripID, events[0].TripID)
	assert.InDelta(t, -0.1, events[0].Delta.Foodie, 1e-9)
}

func TestService_ApplyFeedback_MissingProfile(t *testing.T) {
	t.Parallel()

	profiles := &profileRepoMock{
		GetByOwnerForUpdateFunc: func(context.Context, uuid.UUID) (*domain.DNAProfile, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestService(profiles, nil, nil)

	_, err := svc.ApplyFeedback(ownerCtx(uuid.New()), FeedbackInput{
		Category: domain.CategoryCulture, Action: domain.FeedbackCompleted,
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, profiles.CreateCalls())
	assert.Empty(t, profiles.AppendEventCalls())
}

func TestService_ApplyFeedback_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(&profileRepoMock{}, nil, nil)
	_, err := svc.ApplyFeedback(ownerCtx(uuid.New()), FeedbackInput{Category: "shopping", Action: domain.FeedbackCompleted})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_ApplyFeedback_EventFailureAbortsTx(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	profiles := &profileRepoMock{
		GetByOwnerForUpdateFunc: func(context.Context, uuid.UUID) (*domain.DNAProfile, error) {
			return existingProfile(ownerID), nil
		},
		AppendEventFunc: func(context.Context, domain.EvolutionEvent) error {
			return errors.New("disk full")
		},
	}
	svc := newTestService(profiles, nil, nil)

	_, err := svc.ApplyFeedback(ownerCtx(ownerID), FeedbackInput{Category: domain.CategoryAdventure, Action: domain.FeedbackCompleted})
	require.ErrorContains(t, err, "append evolution event")
}

// ---------------------------------------------------------------------------
// Trip stats
// ---------------------------------------------------------------------------

func TestService_UpdateTripStats(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	tests := []struct {
		name       string
		transition domain.TripTransition
		stats      domain.TripStats
		want       domain.TripStats
		wantErr    error
	}{
		{
			name:       "new planned trip",
			transition: domain.TransitionToPlanned,
			stats:      domain.TripStats{},
			want:       domain.TripStats{TotalTrips: 1, PlannedTrips: 1},
		},
		{
			name:       "trip started",
			transition: domain.TransitionPlannedToOngoing,
			stats:      domain.TripStats{TotalTrips: 1, PlannedTrips: 1},
			want:       domain.TripStats{TotalTrips: 1, OngoingTrips: 1},
		},
		{
			name:       "trip finished",
			transition: domain.TransitionOngoingToDone,
			stats:      domain.TripStats{TotalTrips: 1, OngoingTrips: 1},
			want:       domain.TripStats{TotalTrips: 1, CompletedTrips: 1},
		},
		{
			name:       "nothing ongoing",
			transition: domain.TransitionOngoingToDone,
			stats:      domain.TripStats{TotalTrips: 1, PlannedTrips: 1},
			wantErr:    domain.ErrInvalidTransition,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			profiles := &profileRepoMock{
				GetByOwnerForUpdateFunc: func(context.Context, uuid.UUID) (*domain.DNAProfile, error) {
					return &domain.DNAProfile{ID: uuid.New(), OwnerID: ownerID, TripStats: tt.stats}, nil
				},
			}
			svc := newTestService(profiles, nil, nil)

			got, err := svc.UpdateTripStats(ownerCtx(ownerID), tt.transition)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, profiles.UpdateCalls())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.TripStats)
			require.Len(t, profiles.UpdateCalls(), 1)
		})
	}
}

func TestService_SyncTripStats(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	profiles := &profileRepoMock{
		GetByOwnerForUpdateFunc: func(context.Context, uuid.UUID) (*domain.DNAProfile, error) {
			return existingProfile(ownerID), nil
		},
	}
	trips := &tripCounterMock{
		CountByStatusFunc: func(_ context.Context, id uuid.UUID) (domain.TripStatusCounts, error) {
			assert.Equal(t, ownerID, id)
			return domain.TripStatusCounts{Planned: 0, Ongoing: 1, Completed: 1, Cancelled: 1}, nil
		},
	}
	svc := newTestService(profiles, trips, nil)

	got, err := svc.SyncTripStats(ownerCtx(ownerID))

	require.NoError(t, err)
	assert.Equal(t, domain.TripStats{
		TotalTrips: 3, OngoingTrips: 1, CompletedTrips: 1, TotalActivitiesCompleted: 4,
	}, got.TripStats)
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestService_ListHistory_Limits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, DefaultHistoryLimit},
		{"negative", -3, DefaultHistoryLimit},
		{"explicit", 10, 10},
		{"capped", 1000, MaxHistoryLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ownerID := uuid.New()
			p := existingProfile(ownerID)
			var gotLimit int
			profiles := &profileRepoMock{
				GetByOwnerFunc: func(context.Context, uuid.UUID) (*domain.DNAProfile, error) { return p, nil },
				ListEventsFunc: func(_ context.Context, profileID uuid.UUID, limit int) ([]domain.EvolutionEvent, error) {
					assert.Equal(t, p.ID, profileID)
					gotLimit = limit
					return nil, nil
				},
			}
			svc := newTestService(profiles, nil, nil)

			_, err := svc.ListHistory(ownerCtx(ownerID), tt.limit)

			require.NoError(t, err)
			assert.Equal(t, tt.want, gotLimit)
		})
	}
}

func TestService_GetProfile_Unauthorized(t *testing.T) {
	t.Parallel()

	svc := newTestService(&profileRepoMock{}, nil, nil)
	_, err := svc.GetProfile(context.Background())
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_RecomputeInsights(t *testing.T) {
	t.Parallel()

	t.Run("stale insights are persisted", func(t *testing.T) {
		t.Parallel()
		ownerID := uuid.New()
		p := existingProfile(ownerID)
		p.CurrentScores.Culture = 9
		profiles := &profileRepoMock{
			GetByOwnerForUpdateFunc: func(context.Context, uuid.UUID) (*domain.DNAProfile, error) { return p, nil },
		}
		svc := newTestService(profiles, nil, nil)

		got, err := svc.RecomputeInsights(ownerCtx(ownerID))

		require.NoError(t, err)
		assert.Equal(t, domain.TravelStyleCulturalImmersion, got.Insights.TravelStyle)
		assert.Len(t, profiles.UpdateCalls(), 1)
	})

	t.Run("unchanged insights skip the write", func(t *testing.T) {
		t.Parallel()
		ownerID := uuid.New()
		profiles := &profileRepoMock{
			GetByOwnerForUpdateFunc: func(context.Context, uuid.UUID) (*domain.DNAProfile, error) {
				return existingProfile(ownerID), nil
			},
		}
		svc := newTestService(profiles, nil, nil)

		_, err := svc.RecomputeInsights(ownerCtx(ownerID))

		require.NoError(t, err)
		assert.Empty(t, profiles.UpdateCalls())
	})
}
