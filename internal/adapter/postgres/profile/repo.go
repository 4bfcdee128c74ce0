// Package profile implements the DNA profile repository using PostgreSQL.
// Profiles are keyed by owner; evolution events are append-only.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/intellitrip-backend/internal/adapter/postgres"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// Repo provides DNA profile persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new profile repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

const profileColumns = `id, owner_id,
	initial_adventure, initial_culture, initial_foodie, initial_budget, budget_tier, pace,
	adventure, culture, foodie, relaxation,
	counters,
	total_trips, planned_trips, ongoing_trips, completed_trips,
	total_activities_completed, total_activities_skipped, total_alternatives_requested,
	dominant_trait, travel_style, profile_title,
	created_at, updated_at`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const getByOwnerSQL = `SELECT ` + profileColumns + ` FROM dna_profiles WHERE owner_id = $1`

// GetByOwner returns the profile of an owner.
// Returns domain.ErrNotFound if the owner has not taken the quiz.
func (r *Repo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.DNAProfile, error) {
	return r.getByOwner(ctx, getByOwnerSQL, ownerID)
}

const getByOwnerForUpdateSQL = getByOwnerSQL + ` FOR UPDATE`

// GetByOwnerForUpdate is GetByOwner with a row lock held until the
// surrounding transaction ends. Must be called inside TxManager.RunInTx.
func (r *Repo) GetByOwnerForUpdate(ctx context.Context, ownerID uuid.UUID) (*domain.DNAProfile, error) {
	return r.getByOwner(ctx, getByOwnerForUpdateSQL, ownerID)
}

func (r *Repo) getByOwner(ctx context.Context, query string, ownerID uuid.UUID) (*domain.DNAProfile, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanProfile(q.QueryRow(ctx, query, ownerID))
	if err != nil {
		return nil, postgres.MapError(err, "dna_profile", ownerID)
	}
	return p, nil
}

const listEventsSQL = `
SELECT id, profile_id, action, category, delta, trip_id, created_at
FROM dna_evolution_events
WHERE profile_id = $1
ORDER BY created_at DESC, id
LIMIT $2`

// ListEvents returns the newest evolution events of a profile.
func (r *Repo) ListEvents(ctx context.Context, profileID uuid.UUID, limit int) ([]domain.EvolutionEvent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listEventsSQL, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("list dna_evolution_events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.EvolutionEvent, 0, limit)
	for rows.Next() {
		var (
			e        domain.EvolutionEvent
			action   string
			category string
			delta    []byte
		)
		if err := rows.Scan(&e.ID, &e.ProfileID, &action, &category, &delta, &e.TripID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dna_evolution_event: %w", err)
		}
		if err := json.Unmarshal(delta, &e.Delta); err != nil {
			return nil, fmt.Errorf("decode event delta %s: %w", e.ID, err)
		}
		e.Action = domain.FeedbackAction(action)
		e.Category = domain.Category(category)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dna_evolution_events: %w", err)
	}

	return events, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO dna_profiles (` + profileColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
RETURNING ` + profileColumns

// Create inserts a new profile. Returns domain.ErrAlreadyExists if the
// owner already has one.
func (r *Repo) Create(ctx context.Context, p *domain.DNAProfile) (*domain.DNAProfile, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	counters, err := json.Marshal(p.Counters)
	if err != nil {
		return nil, fmt.Errorf("encode counters: %w", err)
	}

	created, err := scanProfile(q.QueryRow(ctx, createSQL,
		p.ID, p.OwnerID,
		p.InitialScores.Adventure, p.InitialScores.Culture, p.InitialScores.Foodie, p.InitialScores.Budget,
		string(p.InitialScores.BudgetTier), string(p.InitialScores.Pace),
		p.CurrentScores.Adventure, p.CurrentScores.Culture, p.CurrentScores.Foodie, p.CurrentScores.Relaxation,
		counters,
		p.TripStats.TotalTrips, p.TripStats.PlannedTrips, p.TripStats.OngoingTrips, p.TripStats.CompletedTrips,
		p.TripStats.TotalActivitiesCompleted, p.TripStats.TotalActivitiesSkipped, p.TripStats.TotalAlternativesRequested,
		string(p.Insights.DominantTrait), string(p.Insights.TravelStyle), p.Insights.ProfileTitle,
		p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, "dna_profile", p.OwnerID)
	}
	return created, nil
}

const updateSQL = `
UPDATE dna_profiles SET
	initial_adventure = $2, initial_culture = $3, initial_foodie = $4, initial_budget = $5,
	budget_tier = $6, pace = $7,
	adventure = $8, culture = $9, foodie = $10, relaxation = $11,
	counters = $12,
	total_trips = $13, planned_trips = $14, ongoing_trips = $15, completed_trips = $16,
	total_activities_completed = $17, total_activities_skipped = $18, total_alternatives_requested = $19,
	dominant_trait = $20, travel_style = $21, profile_title = $22,
	updated_at = $23
WHERE id = $1`

// Update overwrites every mutable column of the profile.
// Returns domain.ErrNotFound if the profile row is gone.
func (r *Repo) Update(ctx context.Context, p *domain.DNAProfile) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	counters, err := json.Marshal(p.Counters)
	if err != nil {
		return fmt.Errorf("encode counters: %w", err)
	}

	tag, err := q.Exec(ctx, updateSQL,
		p.ID,
		p.InitialScores.Adventure, p.InitialScores.Culture, p.InitialScores.Foodie, p.InitialScores.Budget,
		string(p.InitialScores.BudgetTier), string(p.InitialScores.Pace),
		p.CurrentScores.Adventure, p.CurrentScores.Culture, p.CurrentScores.Foodie, p.CurrentScores.Relaxation,
		counters,
		p.TripStats.TotalTrips, p.TripStats.PlannedTrips, p.TripStats.OngoingTrips, p.TripStats.CompletedTrips,
		p.TripStats.TotalActivitiesCompleted, p.TripStats.TotalActivitiesSkipped, p.TripStats.TotalAlternativesRequested,
		string(p.Insights.DominantTrait), string(p.Insights.TravelStyle), p.Insights.ProfileTitle,
		p.UpdatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "dna_profile", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dna_profile %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

const appendEventSQL = `
INSERT INTO dna_evolution_events (id, profile_id, action, category, delta, trip_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// AppendEvent records one evolution event.
func (r *Repo) AppendEvent(ctx context.Context, e domain.EvolutionEvent) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	delta, err := json.Marshal(e.Delta)
	if err != nil {
		return fmt.Errorf("encode delta: %w", err)
	}

	if _, err := q.Exec(ctx, appendEventSQL,
		e.ID, e.ProfileID, string(e.Action), string(e.Category), delta, e.TripID, e.CreatedAt,
	); err != nil {
		return postgres.MapError(err, "dna_evolution_event", e.ID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func scanProfile(row pgx.Row) (*domain.DNAProfile, error) {
	var (
		p          domain.DNAProfile
		budgetTier string
		pace       string
		counters   []byte
		dominant   string
		style      string
		createdAt  time.Time
		updatedAt  time.Time
	)
	err := row.Scan(
		&p.ID, &p.OwnerID,
		&p.InitialScores.Adventure, &p.InitialScores.Culture, &p.InitialScores.Foodie, &p.InitialScores.Budget,
		&budgetTier, &pace,
		&p.CurrentScores.Adventure, &p.CurrentScores.Culture, &p.CurrentScores.Foodie, &p.CurrentScores.Relaxation,
		&counters,
		&p.TripStats.TotalTrips, &p.TripStats.PlannedTrips, &p.TripStats.OngoingTrips, &p.TripStats.CompletedTrips,
		&p.TripStats.TotalActivitiesCompleted, &p.TripStats.TotalActivitiesSkipped, &p.TripStats.TotalAlternativesRequested,
		&dominant, &style, &p.Insights.ProfileTitle,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(counters) > 0 {
		if err := json.Unmarshal(counters, &p.Counters); err != nil {
			return nil, fmt.Errorf("decode counters: %w", err)
		}
	}
	p.InitialScores.BudgetTier = domain.BudgetTier(budgetTier)
	p.InitialScores.Pace = domain.PaceTier(pace)
	p.Insights.DominantTrait = domain.Category(dominant)
	p.Insights.TravelStyle = domain.TravelStyle(style)
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt

	return &p, nil
}
