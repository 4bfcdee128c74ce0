// Package trip implements the trip repository using PostgreSQL.
package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/intellitrip-backend/internal/adapter/postgres"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// Repo provides trip persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new trip repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

const table = "trips"

const tripColumns = `id, owner_id, destination, start_date, end_date, budget, travelers,
	accommodation, transportation, dna, itinerary,
	total_activities, completed_activities, skipped_activities, alternatives_requested,
	status, generator_tag, created_at, updated_at, started_at, completed_at`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const getByIDSQL = `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND owner_id = $2`

// GetByID returns an owner's trip.
func (r *Repo) GetByID(ctx context.Context, ownerID, tripID uuid.UUID) (*domain.Trip, error) {
	return r.getOne(ctx, getByIDSQL, tripID, ownerID)
}

const getByIDForUpdateSQL = getByIDSQL + ` FOR UPDATE`

// GetByIDForUpdate is GetByID with a row lock held until the surrounding
// transaction ends.
func (r *Repo) GetByIDForUpdate(ctx context.Context, ownerID, tripID uuid.UUID) (*domain.Trip, error) {
	return r.getOne(ctx, getByIDForUpdateSQL, tripID, ownerID)
}

const getAnyOwnerSQL = `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

// GetAnyOwner returns a trip regardless of its owner. Used for cloning
// pre-planned itineraries.
func (r *Repo) GetAnyOwner(ctx context.Context, tripID uuid.UUID) (*domain.Trip, error) {
	return r.getOne(ctx, getAnyOwnerSQL, tripID)
}

const getByNaturalKeySQL = `SELECT ` + tripColumns + `
FROM trips WHERE owner_id = $1 AND destination = $2 AND start_date = $3 AND end_date = $4`

func (r *Repo) getOne(ctx context.Context, query string, args ...any) (*domain.Trip, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	t, err := scanTrip(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "trip", args[0])
	}
	return t, nil
}

const listByOwnerSQL = `SELECT ` + tripColumns + `
FROM trips WHERE owner_id = $1
ORDER BY created_at DESC, id`

// ListByOwner returns an owner's trips, newest first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByOwnerSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return collectTrips(rows)
}

// ListPreplanned returns planned trips across all owners, newest first,
// optionally filtered by destination (case-insensitive).
func (r *Repo) ListPreplanned(ctx context.Context, destination string, limit int) ([]domain.Trip, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sel := postgres.Builder().
		Select(tripColumns).
		From(table).
		Where(squirrel.Eq{"status": string(domain.TripStatusPlanned)}).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit))
	if destination != "" {
		sel = sel.Where("lower(destination) = lower(?)", destination)
	}

	sql, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list preplanned: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list preplanned trips: %w", err)
	}
	return collectTrips(rows)
}

// CountByStatus counts an owner's trips per status.
func (r *Repo) CountByStatus(ctx context.Context, ownerID uuid.UUID) (domain.TripStatusCounts, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("status", "count(*)").
		From(table).
		Where(squirrel.Eq{"owner_id": ownerID}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return domain.TripStatusCounts{}, fmt.Errorf("build count trips: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return domain.TripStatusCounts{}, fmt.Errorf("count trips: %w", err)
	}
	defer rows.Close()

	var counts domain.TripStatusCounts
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return domain.TripStatusCounts{}, fmt.Errorf("scan trip count: %w", err)
		}
		switch domain.TripStatus(status) {
		case domain.TripStatusPlanned:
			counts.Planned = n
		case domain.TripStatusOngoing:
			counts.Ongoing = n
		case domain.TripStatusCompleted:
			counts.Completed = n
		case domain.TripStatusCancelled:
			counts.Cancelled = n
		}
	}
	if err := rows.Err(); err != nil {
		return domain.TripStatusCounts{}, fmt.Errorf("iterate trip counts: %w", err)
	}
	return counts, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO trips (` + tripColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
        $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
ON CONFLICT ON CONSTRAINT trips_owner_destination_dates_key DO NOTHING
RETURNING ` + tripColumns

// Create inserts a trip. When the owner already has a trip for the same
// destination and dates, the existing trip is returned with created=false.
func (r *Repo) Create(ctx context.Context, t *domain.Trip) (trip *domain.Trip, created bool, err error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	dna, itinerary, err := encodeDocuments(t)
	if err != nil {
		return nil, false, err
	}

	stored, err := scanTrip(q.QueryRow(ctx, createSQL,
		t.ID, t.OwnerID, t.Destination, t.StartDate, t.EndDate, t.Budget, t.Travelers,
		t.Accommodation, t.Transportation, dna, itinerary,
		t.Counters.TotalActivities, t.Counters.CompletedActivities, t.Counters.SkippedActivities, t.Counters.AlternativesRequested,
		string(t.Status), string(t.GeneratorTag), t.CreatedAt, t.UpdatedAt, t.StartedAt, t.CompletedAt,
	))
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, postgres.MapError(err, "trip", t.ID)
	}

	existing, err := r.getOne(ctx, getByNaturalKeySQL, t.OwnerID, t.Destination, t.StartDate, t.EndDate)
	if err != nil {
		return nil, false, fmt.Errorf("load duplicate trip: %w", err)
	}
	return existing, false, nil
}

const updateSQL = `
UPDATE trips SET
	itinerary = $2,
	total_activities = $3, completed_activities = $4, skipped_activities = $5, alternatives_requested = $6,
	status = $7, updated_at = $8, started_at = $9, completed_at = $10
WHERE id = $1`

// Update persists the mutable state of a trip: itinerary, counters,
// status and lifecycle timestamps.
func (r *Repo) Update(ctx context.Context, t *domain.Trip) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	itinerary, err := json.Marshal(t.Itinerary)
	if err != nil {
		return fmt.Errorf("encode itinerary: %w", err)
	}

	tag, err := q.Exec(ctx, updateSQL,
		t.ID, itinerary,
		t.Counters.TotalActivities, t.Counters.CompletedActivities, t.Counters.SkippedActivities, t.Counters.AlternativesRequested,
		string(t.Status), t.UpdatedAt, t.StartedAt, t.CompletedAt,
	)
	if err != nil {
		return postgres.MapError(err, "trip", t.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func encodeDocuments(t *domain.Trip) (dna, itinerary []byte, err error) {
	if dna, err = json.Marshal(t.DNA); err != nil {
		return nil, nil, fmt.Errorf("encode dna snapshot: %w", err)
	}
	if itinerary, err = json.Marshal(t.Itinerary); err != nil {
		return nil, nil, fmt.Errorf("encode itinerary: %w", err)
	}
	return dna, itinerary, nil
}

func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trips: %w", err)
	}
	return trips, nil
}

func scanTrip(row pgx.Row) (*domain.Trip, error) {
	var (
		t              domain.Trip
		dna, itinerary []byte
		status, tag    string
		startedAt      *time.Time
		completedAt    *time.Time
	)
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Destination, &t.StartDate, &t.EndDate, &t.Budget, &t.Travelers,
		&t.Accommodation, &t.Transportation, &dna, &itinerary,
		&t.Counters.TotalActivities, &t.Counters.CompletedActivities, &t.Counters.SkippedActivities, &t.Counters.AlternativesRequested,
		&status, &tag, &t.CreatedAt, &t.UpdatedAt, &startedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(dna, &t.DNA); err != nil {
		return nil, fmt.Errorf("decode dna snapshot: %w", err)
	}
	if err := json.Unmarshal(itinerary, &t.Itinerary); err != nil {
		return nil, fmt.Errorf("decode itinerary: %w", err)
	}
	t.Status = domain.TripStatus(status)
	t.GeneratorTag = domain.GeneratorTag(tag)
	t.StartedAt = startedAt
	t.CompletedAt = completedAt

	return &t, nil
}
