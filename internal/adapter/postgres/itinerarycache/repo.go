// Package itinerarycache implements the itinerary cache repository using PostgreSQL.
// Entries are unique per (owner_id, fingerprint); expiry is driven by created_at.
// destination_key holds domain.NormalizeText(destination) for filtering.
package itinerarycache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/intellitrip-backend/internal/adapter/postgres"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// Repo provides itinerary cache persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new itinerary cache repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

const table = "itinerary_cache"

const entryColumns = `id, owner_id, fingerprint, destination, dna, params, payload,
	generator_tag, created_at, last_accessed_at, access_count`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const touchSQL = `
UPDATE itinerary_cache
SET access_count = access_count + 1, last_accessed_at = $4
WHERE owner_id = $1 AND fingerprint = $2 AND created_at > $3
RETURNING ` + entryColumns

// Touch returns the live entry for (ownerID, fingerprint) and records the
// access in the same statement. Entries created at or before notAfter are
// treated as absent. Returns domain.ErrNotFound on a miss.
func (r *Repo) Touch(ctx context.Context, ownerID uuid.UUID, fingerprint string, notAfter, now time.Time) (*domain.CacheEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	e, err := scanEntry(q.QueryRow(ctx, touchSQL, ownerID, fingerprint, notAfter, now))
	if err != nil {
		return nil, postgres.MapError(err, table, fingerprint)
	}
	return e, nil
}

const statsSQL = `
SELECT count(*), count(DISTINCT destination_key), COALESCE(sum(access_count), 0)
FROM itinerary_cache
WHERE owner_id = $1 AND created_at > $2`

// Stats summarizes the live entries of an owner.
func (r *Repo) Stats(ctx context.Context, ownerID uuid.UUID, notAfter time.Time) (domain.CacheStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.CacheStats
	var total int64
	if err := q.QueryRow(ctx, statsSQL, ownerID, notAfter).Scan(&s.Entries, &s.Destinations, &total); err != nil {
		return domain.CacheStats{}, postgres.MapError(err, table, ownerID)
	}
	s.TotalAccess = int(total)
	return s, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const upsertSQL = `
INSERT INTO itinerary_cache (` + entryColumns + `, destination_key)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, 1, $10)
ON CONFLICT (owner_id, fingerprint) DO UPDATE SET
	destination      = EXCLUDED.destination,
	destination_key  = EXCLUDED.destination_key,
	dna              = EXCLUDED.dna,
	params           = EXCLUDED.params,
	payload          = EXCLUDED.payload,
	generator_tag    = EXCLUDED.generator_tag,
	created_at       = EXCLUDED.created_at,
	last_accessed_at = EXCLUDED.last_accessed_at,
	access_count     = 1
RETURNING ` + entryColumns

// Upsert stores an entry, replacing any existing one for the same
// (owner, fingerprint) in a single statement. The stored entry starts with
// access_count = 1 and last_accessed_at = created_at.
func (r *Repo) Upsert(ctx context.Context, e *domain.CacheEntry) (*domain.CacheEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	dna, params, payload, err := encodeDocuments(e)
	if err != nil {
		return nil, err
	}

	stored, err := scanEntry(q.QueryRow(ctx, upsertSQL,
		e.ID, e.OwnerID, e.Fingerprint, e.Destination, dna, params, payload,
		string(e.GeneratorTag), e.CreatedAt, domain.NormalizeText(e.Destination),
	))
	if err != nil {
		return nil, postgres.MapError(err, table, e.Fingerprint)
	}
	return stored, nil
}

// DeleteByOwner removes an owner's entries, optionally only those for one
// destination compared by normalized text. Returns the number of removed entries.
func (r *Repo) DeleteByOwner(ctx context.Context, ownerID uuid.UUID, destination string) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	del := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"owner_id": ownerID})
	if destination != "" {
		del = del.Where(squirrel.Eq{"destination_key": domain.NormalizeText(destination)})
	}

	sql, args, err := del.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete %s: %w", table, err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, table, ownerID)
	}
	return int(tag.RowsAffected()), nil
}

const deleteExpiredSQL = `DELETE FROM itinerary_cache WHERE created_at <= $1`

// DeleteExpired removes every entry created at or before cutoff, regardless
// of how recently it was accessed.
func (r *Repo) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteExpiredSQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired %s: %w", table, err)
	}
	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func encodeDocuments(e *domain.CacheEntry) (dna, params, payload []byte, err error) {
	if dna, err = json.Marshal(e.DNA); err != nil {
		return nil, nil, nil, fmt.Errorf("encode dna snapshot: %w", err)
	}
	if params, err = json.Marshal(e.Params); err != nil {
		return nil, nil, nil, fmt.Errorf("encode trip params: %w", err)
	}
	if payload, err = json.Marshal(e.Payload); err != nil {
		return nil, nil, nil, fmt.Errorf("encode payload: %w", err)
	}
	return dna, params, payload, nil
}

func scanEntry(row pgx.Row) (*domain.CacheEntry, error) {
	var (
		e                    domain.CacheEntry
		dna, params, payload []byte
		tag                  string
	)
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Fingerprint, &e.Destination, &dna, &params, &payload,
		&tag, &e.CreatedAt, &e.LastAccessedAt, &e.AccessCount,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(dna, &e.DNA); err != nil {
		return nil, fmt.Errorf("decode dna snapshot: %w", err)
	}
	if err := json.Unmarshal(params, &e.Params); err != nil {
		return nil, fmt.Errorf("decode trip params: %w", err)
	}
	if err := json.Unmarshal(payload, &e.Payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	e.GeneratorTag = domain.GeneratorTag(tag)

	return &e, nil
}
