// Package itinerarycache implements the itinerary cache on Redis.
//
// Each entry is a hash at <prefix>:<owner>:<fingerprint> that expires at
// created_at + ttl, so Redis drops stale entries without a reaper.
package itinerarycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

const (
	fieldID             = "id"
	fieldDestination    = "destination"
	fieldDNA            = "dna"
	fieldParams         = "params"
	fieldPayload        = "payload"
	fieldGeneratorTag   = "generator_tag"
	fieldCreatedAt      = "created_at"
	fieldLastAccessedAt = "last_accessed_at"
	fieldAccessCount    = "access_count"

	maxTouchRetries = 3
	scanBatch       = 100
)

// Store keeps cache entries in Redis hashes.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a Redis-backed cache store.
func New(client *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(ownerID uuid.UUID, fingerprint string) string {
	return s.prefix + ":" + ownerID.String() + ":" + fingerprint
}

func (s *Store) ownerPattern(ownerID uuid.UUID) string {
	return s.prefix + ":" + ownerID.String() + ":*"
}

// Touch returns the live entry and bumps its access counters atomically.
// The hash is watched so a concurrent overwrite aborts the bump.
func (s *Store) Touch(ctx context.Context, ownerID uuid.UUID, fingerprint string, notAfter, now time.Time) (*domain.CacheEntry, error) {
	key := s.key(ownerID, fingerprint)

	var entry *domain.CacheEntry
	touch := func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return redis.Nil
		}

		e, err := decodeEntry(ownerID, fingerprint, fields)
		if err != nil {
			return err
		}
		if !e.CreatedAt.After(notAfter) {
			return redis.Nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HIncrBy(ctx, key, fieldAccessCount, 1)
			pipe.HSet(ctx, key, fieldLastAccessedAt, now.UTC().Format(time.RFC3339Nano))
			return nil
		})
		if err != nil {
			return err
		}

		e.AccessCount++
		e.LastAccessedAt = now
		entry = e
		return nil
	}

	for range maxTouchRetries {
		err := s.client.Watch(ctx, touch, key)
		switch {
		case err == nil:
			return entry, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, redis.Nil):
			return nil, fmt.Errorf("itinerary_cache %s: %w", fingerprint, domain.ErrNotFound)
		default:
			return nil, fmt.Errorf("touch itinerary_cache: %w", err)
		}
	}
	return nil, fmt.Errorf("touch itinerary_cache %s: %w", fingerprint, domain.ErrConflict)
}

// Upsert replaces the entry for (owner, fingerprint) in one MULTI block.
func (s *Store) Upsert(ctx context.Context, e *domain.CacheEntry) (*domain.CacheEntry, error) {
	key := s.key(e.OwnerID, e.Fingerprint)

	fields, err := encodeEntry(e)
	if err != nil {
		return nil, err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		pipe.ExpireAt(ctx, key, e.CreatedAt.Add(s.ttl))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store itinerary_cache: %w", err)
	}

	stored := *e
	stored.LastAccessedAt = e.CreatedAt
	stored.AccessCount = 1
	return &stored, nil
}

// DeleteByOwner removes an owner's entries, optionally only those for one
// destination compared by normalized text.
func (s *Store) DeleteByOwner(ctx context.Context, ownerID uuid.UUID, destination string) (int, error) {
	want := domain.NormalizeText(destination)
	return s.deleteMatching(ctx, s.ownerPattern(ownerID), func(fields []any) bool {
		if want == "" {
			return true
		}
		dest, _ := fields[0].(string)
		return domain.NormalizeText(dest) == want
	})
}

// DeleteExpired removes entries created at or before cutoff. Redis expiry
// normally gets there first; this covers keys whose TTL was changed by hand.
func (s *Store) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	return s.deleteMatching(ctx, s.prefix+":*", func(fields []any) bool {
		created, err := parseTime(fields[1])
		return err == nil && !created.After(cutoff)
	})
}

func (s *Store) deleteMatching(ctx context.Context, pattern string, match func(fields []any) bool) (int, error) {
	var doomed []string
	iter := s.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := s.client.HMGet(ctx, key, fieldDestination, fieldCreatedAt).Result()
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", key, err)
		}
		if match(fields) {
			doomed = append(doomed, key)
		}
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan itinerary_cache: %w", err)
	}
	if len(doomed) == 0 {
		return 0, nil
	}

	n, err := s.client.Del(ctx, doomed...).Result()
	if err != nil {
		return 0, fmt.Errorf("delete itinerary_cache: %w", err)
	}
	return int(n), nil
}

// Stats summarizes an owner's live entries.
func (s *Store) Stats(ctx context.Context, ownerID uuid.UUID, notAfter time.Time) (domain.CacheStats, error) {
	var stats domain.CacheStats
	destinations := make(map[string]struct{})

	iter := s.client.Scan(ctx, 0, s.ownerPattern(ownerID), scanBatch).Iterator()
	for iter.Next(ctx) {
		fields, err := s.client.HMGet(ctx, iter.Val(), fieldDestination, fieldCreatedAt, fieldAccessCount).Result()
		if err != nil {
			return domain.CacheStats{}, fmt.Errorf("read %s: %w", iter.Val(), err)
		}
		created, err := parseTime(fields[1])
		if err != nil || !created.After(notAfter) {
			continue
		}
		dest, _ := fields[0].(string)
		count, _ := fields[2].(string)
		n, _ := strconv.Atoi(count)

		stats.Entries++
		stats.TotalAccess += n
		destinations[domain.NormalizeText(dest)] = struct{}{}
	}
	if err := iter.Err(); err != nil {
		return domain.CacheStats{}, fmt.Errorf("scan itinerary_cache: %w", err)
	}
	stats.Destinations = len(destinations)
	return stats, nil
}

// ---------------------------------------------------------------------------
// Hash mapping
// ---------------------------------------------------------------------------

func encodeEntry(e *domain.CacheEntry) (map[string]any, error) {
	dna, err := json.Marshal(e.DNA)
	if err != nil {
		return nil, fmt.Errorf("encode dna snapshot: %w", err)
	}
	params, err := json.Marshal(e.Params)
	if err != nil {
		return nil, fmt.Errorf("encode trip params: %w", err)
	}
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	created := e.CreatedAt.UTC().Format(time.RFC3339Nano)
	return map[string]any{
		fieldID:             e.ID.String(),
		fieldDestination:    e.Destination,
		fieldDNA:            string(dna),
		fieldParams:         string(params),
		fieldPayload:        string(payload),
		fieldGeneratorTag:   string(e.GeneratorTag),
		fieldCreatedAt:      created,
		fieldLastAccessedAt: created,
		fieldAccessCount:    1,
	}, nil
}

func decodeEntry(ownerID uuid.UUID, fingerprint string, fields map[string]string) (*domain.CacheEntry, error) {
	e := domain.CacheEntry{
		OwnerID:      ownerID,
		Fingerprint:  fingerprint,
		Destination:  fields[fieldDestination],
		GeneratorTag: domain.GeneratorTag(fields[fieldGeneratorTag]),
	}

	var err error
	if e.ID, err = uuid.Parse(fields[fieldID]); err != nil {
		return nil, fmt.Errorf("decode id: %w", err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, fields[fieldCreatedAt]); err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	if e.LastAccessedAt, err = time.Parse(time.RFC3339Nano, fields[fieldLastAccessedAt]); err != nil {
		return nil, fmt.Errorf("decode last_accessed_at: %w", err)
	}
	if e.AccessCount, err = strconv.Atoi(fields[fieldAccessCount]); err != nil {
		return nil, fmt.Errorf("decode access_count: %w", err)
	}
	if err := json.Unmarshal([]byte(fields[fieldDNA]), &e.DNA); err != nil {
		return nil, fmt.Errorf("decode dna snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(fields[fieldParams]), &e.Params); err != nil {
		return nil, fmt.Errorf("decode trip params: %w", err)
	}
	if err := json.Unmarshal([]byte(fields[fieldPayload]), &e.Payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &e, nil
}

func parseTime(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, errors.New("missing timestamp")
	}
	return time.Parse(time.RFC3339Nano, s)
}
