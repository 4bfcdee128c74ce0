package itinerarycache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/internal/metrics"
	"github.com/heartmarshall/intellitrip-backend/pkg/ctxutil"
)

// Lookup returns the caller's live entry for fingerprint and records the
// access. Expired entries are misses. A miss is domain.ErrNotFound.
func (s *Service) Lookup(ctx context.Context, fingerprint string) (*domain.CacheEntry, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.lookup(ctx, ownerID, fingerprint)
}

func (s *Service) lookup(ctx context.Context, ownerID uuid.UUID, fingerprint string) (*domain.CacheEntry, error) {
	now := s.now()
	entry, err := s.store.Touch(ctx, ownerID, fingerprint, s.cutoff(now), now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.RecordCacheLookup(metrics.ResultMiss)
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("touch cache entry: %w", err)
	}

	metrics.RecordCacheLookup(metrics.ResultHit)
	s.log.DebugContext(ctx, "itinerary cache hit",
		slog.String("owner_id", ownerID.String()),
		slog.String("fingerprint", fingerprint),
		slog.Int("access_count", entry.AccessCount),
	)
	return entry, nil
}

// Store caches a generated itinerary for the caller, replacing any entry
// with the same fingerprint. The stored entry starts a fresh TTL.
func (s *Service) Store(ctx context.Context, input StoreInput) (*domain.CacheEntry, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.put(ctx, ownerID, input)
}

func (s *Service) put(ctx context.Context, ownerID uuid.UUID, input StoreInput) (*domain.CacheEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	fp := Fingerprint(input.Destination, input.DNA, input.Params)
	now := s.now()

	entry, err := s.store.Upsert(ctx, &domain.CacheEntry{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Fingerprint:    fp,
		Destination:    input.Destination,
		DNA:            input.DNA,
		Params:         input.Params,
		Payload:        input.Payload,
		GeneratorTag:   input.GeneratorTag,
		CreatedAt:      now,
		LastAccessedAt: now,
		AccessCount:    1,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert cache entry: %w", err)
	}

	metrics.RecordCacheStore()
	s.log.InfoContext(ctx, "itinerary cached",
		slog.String("owner_id", ownerID.String()),
		slog.String("destination", input.Destination),
		slog.String("generator", input.GeneratorTag.String()),
		slog.String("fingerprint", fp),
	)
	return entry, nil
}

// EvictAll removes the caller's entries, optionally only those for one
// destination, compared by normalized text. Returns the number removed.
func (s *Service) EvictAll(ctx context.Context, destination string) (int, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}

	n, err := s.store.DeleteByOwner(ctx, ownerID, destination)
	if err != nil {
		return 0, fmt.Errorf("evict cache entries: %w", err)
	}

	metrics.RecordCacheEvictions("clear", n)
	s.log.InfoContext(ctx, "itinerary cache cleared",
		slog.String("owner_id", ownerID.String()),
		slog.String("destination", destination),
		slog.Int("removed", n),
	)
	return n, nil
}

// Reap deletes every expired entry of every owner, whatever its access
// history. Returns the number removed.
func (s *Service) Reap(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpired(ctx, s.cutoff(s.now()))
	if err != nil {
		return 0, fmt.Errorf("reap cache entries: %w", err)
	}

	metrics.RecordCacheEvictions("ttl", n)
	s.log.InfoContext(ctx, "itinerary cache reaped", slog.Int("removed", n))
	return n, nil
}

// Stats summarizes the caller's live entries.
func (s *Service) Stats(ctx context.Context) (domain.CacheStats, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return domain.CacheStats{}, domain.ErrUnauthorized
	}

	stats, err := s.store.Stats(ctx, ownerID, s.cutoff(s.now()))
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}
