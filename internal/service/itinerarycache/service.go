package itinerarycache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/intellitrip-backend/internal/config"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

// entryStore is satisfied by both the PostgreSQL repository and the Redis store.
type entryStore interface {
	Touch(ctx context.Context, ownerID uuid.UUID, fingerprint string, notAfter, now time.Time) (*domain.CacheEntry, error)
	Upsert(ctx context.Context, e *domain.CacheEntry) (*domain.CacheEntry, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID, destination string) (int, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
	Stats(ctx context.Context, ownerID uuid.UUID, notAfter time.Time) (domain.CacheStats, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service caches generated itineraries per owner under a fingerprint of
// everything that shaped them.
type Service struct {
	store  entryStore
	ttl    time.Duration
	log    *slog.Logger
	flight singleflight.Group
	now    func() time.Time
}

// NewService creates a new itinerary cache service.
func NewService(log *slog.Logger, store entryStore, cfg config.CacheConfig) *Service {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = domain.DefaultCacheTTL
	}
	return &Service{
		store: store,
		ttl:   ttl,
		log:   log.With("service", "itinerary_cache"),
		now:   time.Now,
	}
}

// TTL returns how long entries stay valid after they are stored.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// cutoff is the newest createdAt that is already expired at now.
func (s *Service) cutoff(now time.Time) time.Time {
	return now.Add(-s.ttl)
}
