package itinerarycache

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/pkg/ctxutil"
)

// GenerateFunc produces a fresh itinerary on a cache miss.
type GenerateFunc func(ctx context.Context) (*domain.Itinerary, domain.GeneratorTag, error)

// Result is what GetOrGenerate hands back.
type Result struct {
	Entry *domain.CacheEntry
	Hit   bool
}

// GetOrGenerate serves req from the caller's cache or runs gen and stores
// its output. Concurrent misses for the same (owner, fingerprint) in this
// process share a single gen run, which is not cancelled when the caller
// that started it goes away.
func (s *Service) GetOrGenerate(ctx context.Context, req domain.GenerateRequest, gen GenerateFunc) (*Result, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	fp := FingerprintOf(req)

	entry, err := s.lookup(ctx, ownerID, fp)
	switch {
	case err == nil:
		return &Result{Entry: entry, Hit: true}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	key := ownerID.String() + "/" + fp
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.flight.Do(key, func() (any, error) {
		itinerary, tag, err := gen(shared)
		if err != nil {
			return nil, fmt.Errorf("generate itinerary: %w", err)
		}
		return s.put(shared, ownerID, StoreInput{
			Destination:  req.Destination,
			DNA:          req.DNA,
			Params:       req.Params(),
			Payload:      *itinerary,
			GeneratorTag: tag,
		})
	})
	if err != nil {
		return nil, err
	}
	return &Result{Entry: v.(*domain.CacheEntry)}, nil
}
