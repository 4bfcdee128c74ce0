// Package planner turns a traveler's DNA and trip parameters into an
// itinerary, serving repeats from the itinerary cache.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/internal/metrics"
	"github.com/heartmarshall/intellitrip-backend/internal/service/itinerarycache"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type profileReader interface {
	GetProfile(ctx context.Context) (*domain.DNAProfile, error)
}

type itineraryCache interface {
	GetOrGenerate(ctx context.Context, req domain.GenerateRequest, gen itinerarycache.GenerateFunc) (*itinerarycache.Result, error)
}

type generator interface {
	Generate(ctx context.Context, req domain.GenerateRequest) (*domain.Itinerary, error)
	Tag() domain.GeneratorTag
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service plans itineraries.
type Service struct {
	profiles profileReader
	cache    itineraryCache
	ai       generator
	mock     *MockGenerator
	pools    poolSource
	picker   *Picker
	log      *slog.Logger
}

// NewService creates a planner. ai may be nil, in which case every plan is
// built by the catalog generator.
func NewService(
	log *slog.Logger,
	profiles profileReader,
	cache itineraryCache,
	pools poolSource,
	picker *Picker,
	ai generator,
) *Service {
	return &Service{
		profiles: profiles,
		cache:    cache,
		ai:       ai,
		mock:     NewMockGenerator(pools, picker),
		pools:    pools,
		picker:   picker,
		log:      log.With("service", "planner"),
	}
}

// Plan returns an itinerary for the caller. Identical requests from the
// same traveler are served from cache until the entry expires.
func (s *Service) Plan(ctx context.Context, input PlanInput) (*PlanResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	req := input.Request(profile)
	res, err := s.cache.GetOrGenerate(ctx, req, func(ctx context.Context) (*domain.Itinerary, domain.GeneratorTag, error) {
		return s.generate(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	it := res.Entry.Payload.Clone()
	it.RebaseDates(input.StartDate)

	s.log.InfoContext(ctx, "itinerary planned",
		slog.String("owner_id", profile.OwnerID.String()),
		slog.String("destination", input.Destination),
		slog.Int("days", it.TotalDays),
		slog.String("generator", res.Entry.GeneratorTag.String()),
		slog.Bool("cache_hit", res.Hit),
	)

	return &PlanResult{
		Itinerary:    it,
		DNA:          req.DNA,
		GeneratorTag: res.Entry.GeneratorTag,
		Fingerprint:  res.Entry.Fingerprint,
		CacheHit:     res.Hit,
	}, nil
}

// generate tries the AI generator first and falls back to the catalog on
// any failure.
func (s *Service) generate(ctx context.Context, req domain.GenerateRequest) (*domain.Itinerary, domain.GeneratorTag, error) {
	if s.ai != nil {
		it, err := s.ai.Generate(ctx, req)
		if err == nil {
			metrics.RecordGeneration(s.ai.Tag(), metrics.OutcomeSuccess)
			return it, s.ai.Tag(), nil
		}
		metrics.RecordGeneration(s.ai.Tag(), metrics.OutcomeFallback)
		s.log.WarnContext(ctx, "ai generation failed, using catalog",
			slog.String("destination", req.Destination),
			slog.String("error", err.Error()),
		)
	}

	it, err := s.mock.Generate(ctx, req)
	if err != nil {
		metrics.RecordGeneration(s.mock.Tag(), metrics.OutcomeError)
		return nil, "", err
	}
	metrics.RecordGeneration(s.mock.Tag(), metrics.OutcomeSuccess)
	return it, s.mock.Tag(), nil
}

// ProposeAlternative suggests a replacement activity at destination.
func (s *Service) ProposeAlternative(destination string, a domain.Activity) domain.Activity {
	pool, _ := s.pools.Pool(destination)
	return s.picker.ProposeAlternative(pool, a)
}
