// Package trip manages persisted trips and the per-activity state machine,
// feeding progress back into the traveler's DNA.
package trip

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/config"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/internal/service/dna"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type tripRepo interface {
	GetByID(ctx context.Context, ownerID, tripID uuid.UUID) (*domain.Trip, error)
	GetByIDForUpdate(ctx context.Context, ownerID, tripID uuid.UUID) (*domain.Trip, error)
	GetAnyOwner(ctx context.Context, tripID uuid.UUID) (*domain.Trip, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error)
	ListPreplanned(ctx context.Context, destination string, limit int) ([]domain.Trip, error)
	Create(ctx context.Context, t *domain.Trip) (*domain.Trip, bool, error)
	Update(ctx context.Context, t *domain.Trip) error
}

type dnaService interface {
	ApplyFeedback(ctx context.Context, input dna.FeedbackInput) (*domain.DNAProfile, error)
	UpdateTripStats(ctx context.Context, transition domain.TripTransition) (*domain.DNAProfile, error)
	SyncTripStats(ctx context.Context) (*domain.DNAProfile, error)
}

type alternativeProposer interface {
	ProposeAlternative(destination string, a domain.Activity) domain.Activity
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

const (
	DefaultPreplannedLimit = 50
	MaxPreplannedLimit     = 100
)

// Service owns trips.
type Service struct {
	trips    tripRepo
	dna      dnaService
	proposer alternativeProposer
	tx       txManager
	enrich   *enrichment
	log      *slog.Logger
}

// NewService creates a trip service. enricher may be nil.
func NewService(
	log *slog.Logger,
	trips tripRepo,
	dna dnaService,
	proposer alternativeProposer,
	tx txManager,
	enricher Enricher,
	cfg config.EnrichmentConfig,
) *Service {
	log = log.With("service", "trip")
	return &Service{
		trips:    trips,
		dna:      dna,
		proposer: proposer,
		tx:       tx,
		enrich:   newEnrichment(log, enricher, cfg),
		log:      log,
	}
}
