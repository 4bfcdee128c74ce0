package dna

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/config"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type profileRepo interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.DNAProfile, error)
	GetByOwnerForUpdate(ctx context.Context, ownerID uuid.UUID) (*domain.DNAProfile, error)
	Create(ctx context.Context, p *domain.DNAProfile) (*domain.DNAProfile, error)
	Update(ctx context.Context, p *domain.DNAProfile) error
	AppendEvent(ctx context.Context, e domain.EvolutionEvent) error
	ListEvents(ctx context.Context, profileID uuid.UUID, limit int) ([]domain.EvolutionEvent, error)
}

type tripCounter interface {
	CountByStatus(ctx context.Context, ownerID uuid.UUID) (domain.TripStatusCounts, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// Service owns DNA profiles and evolves them from behavioural feedback.
type Service struct {
	profiles profileRepo
	trips    tripCounter
	tx       txManager
	rules    Rules
	log      *slog.Logger
}

// NewService creates a new DNA service.
func NewService(
	log *slog.Logger,
	profiles profileRepo,
	trips tripCounter,
	tx txManager,
	evo config.EvolutionConfig,
	quiz config.QuizConfig,
) *Service {
	return &Service{
		profiles: profiles,
		trips:    trips,
		tx:       tx,
		rules:    RulesFromConfig(evo, quiz),
		log:      log.With("service", "dna"),
	}
}
