package dna

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

var (
	_ profileRepo = &profileRepoMock{}
	_ tripCounter = &tripCounterMock{}
	_ txManager   = &txManagerMock{}
)

type profileRepoMock struct {
	GetByOwnerFunc          func(ctx context.Context, ownerID uuid.UUID) (*domain.DNAProfile, error)
	GetByOwnerForUpdateFunc func(ctx context.Context, ownerID uuid.UUID) (*domain.DNAProfile, error)
	CreateFunc              func(ctx context.Context, p *domain.DNAProfile) (*domain.DNAProfile, error)
	UpdateFunc              func(ctx context.Context, p *domain.DNAProfile) error
	AppendEventFunc         func(ctx context.Context, e domain.EvolutionEvent) error
	ListEventsFunc          func(ctx context.Context, profileID uuid.UUID, limit int) ([]domain.EvolutionEvent, error)

	mu      sync.Mutex
	updates []domain.DNAProfile
	events  []domain.EvolutionEvent
	creates []domain.DNAProfile
}

func (m *profileRepoMock) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.DNAProfile, error) {
	return m.GetByOwnerFunc(ctx, ownerID)
}

func (m *profileRepoMock) GetByOwnerForUpdate(ctx context.Context, ownerID uuid.UUID) (*domain.DNAProfile, error) {
	return m.GetByOwnerForUpdateFunc(ctx, ownerID)
}

func (m *profileRepoMock) Create(ctx context.Context, p *domain.DNAProfile) (*domain.DNAProfile, error) {
	m.mu.Lock()
	m.creates = append(m.creates, *p)
	m.mu.Unlock()
	if m.CreateFunc == nil {
		out := *p
		return &out, nil
	}
	return m.CreateFunc(ctx, p)
}

func (m *profileRepoMock) Update(ctx context.Context, p *domain.DNAProfile) error {
	m.mu.Lock()
	m.updates = append(m.updates, *p)
	m.mu.Unlock()
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, p)
}

func (m *profileRepoMock) AppendEvent(ctx context.Context, e domain.EvolutionEvent) error {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
	if m.AppendEventFunc == nil {
		return nil
	}
	return m.AppendEventFunc(ctx, e)
}

func (m *profileRepoMock) ListEvents(ctx context.Context, profileID uuid.UUID, limit int) ([]domain.EvolutionEvent, error) {
	return m.ListEventsFunc(ctx, profileID, limit)
}

func (m *profileRepoMock) UpdateCalls() []domain.DNAProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.DNAProfile(nil), m.updates...)
}

func (m *profileRepoMock) AppendEventCalls() []domain.EvolutionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.EvolutionEvent(nil), m.events...)
}

func (m *profileRepoMock) CreateCalls() []domain.DNAProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.DNAProfile(nil), m.creates...)
}

type tripCounterMock struct {
	CountByStatusFunc func(ctx context.Context, ownerID uuid.UUID) (domain.TripStatusCounts, error)
}

func (m *tripCounterMock) CountByStatus(ctx context.Context, ownerID uuid.UUID) (domain.TripStatusCounts, error) {
	return m.CountByStatusFunc(ctx, ownerID)
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	mu    sync.Mutex
	calls int
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	// Default: pass-through (no real transaction).
	return fn(ctx)
}

func (m *txManagerMock) RunInTxCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
