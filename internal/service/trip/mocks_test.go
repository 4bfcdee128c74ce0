package trip

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/internal/service/dna"
)

// ---------------------------------------------------------------------------
// tripStore: in-memory tripRepo keyed like the trips table
// ---------------------------------------------------------------------------

type tripStore struct {
	mu         sync.Mutex
	trips      map[uuid.UUID]domain.Trip
	updates    int
	lastLimit  int
	updateErr  error
	lastFilter string
}

var _ tripRepo = (*tripStore)(nil)

func newTripStore(seed ...domain.Trip) *tripStore {
	s := &tripStore{trips: map[uuid.UUID]domain.Trip{}}
	for _, t := range seed {
		s.trips[t.ID] = t
	}
	return s
}

func (s *tripStore) get(id uuid.UUID) (*domain.Trip, error) {
	t, ok := s.trips[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Itinerary = t.Itinerary.Clone()
	return &t, nil
}

func (s *tripStore) GetByID(_ context.Context, ownerID, tripID uuid.UUID) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil || t.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (s *tripStore) GetByIDForUpdate(ctx context.Context, ownerID, tripID uuid.UUID) (*domain.Trip, error) {
	return s.GetByID(ctx, ownerID, tripID)
}

func (s *tripStore) GetAnyOwner(_ context.Context, tripID uuid.UUID) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(tripID)
}

func (s *tripStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Trip
	for _, t := range s.trips {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *tripStore) ListPreplanned(_ context.Context, destination string, limit int) ([]domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	s.lastFilter = destination
	var out []domain.Trip
	for _, t := range s.trips {
		if t.Status == domain.TripStatusPlanned && len(out) < limit {
			t.Itinerary = t.Itinerary.Clone()
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *tripStore) Create(_ context.Context, t *domain.Trip) (*domain.Trip, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.trips {
		if existing.OwnerID == t.OwnerID && existing.Destination == t.Destination &&
			existing.StartDate.Equal(t.StartDate) && existing.EndDate.Equal(t.EndDate) {
			return &existing, false, nil
		}
	}
	stored := *t
	stored.Itinerary = t.Itinerary.Clone()
	s.trips[t.ID] = stored
	out := *t
	return &out, true, nil
}

func (s *tripStore) Update(_ context.Context, t *domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.trips[t.ID]; !ok {
		return domain.ErrNotFound
	}
	s.updates++
	stored := *t
	stored.Itinerary = t.Itinerary.Clone()
	s.trips[t.ID] = stored
	return nil
}

func (s *tripStore) stored(id uuid.UUID) domain.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trips[id]
}

// ---------------------------------------------------------------------------
// dnaServiceMock
// ---------------------------------------------------------------------------

type dnaServiceMock struct {
	mu          sync.Mutex
	feedback    []dna.FeedbackInput
	transitions []domain.TripTransition
	syncs       int
	err         error
}

func (m *dnaServiceMock) ApplyFeedback(_ context.Context, input dna.FeedbackInput) (*domain.DNAProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = append(m.feedback, input)
	return &domain.DNAProfile{}, m.err
}

func (m *dnaServiceMock) UpdateTripStats(_ context.Context, tr domain.TripTransition) (*domain.DNAProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, tr)
	return &domain.DNAProfile{}, m.err
}

func (m *dnaServiceMock) SyncTripStats(context.Context) (*domain.DNAProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs++
	return &domain.DNAProfile{}, m.err
}

func (m *dnaServiceMock) FeedbackCalls() []dna.FeedbackInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dna.FeedbackInput(nil), m.feedback...)
}

func (m *dnaServiceMock) TransitionCalls() []domain.TripTransition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TripTransition(nil), m.transitions...)
}

// ---------------------------------------------------------------------------
// Small stubs
// ---------------------------------------------------------------------------

type proposerStub struct{}

func (proposerStub) ProposeAlternative(destination string, a domain.Activity) domain.Activity {
	return domain.Activity{
		ID: a.ID, Name: "Alternative in " + destination, Location: a.Location,
		Category: domain.CategoryFoodie, Cost: 9, Time: a.Time, Duration: a.Duration,
		Status: domain.ActivityStatusActive,
	}
}

type txPassThrough struct{}

func (txPassThrough) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type enricherMock struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (m *enricherMock) EnrichDay(_ context.Context, _ string, day domain.DayPlan) (json.RawMessage, json.RawMessage, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.fail {
		return nil, nil, errors.New("weather api down")
	}
	return json.RawMessage(`{"forecast":"sunny"}`), json.RawMessage(`{"date":"` + day.Date + `"}`), nil
}

func (m *enricherMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
