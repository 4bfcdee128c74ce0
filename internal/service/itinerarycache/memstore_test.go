package itinerarycache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// memStore is an in-memory entryStore with the same expiry contract as the
// real backends.
type memStore struct {
	mu      sync.Mutex
	entries map[string]domain.CacheEntry

	touchErr error
}

var _ entryStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]domain.CacheEntry)}
}

func memKey(ownerID uuid.UUID, fp string) string { return ownerID.String() + ":" + fp }

func (m *memStore) Touch(_ context.Context, ownerID uuid.UUID, fp string, notAfter, now time.Time) (*domain.CacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.touchErr != nil {
		return nil, m.touchErr
	}
	e, ok := m.entries[memKey(ownerID, fp)]
	if !ok || !e.CreatedAt.After(notAfter) {
		return nil, domain.ErrNotFound
	}
	e.AccessCount++
	e.LastAccessedAt = now
	m.entries[memKey(ownerID, fp)] = e
	return &e, nil
}

func (m *memStore) Upsert(_ context.Context, e *domain.CacheEntry) (*domain.CacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *e
	stored.AccessCount = 1
	stored.LastAccessedAt = e.CreatedAt
	m.entries[memKey(e.OwnerID, e.Fingerprint)] = stored
	return &stored, nil
}

func (m *memStore) DeleteByOwner(_ context.Context, ownerID uuid.UUID, destination string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.entries {
		if e.OwnerID != ownerID {
			continue
		}
		if destination != "" && domain.NormalizeText(e.Destination) != domain.NormalizeText(destination) {
			continue
		}
		delete(m.entries, k)
		n++
	}
	return n, nil
}

func (m *memStore) DeleteExpired(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.entries {
		if !e.CreatedAt.After(cutoff) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) Stats(_ context.Context, ownerID uuid.UUID, notAfter time.Time) (domain.CacheStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s domain.CacheStats
	dests := map[string]struct{}{}
	for _, e := range m.entries {
		if e.OwnerID != ownerID || !e.CreatedAt.After(notAfter) {
			continue
		}
		s.Entries++
		s.TotalAccess += e.AccessCount
		dests[domain.NormalizeText(e.Destination)] = struct{}{}
	}
	s.Destinations = len(dests)
	return s, nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
