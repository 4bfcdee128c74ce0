package itinerarycache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/adapter/postgres/itinerarycache"
	"github.com/heartmarshall/intellitrip-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

func newEntry(owner uuid.UUID, fingerprint, destination string, createdAt time.Time) *domain.CacheEntry {
	return &domain.CacheEntry{
		ID:          uuid.New(),
		OwnerID:     owner,
		Fingerprint: fingerprint,
		Destination: destination,
		DNA:         domain.DNASnapshot{Adventure: 5, Culture: 5, Foodie: 5, Budget: 0.5, Pace: domain.PaceModerate},
		Params:      domain.TripParams{Travelers: 1, Duration: 1},
		Payload: domain.Itinerary{
			Destination: destination,
			TotalDays:   1,
			Days:        []domain.DayPlan{{Day: 1, Date: "2026-08-01"}},
		},
		GeneratorTag: domain.GeneratorMock,
		CreatedAt:    createdAt,
	}
}

func TestRepo_UpsertTouchLifecycle(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := itinerarycache.New(pool)
	ctx := context.Background()

	owner := uuid.New()
	created := time.Now().UTC().Truncate(time.Microsecond)
	cutoff := created.Add(-domain.DefaultCacheTTL)

	if _, err := repo.Upsert(ctx, newEntry(owner, "fp-1", "Paris", created)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	hit, err := repo.Touch(ctx, owner, "fp-1", cutoff, created.Add(time.Minute))
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if hit.AccessCount != 2 {
		t.Fatalf("AccessCount = %d, want 2", hit.AccessCount)
	}
	if !hit.CreatedAt.Equal(created) {
		t.Fatalf("Touch moved created_at: %v != %v", hit.CreatedAt, created)
	}

	// Overwrite resets counters and re-anchors TTL.
	later := created.Add(time.Hour)
	replacement := newEntry(owner, "fp-1", "Paris", later)
	replacement.GeneratorTag = domain.GeneratorAI
	stored, err := repo.Upsert(ctx, replacement)
	if err != nil {
		t.Fatalf("Upsert overwrite: %v", err)
	}
	if stored.AccessCount != 1 || !stored.CreatedAt.Equal(later) || stored.GeneratorTag != domain.GeneratorAI {
		t.Fatalf("unexpected overwritten entry: %+v", stored)
	}

	stats, err := repo.Stats(ctx, owner, cutoff)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 1 {
		t.Fatalf("Entries = %d, want 1 (one row per owner+fingerprint)", stats.Entries)
	}
}

func TestRepo_Touch_ExpiredIsMiss(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := itinerarycache.New(pool)
	ctx := context.Background()

	owner := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)
	old := now.Add(-domain.DefaultCacheTTL - time.Minute)

	if _, err := repo.Upsert(ctx, newEntry(owner, "fp-old", "Tokyo", old)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	_, err := repo.Touch(ctx, owner, "fp-old", now.Add(-domain.DefaultCacheTTL), now)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Touch expired = %v, want ErrNotFound", err)
	}

	n, err := repo.DeleteExpired(ctx, now.Add(-domain.DefaultCacheTTL))
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n < 1 {
		t.Fatalf("DeleteExpired removed %d rows, want >= 1", n)
	}
}

func TestRepo_DeleteByOwner_DestinationFilter(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := itinerarycache.New(pool)
	ctx := context.Background()

	owner := uuid.New()
	now := time.Now().UTC()
	for i, dest := range []string{"New  York", "new york", "Tokyo"} {
		if _, err := repo.Upsert(ctx, newEntry(owner, "fp-"+string(rune('a'+i)), dest, now)); err != nil {
			t.Fatalf("Upsert %s: %v", dest, err)
		}
	}

	n, err := repo.DeleteByOwner(ctx, owner, " NEW YORK ")
	if err != nil {
		t.Fatalf("DeleteByOwner: %v", err)
	}
	if n != 2 {
		t.Fatalf("deleted %d, want 2", n)
	}

	n, err = repo.DeleteByOwner(ctx, owner, "")
	if err != nil {
		t.Fatalf("DeleteByOwner all: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted %d, want 1", n)
	}
}
