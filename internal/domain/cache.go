package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCacheTTL is how long a cached itinerary stays valid after creation.
const DefaultCacheTTL = 7 * 24 * time.Hour

// DNASnapshot is the frozen part of a profile that shapes generation.
type DNASnapshot struct {
	Adventure float64  `json:"adventure"`
	Culture   float64  `json:"culture"`
	Foodie    float64  `json:"foodie"`
	Budget    float64  `json:"budget"`
	Pace      PaceTier `json:"pace"`
}

// TripParams are the non-DNA inputs that shape generation.
type TripParams struct {
	Accommodation  string `json:"accommodation"`
	Transportation string `json:"transportation"`
	Travelers      int    `json:"travelers"`
	Duration       int    `json:"duration"`
}

// CacheEntry is a stored itinerary keyed by (OwnerID, Fingerprint).
type CacheEntry struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Fingerprint    string
	Destination    string
	DNA            DNASnapshot
	Params         TripParams
	Payload        Itinerary
	GeneratorTag   GeneratorTag
	CreatedAt      time.Time
	LastAccessedAt time.Time
	AccessCount    int
}

// ExpiresAt returns the moment the entry stops being served.
func (e *CacheEntry) ExpiresAt(ttl time.Duration) time.Time {
	return e.CreatedAt.Add(ttl)
}

// IsExpired reports whether the entry is past its TTL at now.
// Access never extends the TTL; only CreatedAt matters.
func (e *CacheEntry) IsExpired(now time.Time, ttl time.Duration) bool {
	return !now.Before(e.ExpiresAt(ttl))
}

// CacheStats summarizes an owner's cached itineraries.
type CacheStats struct {
	Entries      int
	Destinations int
	TotalAccess  int
}
