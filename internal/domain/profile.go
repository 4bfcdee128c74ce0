package domain

import (
	"time"

	"github.com/google/uuid"
)

// Score bounds for every category.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// ClampScore keeps a score inside [MinScore, MaxScore].
func ClampScore(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// Scores holds one value per category. Used for current scores and for
// per-event delta vectors.
type Scores struct {
	Adventure  float64 `json:"adventure"`
	Culture    float64 `json:"culture"`
	Foodie     float64 `json:"foodie"`
	Relaxation float64 `json:"relaxation"`
}

// Get returns the value for a category. Unknown categories yield 0.
func (s Scores) Get(c Category) float64 {
	switch c {
	case CategoryAdventure:
		return s.Adventure
	case CategoryCulture:
		return s.Culture
	case CategoryFoodie:
		return s.Foodie
	case CategoryRelaxation:
		return s.Relaxation
	}
	return 0
}

// Set overwrites the value for a category. Unknown categories are ignored.
func (s *Scores) Set(c Category, v float64) {
	switch c {
	case CategoryAdventure:
		s.Adventure = v
	case CategoryCulture:
		s.Culture = v
	case CategoryFoodie:
		s.Foodie = v
	case CategoryRelaxation:
		s.Relaxation = v
	}
}

// CategoryCount is a non-negative tally per category.
type CategoryCount struct {
	Adventure  int `json:"adventure"`
	Culture    int `json:"culture"`
	Foodie     int `json:"foodie"`
	Relaxation int `json:"relaxation"`
}

func (c CategoryCount) Get(cat Category) int {
	switch cat {
	case CategoryAdventure:
		return c.Adventure
	case CategoryCulture:
		return c.Culture
	case CategoryFoodie:
		return c.Foodie
	case CategoryRelaxation:
		return c.Relaxation
	}
	return 0
}

// Inc adds one to the tally of a category.
func (c *CategoryCount) Inc(cat Category) {
	switch cat {
	case CategoryAdventure:
		c.Adventure++
	case CategoryCulture:
		c.Culture++
	case CategoryFoodie:
		c.Foodie++
	case CategoryRelaxation:
		c.Relaxation++
	}
}

// CategoryCounters tracks behavioural signals per category.
type CategoryCounters struct {
	Completed             CategoryCount `json:"completed"`
	Skipped               CategoryCount `json:"skipped"`
	AlternativesRequested CategoryCount `json:"alternativesRequested"`
}

// TripStats aggregates trip lifecycle and activity totals for a profile.
type TripStats struct {
	TotalTrips                 int `json:"totalTrips"`
	PlannedTrips               int `json:"plannedTrips"`
	OngoingTrips               int `json:"ongoingTrips"`
	CompletedTrips             int `json:"completedTrips"`
	TotalActivitiesCompleted   int `json:"totalActivitiesCompleted"`
	TotalActivitiesSkipped     int `json:"totalActivitiesSkipped"`
	TotalAlternativesRequested int `json:"totalAlternativesRequested"`
}

// Insights are derived from current scores and never set directly.
type Insights struct {
	DominantTrait Category
	TravelStyle   TravelStyle
	ProfileTitle  string
}

// InitialScores is the immutable snapshot of the quiz answers.
type InitialScores struct {
	Adventure  float64
	Culture    float64
	Foodie     float64
	Budget     float64
	BudgetTier BudgetTier
	Pace       PaceTier
}

// DNAProfile is a traveler's preference profile. One per owner.
type DNAProfile struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	InitialScores InitialScores
	CurrentScores Scores
	Counters      CategoryCounters
	TripStats     TripStats
	Insights      Insights
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Snapshot captures the profile values that shape a generated itinerary.
func (p *DNAProfile) Snapshot() DNASnapshot {
	return DNASnapshot{
		Adventure: p.CurrentScores.Adventure,
		Culture:   p.CurrentScores.Culture,
		Foodie:    p.CurrentScores.Foodie,
		Budget:    p.InitialScores.Budget,
		Pace:      p.InitialScores.Pace,
	}
}

// EvolutionEvent is an append-only record of a single score change.
type EvolutionEvent struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Action    FeedbackAction
	Category  Category
	Delta     Scores
	TripID    *uuid.UUID
	CreatedAt time.Time
}

// TripTransition names a lifecycle change that feeds profile trip stats.
type TripTransition string

const (
	TransitionToPlanned        TripTransition = "planned"
	TransitionPlannedToOngoing TripTransition = "planned_to_ongoing"
	TransitionOngoingToDone    TripTransition = "ongoing_to_completed"
)

func (t TripTransition) String() string { return string(t) }

// TripStatusCounts is the number of an owner's trips in each status.
type TripStatusCounts struct {
	Planned   int
	Ongoing   int
	Completed int
	Cancelled int
}
