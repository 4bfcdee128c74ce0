package domain

// Category is one of the four preference axes of a traveler's DNA.
type Category string

const (
	CategoryAdventure  Category = "adventure"
	CategoryCulture    Category = "culture"
	CategoryFoodie     Category = "foodie"
	CategoryRelaxation Category = "relaxation"
)

// Categories lists every category in canonical order. The order doubles as
// the tie-break order when ranking scores.
var Categories = [...]Category{
	CategoryAdventure,
	CategoryCulture,
	CategoryFoodie,
	CategoryRelaxation,
}

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryAdventure, CategoryCulture, CategoryFoodie, CategoryRelaxation:
		return true
	}
	return false
}

// FeedbackAction is a behavioural signal about a single activity.
type FeedbackAction string

const (
	FeedbackCompleted            FeedbackAction = "completed"
	FeedbackSkipped              FeedbackAction = "skipped"
	FeedbackAlternativeRequested FeedbackAction = "alternative_requested"
)

func (a FeedbackAction) String() string { return string(a) }

func (a FeedbackAction) IsValid() bool {
	switch a {
	case FeedbackCompleted, FeedbackSkipped, FeedbackAlternativeRequested:
		return true
	}
	return false
}

// BudgetTier is the spending level derived from the quiz budget slider.
type BudgetTier string

const (
	BudgetTierBudget   BudgetTier = "budget"
	BudgetTierMidRange BudgetTier = "mid-range"
	BudgetTierLuxury   BudgetTier = "luxury"
)

func (b BudgetTier) String() string { return string(b) }

func (b BudgetTier) IsValid() bool {
	switch b {
	case BudgetTierBudget, BudgetTierMidRange, BudgetTierLuxury:
		return true
	}
	return false
}

// PaceTier is the preferred daily rhythm chosen in the quiz.
type PaceTier string

const (
	PaceSlow     PaceTier = "slow"
	PaceModerate PaceTier = "moderate"
	PaceFast     PaceTier = "fast"
)

func (p PaceTier) String() string { return string(p) }

func (p PaceTier) IsValid() bool {
	switch p {
	case PaceSlow, PaceModerate, PaceFast:
		return true
	}
	return false
}

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripStatusPlanned   TripStatus = "planned"
	TripStatusOngoing   TripStatus = "ongoing"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

func (s TripStatus) String() string { return string(s) }

func (s TripStatus) IsValid() bool {
	switch s {
	case TripStatusPlanned, TripStatusOngoing, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is allowed.
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// ActivityStatus is the progress state of a single itinerary activity.
type ActivityStatus string

const (
	ActivityStatusActive  ActivityStatus = "active"
	ActivityStatusDone    ActivityStatus = "done"
	ActivityStatusSkipped ActivityStatus = "skipped"
)

func (s ActivityStatus) String() string { return string(s) }

func (s ActivityStatus) IsValid() bool {
	switch s {
	case ActivityStatusActive, ActivityStatusDone, ActivityStatusSkipped:
		return true
	}
	return false
}

// GeneratorTag records which generator produced an itinerary.
type GeneratorTag string

const (
	GeneratorAI   GeneratorTag = "ai"
	GeneratorMock GeneratorTag = "mock"
)

func (g GeneratorTag) String() string { return string(g) }

func (g GeneratorTag) IsValid() bool {
	return g == GeneratorAI || g == GeneratorMock
}

// TimeSlot is one of the three daily activity slots.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

func (s TimeSlot) String() string { return string(s) }

// TravelStyle is the derived personality label of a profile.
type TravelStyle string

const (
	TravelStyleExplorer          TravelStyle = "explorer"
	TravelStyleCulturalImmersion TravelStyle = "cultural_immersion"
	TravelStyleFoodieAdventure   TravelStyle = "foodie_adventure"
	TravelStyleRelaxationSeeker  TravelStyle = "relaxation_seeker"
	TravelStyleBalanced          TravelStyle = "balanced_traveler"
)

func (t TravelStyle) String() string { return string(t) }
