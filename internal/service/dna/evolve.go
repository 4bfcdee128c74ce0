package dna

import (
	"cmp"
	"math"
	"slices"

	"github.com/heartmarshall/intellitrip-backend/internal/config"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// Rules holds every tunable number of profile evolution. Pure value.
type Rules struct {
	CompletedDelta   float64
	SkippedDelta     float64
	AlternativeDelta float64
	BalancedGap      float64

	BudgetTierMax   float64
	MidRangeTierMax float64
	PaceRelaxation  map[domain.PaceTier]float64
}

// DefaultRules returns the stock evolution rules.
func DefaultRules() Rules {
	return Rules{
		CompletedDelta:   0.1,
		SkippedDelta:     -0.1,
		AlternativeDelta: -0.05,
		BalancedGap:      1.0,
		BudgetTierMax:    0.4,
		MidRangeTierMax:  0.8,
		PaceRelaxation: map[domain.PaceTier]float64{
			domain.PaceSlow:     0.9,
			domain.PaceModerate: 0.6,
			domain.PaceFast:     0.3,
		},
	}
}

// RulesFromConfig builds Rules from the evolution and quiz config sections.
func RulesFromConfig(evo config.EvolutionConfig, quiz config.QuizConfig) Rules {
	return Rules{
		CompletedDelta:   evo.CompletedDelta,
		SkippedDelta:     evo.SkippedDelta,
		AlternativeDelta: evo.AlternativeDelta,
		BalancedGap:      evo.BalancedGap,
		BudgetTierMax:    quiz.BudgetTierMax,
		MidRangeTierMax:  quiz.MidRangeTierMax,
		PaceRelaxation: map[domain.PaceTier]float64{
			domain.PaceSlow:     quiz.PaceSlow,
			domain.PaceModerate: quiz.PaceModerate,
			domain.PaceFast:     quiz.PaceFast,
		},
	}
}

// Delta returns the score change for a feedback action.
func (r Rules) Delta(action domain.FeedbackAction) float64 {
	switch action {
	case domain.FeedbackCompleted:
		return r.CompletedDelta
	case domain.FeedbackSkipped:
		return r.SkippedDelta
	case domain.FeedbackAlternativeRequested:
		return r.AlternativeDelta
	}
	return 0
}

// BudgetTierFor maps the raw quiz budget slider onto a tier.
func (r Rules) BudgetTierFor(budget float64) domain.BudgetTier {
	switch {
	case budget <= r.BudgetTierMax:
		return domain.BudgetTierBudget
	case budget <= r.MidRangeTierMax:
		return domain.BudgetTierMidRange
	default:
		return domain.BudgetTierLuxury
	}
}

// InitialProfile derives the quiz snapshot and starting scores from answers.
// Relaxation comes from the pace answer, not from any other axis.
func (r Rules) InitialProfile(q QuizInput) (domain.InitialScores, domain.Scores) {
	initial := domain.InitialScores{
		Adventure:  q.Adventure,
		Culture:    q.Culture,
		Foodie:     q.Foodie,
		Budget:     q.Budget,
		BudgetTier: r.BudgetTierFor(q.Budget),
		Pace:       q.Pace,
	}
	scores := domain.Scores{
		Adventure:  roundScore(q.Adventure * domain.MaxScore),
		Culture:    roundScore(q.Culture * domain.MaxScore),
		Foodie:     roundScore(q.Foodie * domain.MaxScore),
		Relaxation: roundScore(r.PaceRelaxation[q.Pace] * domain.MaxScore),
	}
	return initial, scores
}

// ApplyFeedback mutates p for one feedback signal and returns the
// per-category delta vector that was applied (zeros elsewhere).
func (r Rules) ApplyFeedback(p *domain.DNAProfile, category domain.Category, action domain.FeedbackAction) domain.Scores {
	d := r.Delta(action)

	var delta domain.Scores
	delta.Set(category, d)

	current := p.CurrentScores.Get(category)
	p.CurrentScores.Set(category, domain.ClampScore(roundScore(current+d)))

	switch action {
	case domain.FeedbackCompleted:
		p.Counters.Completed.Inc(category)
		p.TripStats.TotalActivitiesCompleted++
	case domain.FeedbackSkipped:
		p.Counters.Skipped.Inc(category)
		p.TripStats.TotalActivitiesSkipped++
	case domain.FeedbackAlternativeRequested:
		p.Counters.AlternativesRequested.Inc(category)
		p.TripStats.TotalAlternativesRequested++
	}

	p.Insights = ComputeInsights(p.CurrentScores, r.BalancedGap)
	return delta
}

var styles = map[domain.Category]struct {
	style domain.TravelStyle
	title string
}{
	domain.CategoryAdventure:  {domain.TravelStyleExplorer, "Adventure-Driven Traveler (Explorer)"},
	domain.CategoryCulture:    {domain.TravelStyleCulturalImmersion, "Culture-Focused Traveler (Cultural Immersion)"},
	domain.CategoryFoodie:     {domain.TravelStyleFoodieAdventure, "Culinary Explorer (Foodie Adventure)"},
	domain.CategoryRelaxation: {domain.TravelStyleRelaxationSeeker, "Relaxation Seeker"},
}

const balancedTitle = "Balanced Traveler"

// RankCategories orders categories by score, highest first. Ties keep the
// canonical category order.
func RankCategories(scores domain.Scores) []domain.Category {
	ranked := slices.Clone(domain.Categories[:])
	slices.SortStableFunc(ranked, func(a, b domain.Category) int {
		return cmp.Compare(scores.Get(b), scores.Get(a))
	})
	return ranked
}

// ComputeInsights derives dominant trait, travel style and title. The
// profile is balanced when the top two scores are less than gap apart.
func ComputeInsights(scores domain.Scores, gap float64) domain.Insights {
	ranked := RankCategories(scores)
	top, second := ranked[0], ranked[1]

	ins := domain.Insights{DominantTrait: top}
	if roundScore(scores.Get(top)-scores.Get(second)) < gap {
		ins.TravelStyle = domain.TravelStyleBalanced
		ins.ProfileTitle = balancedTitle
		return ins
	}
	ins.TravelStyle = styles[top].style
	ins.ProfileTitle = styles[top].title
	return ins
}

// ApplyTripTransition moves one trip between lifecycle buckets. The source
// bucket must be non-empty.
func ApplyTripTransition(stats *domain.TripStats, t domain.TripTransition) error {
	switch t {
	case domain.TransitionToPlanned:
		stats.TotalTrips++
		stats.PlannedTrips++
	case domain.TransitionPlannedToOngoing:
		if stats.PlannedTrips <= 0 {
			return &domain.TransitionError{Entity: "trip_stats", From: "planned", To: "ongoing"}
		}
		stats.PlannedTrips--
		stats.OngoingTrips++
	case domain.TransitionOngoingToDone:
		if stats.OngoingTrips <= 0 {
			return &domain.TransitionError{Entity: "trip_stats", From: "ongoing", To: "completed"}
		}
		stats.OngoingTrips--
		stats.CompletedTrips++
	default:
		return &domain.TransitionError{Entity: "trip_stats", To: string(t)}
	}
	return nil
}

// StatsFromCounts overwrites the lifecycle buckets from live trip counts.
// Activity totals are left untouched.
func StatsFromCounts(stats *domain.TripStats, c domain.TripStatusCounts) {
	stats.PlannedTrips = c.Planned
	stats.OngoingTrips = c.Ongoing
	stats.CompletedTrips = c.Completed
	stats.TotalTrips = c.Planned + c.Ongoing + c.Completed + c.Cancelled
}

// roundScore trims float drift from repeated 0.1 steps.
func roundScore(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
