package planner

import (
	"context"
	"math"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

type poolSource interface {
	Pool(destination string) (pool *domain.ActivityPool, found bool)
}

// MockGenerator builds itineraries from the activity catalog, weighting
// slot categories by the traveler's scores.
type MockGenerator struct {
	pools  poolSource
	picker *Picker
}

// NewMockGenerator creates a catalog-backed generator.
func NewMockGenerator(pools poolSource, picker *Picker) *MockGenerator {
	return &MockGenerator{pools: pools, picker: picker}
}

// Tag identifies itineraries produced by this generator.
func (g *MockGenerator) Tag() domain.GeneratorTag {
	return domain.GeneratorMock
}

// Generate builds one day per date of the request range.
func (g *MockGenerator) Generate(_ context.Context, req domain.GenerateRequest) (*domain.Itinerary, error) {
	pool, _ := g.pools.Pool(req.Destination)
	return GenerateItinerary(g.picker, pool, req), nil
}

// GenerateItinerary lays out req.Days() days dated from req.StartDate.
func GenerateItinerary(picker *Picker, pool *domain.ActivityPool, req domain.GenerateRequest) *domain.Itinerary {
	days := req.Days()
	it := &domain.Itinerary{
		Destination: req.Destination,
		Days:        make([]domain.DayPlan, 0, days),
	}

	var activityCost float64
	for day := 1; day <= days; day++ {
		acts := picker.GenerateDaySlots(pool, req.Scores, day)
		for _, a := range acts {
			activityCost += a.Cost
		}
		it.Days = append(it.Days, domain.DayPlan{Day: day, Activities: acts})
	}
	it.RebaseDates(req.StartDate)

	it.EstimatedTotalCost = EstimateCost(pool, days, req.DNA, req.Budget)
	it.CostBreakdown = domain.CostBreakdown{
		Activities:    activityCost,
		Miscellaneous: math.Max(0, it.EstimatedTotalCost-activityCost),
	}
	return it
}

// Cost model knobs.
const (
	activityCostWeight = 0.5
	budgetCapFactor    = 1.2
)

// EstimateCost prices a trip from the destination's base daily cost, the
// traveler's budget preference and activity appetite, capped at 120% of the
// requested budget. A non-positive budget disables the cap.
func EstimateCost(pool *domain.ActivityPool, days int, dna domain.DNASnapshot, budget float64) float64 {
	var base float64
	if pool != nil {
		base = pool.BaseCostPerDay
	}
	appetite := (dna.Adventure + dna.Culture + dna.Foodie) / 3 / domain.MaxScore

	cost := math.Round(base * float64(days) * (1 + dna.Budget) * (1 + appetite*activityCostWeight))
	if budget > 0 {
		cost = math.Min(cost, budget*budgetCapFactor)
	}
	return cost
}
