package planner

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// Picker makes the random choices of the weighted generator. It is safe for
// concurrent use.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker creates a Picker. A zero seed seeds from the clock.
func NewPicker(seed int64) *Picker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Picker{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))}
}

func (p *Picker) float64() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64()
}

func (p *Picker) intN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// SelectCategory draws a category with probability proportional to its
// score, never returning an excluded one. Negative scores weigh zero. When
// every eligible weight is zero the draw is uniform. When excluded covers
// every category the full set is eligible again.
func (p *Picker) SelectCategory(weights domain.Scores, excluded ...domain.Category) domain.Category {
	eligible := make([]domain.Category, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		if !slices.Contains(excluded, c) {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		eligible = domain.Categories[:]
	}

	var sum float64
	for _, c := range eligible {
		sum += math.Max(0, weights.Get(c))
	}
	if sum == 0 {
		return eligible[p.intN(len(eligible))]
	}

	r := p.float64() * sum
	var acc float64
	for _, c := range eligible {
		w := math.Max(0, weights.Get(c))
		acc += w
		if w > 0 && r < acc {
			return c
		}
	}
	// Float rounding left r at the upper edge; take the last positive weight.
	for i := len(eligible) - 1; i >= 0; i-- {
		if weights.Get(eligible[i]) > 0 {
			return eligible[i]
		}
	}
	return eligible[len(eligible)-1]
}

type slotSpec struct {
	slot     domain.TimeSlot
	time     string
	duration string
}

var daySlots = [...]slotSpec{
	{domain.SlotMorning, "09:00", "3 hours"},
	{domain.SlotAfternoon, "13:00", "2 hours"},
	{domain.SlotEvening, "18:00", "2 hours"},
}

// GenerateDaySlots fills the morning, afternoon and evening slots of day.
// Each slot avoids the categories already used that day while any remain.
// A slot whose category has no activities in pool is left out.
func (p *Picker) GenerateDaySlots(pool *domain.ActivityPool, weights domain.Scores, day int) []domain.Activity {
	used := make([]domain.Category, 0, len(daySlots))
	activities := make([]domain.Activity, 0, len(daySlots))

	for _, ds := range daySlots {
		cat := p.SelectCategory(weights, used...)
		used = append(used, cat)

		items := pool.Bucket(cat)
		if len(items) == 0 {
			continue
		}
		item := items[p.intN(len(items))]

		activities = append(activities, domain.Activity{
			ID:          fmt.Sprintf("%d-%s", day, ds.slot),
			Name:        item.Name,
			Location:    item.Location,
			Description: item.Description,
			Cost:        item.Cost,
			Category:    cat,
			Duration:    ds.duration,
			Time:        ds.time,
			Slot:        ds.slot,
			Status:      domain.ActivityStatusActive,
		})
	}
	return activities
}

const alternativeCostFactor = 0.9

// ProposeAlternative suggests a replacement for a from a different
// category, chosen uniformly. The name comes from pool when it has
// activities in that category. Location, time, duration and slot are kept;
// the cost is discounted.
func (p *Picker) ProposeAlternative(pool *domain.ActivityPool, a domain.Activity) domain.Activity {
	others := make([]domain.Category, 0, len(domain.Categories)-1)
	for _, c := range domain.Categories {
		if c != a.Category {
			others = append(others, c)
		}
	}
	cat := others[p.intN(len(others))]

	name := fmt.Sprintf("Alternative %s activity", cat)
	if items := pool.Bucket(cat); len(items) > 0 {
		name = items[p.intN(len(items))].Name
	}

	return domain.Activity{
		ID:          a.ID,
		Name:        name,
		Location:    a.Location,
		Description: fmt.Sprintf("An alternative %s experience in the same area", cat),
		Cost:        math.Max(0, math.Round(a.Cost*alternativeCostFactor)),
		Category:    cat,
		Duration:    a.Duration,
		Time:        a.Time,
		Slot:        a.Slot,
		Status:      domain.ActivityStatusActive,
	}
}
