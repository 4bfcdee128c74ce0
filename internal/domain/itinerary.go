package domain

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar date format used for itinerary days.
const DateLayout = "2006-01-02"

// Itinerary is a generated day-by-day travel plan. It is stored verbatim in
// the cache and copied into trips, so the JSON names are part of the
// persisted format.
type Itinerary struct {
	Destination        string          `json:"destination" validate:"required"`
	TotalDays          int             `json:"totalDays" validate:"gte=1"`
	EstimatedTotalCost float64         `json:"estimatedTotalCost" validate:"gte=0"`
	CostBreakdown      CostBreakdown   `json:"costBreakdown"`
	Days               []DayPlan       `json:"dailyItinerary" validate:"required,min=1,dive"`
	Recommendations    Recommendations `json:"recommendations"`
}

// ActivityCount returns the number of activities across all days.
func (it *Itinerary) ActivityCount() int {
	n := 0
	for i := range it.Days {
		n += len(it.Days[i].Activities)
	}
	return n
}

// Clone returns a deep copy that shares no slices with the receiver.
func (it *Itinerary) Clone() Itinerary {
	out := *it
	out.Recommendations = Recommendations{
		BestTimeToVisit:   it.Recommendations.BestTimeToVisit,
		LocalTips:         append([]string(nil), it.Recommendations.LocalTips...),
		PackingList:       append([]string(nil), it.Recommendations.PackingList...),
		CulturalEtiquette: append([]string(nil), it.Recommendations.CulturalEtiquette...),
	}
	out.Days = make([]DayPlan, len(it.Days))
	for i, d := range it.Days {
		d.Activities = append([]Activity(nil), d.Activities...)
		d.Meals = append([]Meal(nil), d.Meals...)
		if d.Accommodation != nil {
			acc := *d.Accommodation
			d.Accommodation = &acc
		}
		out.Days[i] = d
	}
	return out
}

// RebaseDates rewrites each day's date to start+i days and renumbers days from 1.
func (it *Itinerary) RebaseDates(start time.Time) {
	for i := range it.Days {
		it.Days[i].Day = i + 1
		it.Days[i].Date = start.AddDate(0, 0, i).Format(DateLayout)
	}
	it.TotalDays = len(it.Days)
}

// ResetProgress returns every activity to active with no history.
func (it *Itinerary) ResetProgress() {
	for i := range it.Days {
		for j := range it.Days[i].Activities {
			a := &it.Days[i].Activities[j]
			a.Status = ActivityStatusActive
			a.AlternativesRequested = 0
			a.CompletedAt = nil
			a.SkippedAt = nil
		}
	}
}

// CostBreakdown splits the estimated total cost by spending area.
type CostBreakdown struct {
	Accommodation  float64 `json:"accommodation" validate:"gte=0"`
	Food           float64 `json:"food" validate:"gte=0"`
	Activities     float64 `json:"activities" validate:"gte=0"`
	Transportation float64 `json:"transportation" validate:"gte=0"`
	Miscellaneous  float64 `json:"miscellaneous" validate:"gte=0"`
}

// Recommendations are destination tips shown next to the plan.
type Recommendations struct {
	BestTimeToVisit   string   `json:"bestTimeToVisit,omitempty"`
	LocalTips         []string `json:"localTips,omitempty"`
	PackingList       []string `json:"packingList,omitempty"`
	CulturalEtiquette []string `json:"culturalEtiquette,omitempty"`
}

// DayPlan is one day of an itinerary. Weather and Enrichment are opaque
// documents attached by external collaborators.
type DayPlan struct {
	Day           int             `json:"day" validate:"gte=1"`
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	Theme         string          `json:"theme,omitempty"`
	Activities    []Activity      `json:"activities" validate:"dive"`
	Meals         []Meal          `json:"meals,omitempty" validate:"dive"`
	Accommodation *Accommodation  `json:"accommodation,omitempty" validate:"omitempty"`
	Weather       json.RawMessage `json:"weather,omitempty"`
	Enrichment    json.RawMessage `json:"enrichment,omitempty"`
}

// Activity is a single scheduled item of a day.
type Activity struct {
	ID                    string          `json:"id,omitempty"`
	Name                  string          `json:"activity" validate:"required"`
	Location              string          `json:"location,omitempty"`
	Description           string          `json:"description,omitempty"`
	Cost                  float64         `json:"cost" validate:"gte=0"`
	Category              Category        `json:"type" validate:"required,oneof=adventure culture foodie relaxation"`
	Duration              string          `json:"duration,omitempty"`
	Time                  string          `json:"time,omitempty"`
	Slot                  TimeSlot        `json:"slot,omitempty"`
	Status                ActivityStatus  `json:"status,omitempty" validate:"omitempty,oneof=active done skipped"`
	AlternativesRequested int             `json:"alternativesRequested" validate:"gte=0"`
	CompletedAt           *time.Time      `json:"completedAt,omitempty"`
	SkippedAt             *time.Time      `json:"skippedAt,omitempty"`
	Enrichment            json.RawMessage `json:"enrichment,omitempty"`
}

// EffectiveStatus treats an unset status as active.
func (a *Activity) EffectiveStatus() ActivityStatus {
	if a.Status == "" {
		return ActivityStatusActive
	}
	return a.Status
}

// Meal is a planned meal stop.
type Meal struct {
	Type       string  `json:"type" validate:"required,oneof=breakfast lunch dinner snack"`
	Restaurant string  `json:"restaurant" validate:"required"`
	Cuisine    string  `json:"cuisine,omitempty"`
	Cost       float64 `json:"cost" validate:"gte=0"`
	Location   string  `json:"location,omitempty"`
}

// Accommodation is where the traveler stays for a day.
type Accommodation struct {
	Name     string  `json:"name" validate:"required"`
	Type     string  `json:"type,omitempty"`
	Cost     float64 `json:"cost" validate:"gte=0"`
	Location string  `json:"location,omitempty"`
}
