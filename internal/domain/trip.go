package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a planned journey with a mutable per-activity progress state.
type Trip struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Destination    string
	StartDate      time.Time
	EndDate        time.Time
	Budget         float64
	Travelers      int
	Accommodation  string
	Transportation string
	DNA            DNASnapshot
	Itinerary      Itinerary
	Counters       TripCounters
	Status         TripStatus
	GeneratorTag   GeneratorTag
	CreatedAt      time.Time
	UpdatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// TripCounters aggregates activity progress across the itinerary.
type TripCounters struct {
	TotalActivities       int
	CompletedActivities   int
	SkippedActivities     int
	AlternativesRequested int
}

// TotalDays returns the inclusive number of calendar days of the trip.
func (t *Trip) TotalDays() int {
	return DaysInclusive(t.StartDate, t.EndDate)
}

// DaysInclusive counts calendar days from start to end, both included.
func DaysInclusive(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// Activity returns a pointer into the itinerary for (dayIndex, activityIndex).
func (t *Trip) Activity(dayIndex, activityIndex int) (*Activity, error) {
	if dayIndex < 0 || dayIndex >= len(t.Itinerary.Days) {
		return nil, ErrNotFound
	}
	acts := t.Itinerary.Days[dayIndex].Activities
	if activityIndex < 0 || activityIndex >= len(acts) {
		return nil, ErrNotFound
	}
	return &t.Itinerary.Days[dayIndex].Activities[activityIndex], nil
}

// Recount recomputes total, completed and skipped counters from the
// itinerary. AlternativesRequested is cumulative and left untouched.
func (t *Trip) Recount() {
	var total, done, skipped int
	for i := range t.Itinerary.Days {
		for j := range t.Itinerary.Days[i].Activities {
			total++
			switch t.Itinerary.Days[i].Activities[j].EffectiveStatus() {
			case ActivityStatusDone:
				done++
			case ActivityStatusSkipped:
				skipped++
			}
		}
	}
	t.Counters.TotalActivities = total
	t.Counters.CompletedActivities = done
	t.Counters.SkippedActivities = skipped
}

// MarkActivityDone moves an active activity to done. It reports whether the
// status actually changed; non-active activities are left as they are.
func (t *Trip) MarkActivityDone(dayIndex, activityIndex int, now time.Time) (bool, error) {
	a, err := t.Activity(dayIndex, activityIndex)
	if err != nil {
		return false, err
	}
	if a.EffectiveStatus() != ActivityStatusActive {
		return false, nil
	}
	a.Status = ActivityStatusDone
	a.CompletedAt = &now
	t.Counters.CompletedActivities++
	return true, nil
}

// MarkActivitySkipped moves an active activity to skipped. Same contract as MarkActivityDone.
func (t *Trip) MarkActivitySkipped(dayIndex, activityIndex int, now time.Time) (bool, error) {
	a, err := t.Activity(dayIndex, activityIndex)
	if err != nil {
		return false, err
	}
	if a.EffectiveStatus() != ActivityStatusActive {
		return false, nil
	}
	a.Status = ActivityStatusSkipped
	a.SkippedAt = &now
	t.Counters.SkippedActivities++
	return true, nil
}

// RequestAlternative bumps the per-activity and per-trip alternative
// counters. Allowed from any status.
func (t *Trip) RequestAlternative(dayIndex, activityIndex int) (Activity, error) {
	a, err := t.Activity(dayIndex, activityIndex)
	if err != nil {
		return Activity{}, err
	}
	a.AlternativesRequested++
	t.Counters.AlternativesRequested++
	return *a, nil
}

// ReplaceActivity swaps the activity at (dayIndex, activityIndex) for an
// accepted alternative. Empty descriptive fields fall back to the current
// activity. The result is active again and keeps the alternative count.
func (t *Trip) ReplaceActivity(dayIndex, activityIndex int, alt Activity) (Activity, error) {
	cur, err := t.Activity(dayIndex, activityIndex)
	if err != nil {
		return Activity{}, err
	}

	next := Activity{
		ID:                    cur.ID,
		Name:                  firstNonEmpty(alt.Name, cur.Name),
		Location:              firstNonEmpty(alt.Location, cur.Location),
		Description:           firstNonEmpty(alt.Description, cur.Description),
		Cost:                  alt.Cost,
		Category:              alt.Category,
		Duration:              firstNonEmpty(alt.Duration, cur.Duration),
		Time:                  firstNonEmpty(alt.Time, cur.Time),
		Slot:                  cur.Slot,
		Status:                ActivityStatusActive,
		AlternativesRequested: cur.AlternativesRequested,
	}
	*cur = next
	t.Recount()
	return next, nil
}

// CheckCompletion finishes an ongoing trip once every activity is processed.
// It returns whether all activities are processed and whether the trip
// status changed as a result. Calling it again is a no-op.
func (t *Trip) CheckCompletion(now time.Time) (allProcessed, transitioned bool) {
	allProcessed = t.Counters.CompletedActivities+t.Counters.SkippedActivities >= t.Counters.TotalActivities
	if allProcessed && t.Status == TripStatusOngoing {
		t.Status = TripStatusCompleted
		t.CompletedAt = &now
		return true, true
	}
	return allProcessed, false
}

// TransitionTo applies a lifecycle status change. Allowed moves are
// planned->ongoing, ongoing->completed and planned|ongoing->cancelled.
func (t *Trip) TransitionTo(status TripStatus, now time.Time) error {
	from := t.Status
	ok := false
	switch status {
	case TripStatusOngoing:
		ok = from == TripStatusPlanned
	case TripStatusCompleted:
		ok = from == TripStatusOngoing
	case TripStatusCancelled:
		ok = from == TripStatusPlanned || from == TripStatusOngoing
	}
	if !ok {
		return &TransitionError{Entity: "trip", From: string(from), To: string(status)}
	}

	t.Status = status
	switch status {
	case TripStatusOngoing:
		if t.StartedAt == nil {
			t.StartedAt = &now
		}
	case TripStatusCompleted:
		if t.CompletedAt == nil {
			t.CompletedAt = &now
		}
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
