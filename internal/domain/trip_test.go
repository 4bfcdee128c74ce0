package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestTrip(status TripStatus, perDay ...int) *Trip {
	it := Itinerary{Destination: "Paris"}
	for d, n := range perDay {
		day := DayPlan{Day: d + 1, Date: "2026-05-0" + string(rune('1'+d))}
		for i := 0; i < n; i++ {
			day.Activities = append(day.Activities, Activity{
				Name:     "activity",
				Category: CategoryCulture,
				Status:   ActivityStatusActive,
				Cost:     40,
			})
		}
		it.Days = append(it.Days, day)
	}
	tr := &Trip{Status: status, Itinerary: it}
	tr.Recount()
	return tr
}

func TestTrip_Activity_OutOfRange(t *testing.T) {
	t.Parallel()

	tr := newTestTrip(TripStatusOngoing, 2)

	tests := []struct {
		name     string
		day, idx int
	}{
		{"negative day", -1, 0},
		{"day past end", 1, 0},
		{"negative activity", 0, -1},
		{"activity past end", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := tr.Activity(tt.day, tt.idx); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Activity(%d, %d) err = %v, want ErrNotFound", tt.day, tt.idx, err)
			}
		})
	}
}

func TestTrip_MarkActivityDone(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	tr := newTestTrip(TripStatusOngoing, 2)

	changed, err := tr.MarkActivityDone(0, 0, now)
	if err != nil || !changed {
		t.Fatalf("first MarkActivityDone = (%v, %v), want (true, nil)", changed, err)
	}
	a, _ := tr.Activity(0, 0)
	if a.Status != ActivityStatusDone || a.CompletedAt == nil || !a.CompletedAt.Equal(now) {
		t.Fatalf("unexpected activity state: %+v", a)
	}

	changed, err = tr.MarkActivityDone(0, 0, now)
	if err != nil || changed {
		t.Fatalf("repeat MarkActivityDone = (%v, %v), want (false, nil)", changed, err)
	}
	changed, _ = tr.MarkActivitySkipped(0, 0, now)
	if changed {
		t.Fatal("skipping a done activity must be a no-op")
	}
	if tr.Counters.CompletedActivities != 1 || tr.Counters.SkippedActivities != 0 {
		t.Fatalf("counters = %+v", tr.Counters)
	}
}

func TestTrip_CheckCompletion(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 2, 20, 0, 0, 0, time.UTC)

	t.Run("ongoing trip completes once all processed", func(t *testing.T) {
		t.Parallel()
		tr := newTestTrip(TripStatusOngoing, 1, 1)
		_, _ = tr.MarkActivityDone(0, 0, now)

		all, moved := tr.CheckCompletion(now)
		if all || moved {
			t.Fatalf("CheckCompletion = (%v, %v), want (false, false)", all, moved)
		}

		_, _ = tr.MarkActivitySkipped(1, 0, now)
		all, moved = tr.CheckCompletion(now)
		if !all || !moved {
			t.Fatalf("CheckCompletion = (%v, %v), want (true, true)", all, moved)
		}
		if tr.Status != TripStatusCompleted || tr.CompletedAt == nil {
			t.Fatalf("trip not completed: %+v", tr)
		}

		all, moved = tr.CheckCompletion(now.Add(time.Hour))
		if !all || moved {
			t.Fatalf("second CheckCompletion = (%v, %v), want (true, false)", all, moved)
		}
		if !tr.CompletedAt.Equal(now) {
			t.Fatal("completedAt must not move on repeat check")
		}
	})

	t.Run("planned trip never auto-completes", func(t *testing.T) {
		t.Parallel()
		tr := newTestTrip(TripStatusPlanned, 1)
		_, _ = tr.MarkActivityDone(0, 0, now)

		all, moved := tr.CheckCompletion(now)
		if !all || moved {
			t.Fatalf("CheckCompletion = (%v, %v), want (true, false)", all, moved)
		}
		if tr.Status != TripStatusPlanned {
			t.Fatalf("status = %q, want planned", tr.Status)
		}
	})
}

func TestTrip_ReplaceActivity(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tr := newTestTrip(TripStatusOngoing, 2)
	tr.Itinerary.Days[0].Activities[0].ID = "1-morning"
	tr.Itinerary.Days[0].Activities[0].Location = "Montmartre"
	tr.Itinerary.Days[0].Activities[0].Time = "09:00"
	_, _ = tr.RequestAlternative(0, 0)
	_, _ = tr.RequestAlternative(0, 0)
	_, _ = tr.MarkActivityDone(0, 0, now)

	got, err := tr.ReplaceActivity(0, 0, Activity{Name: "Seine River kayaking", Category: CategoryAdventure, Cost: 36})
	if err != nil {
		t.Fatalf("ReplaceActivity: %v", err)
	}

	want := Activity{
		ID:                    "1-morning",
		Name:                  "Seine River kayaking",
		Location:              "Montmartre",
		Description:           "",
		Cost:                  36,
		Category:              CategoryAdventure,
		Time:                  "09:00",
		Status:                ActivityStatusActive,
		AlternativesRequested: 2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("replaced activity mismatch (-want +got):\n%s", diff)
	}
	if tr.Counters.CompletedActivities != 0 {
		t.Fatalf("completed = %d, want 0 after replacing a done activity", tr.Counters.CompletedActivities)
	}
	if tr.Counters.AlternativesRequested != 2 || tr.Counters.TotalActivities != 2 {
		t.Fatalf("counters = %+v", tr.Counters)
	}
}

func TestTrip_TransitionTo(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		from    TripStatus
		to      TripStatus
		wantErr bool
	}{
		{TripStatusPlanned, TripStatusOngoing, false},
		{TripStatusOngoing, TripStatusCompleted, false},
		{TripStatusPlanned, TripStatusCancelled, false},
		{TripStatusOngoing, TripStatusCancelled, false},
		{TripStatusPlanned, TripStatusCompleted, true},
		{TripStatusCompleted, TripStatusOngoing, true},
		{TripStatusCancelled, TripStatusPlanned, true},
		{TripStatusOngoing, TripStatusPlanned, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			t.Parallel()
			tr := &Trip{Status: tt.from}
			err := tr.TransitionTo(tt.to, now)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("err = %v, want ErrInvalidTransition", err)
				}
				if tr.Status != tt.from {
					t.Fatal("status changed on rejected transition")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.Status != tt.to {
				t.Fatalf("status = %q, want %q", tr.Status, tt.to)
			}
			if tt.to == TripStatusOngoing && tr.StartedAt == nil {
				t.Fatal("startedAt not set")
			}
			if tt.to == TripStatusCompleted && tr.CompletedAt == nil {
				t.Fatal("completedAt not set")
			}
		})
	}
}

func TestDaysInclusive(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 28, 15, 0, 0, 0, time.UTC)
	if got := DaysInclusive(start, start); got != 1 {
		t.Fatalf("same day = %d, want 1", got)
	}
	if got := DaysInclusive(start, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)); got != 6 {
		t.Fatalf("across month = %d, want 6", got)
	}
}

func TestItinerary_RebaseDates(t *testing.T) {
	t.Parallel()

	it := Itinerary{Days: []DayPlan{{Day: 4, Date: "2020-01-01"}, {Day: 9, Date: "2020-01-09"}}}
	it.RebaseDates(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))

	if it.Days[0].Date != "2026-12-31" || it.Days[1].Date != "2027-01-01" {
		t.Fatalf("dates = %q, %q", it.Days[0].Date, it.Days[1].Date)
	}
	if it.Days[1].Day != 2 || it.TotalDays != 2 {
		t.Fatalf("day numbering not rebased: %+v", it)
	}
}

func TestItinerary_ResetProgress(t *testing.T) {
	t.Parallel()

	tr := newTestTrip(TripStatusOngoing, 2)
	now := time.Now()
	if _, err := tr.MarkActivityDone(0, 0, now); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.RequestAlternative(0, 1); err != nil {
		t.Fatal(err)
	}

	tr.Itinerary.ResetProgress()

	for _, a := range tr.Itinerary.Days[0].Activities {
		want := Activity{Name: "activity", Category: CategoryCulture, Status: ActivityStatusActive, Cost: 40}
		if diff := cmp.Diff(want, a); diff != "" {
			t.Fatalf("activity not reset (-want +got):\n%s", diff)
		}
	}
}
