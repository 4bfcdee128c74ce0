package planner

import (
	"strings"
	"time"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// MaxTripDays bounds the length of a planned trip.
const MaxTripDays = 60

// PlanInput describes the trip to plan.
type PlanInput struct {
	Destination    string
	StartDate      time.Time
	EndDate        time.Time
	Budget         float64
	Travelers      int
	Accommodation  string
	Transportation string
}

// Validate checks all fields and collects all errors.
func (i PlanInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Destination) == "" {
		errs = append(errs, domain.FieldError{Field: "destination", Message: "required"})
	}
	if i.StartDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "start_date", Message: "required"})
	}
	if i.EndDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "end_date", Message: "required"})
	}
	if !i.StartDate.IsZero() && !i.EndDate.IsZero() {
		switch days := domain.DaysInclusive(i.StartDate, i.EndDate); {
		case days < 1:
			errs = append(errs, domain.FieldError{Field: "end_date", Message: "must not be before start_date"})
		case days > MaxTripDays:
			errs = append(errs, domain.FieldError{Field: "end_date", Message: "trip is too long"})
		}
	}
	if i.Budget < 0 {
		errs = append(errs, domain.FieldError{Field: "budget", Message: "must be >= 0"})
	}
	if i.Travelers < 1 {
		errs = append(errs, domain.FieldError{Field: "travelers", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Request combines the input with the traveler's profile.
func (i PlanInput) Request(p *domain.DNAProfile) domain.GenerateRequest {
	return domain.GenerateRequest{
		Destination:    strings.TrimSpace(i.Destination),
		StartDate:      i.StartDate,
		EndDate:        i.EndDate,
		Budget:         i.Budget,
		Travelers:      i.Travelers,
		Accommodation:  i.Accommodation,
		Transportation: i.Transportation,
		Scores:         p.CurrentScores,
		DNA:            p.Snapshot(),
	}
}

// PlanResult is a planned itinerary and where it came from.
type PlanResult struct {
	Itinerary    domain.Itinerary
	DNA          domain.DNASnapshot
	GeneratorTag domain.GeneratorTag
	Fingerprint  string
	CacheHit     bool
}
