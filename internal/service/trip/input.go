package trip

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// CreateInput is a planned itinerary the traveler decided to keep.
type CreateInput struct {
	Destination    string
	StartDate      time.Time
	EndDate        time.Time
	Budget         float64
	Travelers      int
	Accommodation  string
	Transportation string
	DNA            domain.DNASnapshot
	Itinerary      domain.Itinerary
	GeneratorTag   domain.GeneratorTag
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
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
	if !i.StartDate.IsZero() && !i.EndDate.IsZero() && i.EndDate.Before(i.StartDate) {
		errs = append(errs, domain.FieldError{Field: "end_date", Message: "must not be before start_date"})
	}
	if i.Budget < 0 {
		errs = append(errs, domain.FieldError{Field: "budget", Message: "must be >= 0"})
	}
	if i.Travelers < 1 {
		errs = append(errs, domain.FieldError{Field: "travelers", Message: "must be at least 1"})
	}
	if i.GeneratorTag != "" && !i.GeneratorTag.IsValid() {
		errs = append(errs, domain.FieldError{Field: "generator_tag", Message: "must be ai or mock"})
	}
	errs = appendPrefixed(errs, "itinerary", domain.ValidateItinerary(&i.Itinerary))

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ActivityRef addresses one activity of a trip.
type ActivityRef struct {
	TripID        uuid.UUID
	DayIndex      int
	ActivityIndex int
}

// AcceptInput replaces an activity with an accepted alternative.
type AcceptInput struct {
	ActivityRef
	Alternative domain.Activity
}

// Validate checks all fields and collects all errors.
func (i AcceptInput) Validate() error {
	var errs []domain.FieldError
	if i.TripID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "trip_id", Message: "required"})
	}
	if strings.TrimSpace(i.Alternative.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "alternative.activity", Message: "required"})
	}
	if !i.Alternative.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "alternative.type", Message: "must be one of: adventure culture foodie relaxation"})
	}
	if i.Alternative.Cost < 0 {
		errs = append(errs, domain.FieldError{Field: "alternative.cost", Message: "must be >= 0"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CloneInput copies a pre-planned trip for the caller. Without StartDate
// the source dates are kept. Without EndDate it follows from the
// itinerary length.
type CloneInput struct {
	SourceID  uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// CreateResult reports whether the trip is new or an existing duplicate.
type CreateResult struct {
	Trip         *domain.Trip
	Deduplicated bool
}

// ActivityResult is the outcome of an activity status mutation.
type ActivityResult struct {
	Trip          *domain.Trip
	Activity      domain.Activity
	Changed       bool
	AllProcessed  bool
	TripCompleted bool
}

// AlternativeResult carries a proposed replacement activity.
type AlternativeResult struct {
	Trip     *domain.Trip
	Current  domain.Activity
	Proposal domain.Activity
}

func appendPrefixed(errs []domain.FieldError, prefix string, err error) []domain.FieldError {
	if err == nil {
		return errs
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return append(errs, domain.FieldError{Field: prefix, Message: err.Error()})
	}
	for _, fe := range verr.Errors {
		errs = append(errs, domain.FieldError{Field: prefix + "." + fe.Field, Message: fe.Message})
	}
	return errs
}
