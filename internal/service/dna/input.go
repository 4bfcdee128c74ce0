package dna

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// QuizInput holds the answers of the travel DNA quiz. Sliders are in [0,1].
type QuizInput struct {
	Adventure float64
	Culture   float64
	Foodie    float64
	Budget    float64
	Pace      domain.PaceTier
}

// Validate checks all fields and collects all errors.
func (i QuizInput) Validate() error {
	var errs []domain.FieldError

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"adventure", i.Adventure},
		{"culture", i.Culture},
		{"foodie", i.Foodie},
		{"budget", i.Budget},
	} {
		if f.value < 0 || f.value > 1 {
			errs = append(errs, domain.FieldError{Field: f.name, Message: "must be between 0 and 1"})
		}
	}
	if !i.Pace.IsValid() {
		errs = append(errs, domain.FieldError{Field: "pace", Message: "must be one of slow, moderate, fast"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// FeedbackInput is one behavioural signal about an activity.
type FeedbackInput struct {
	Category domain.Category
	Action   domain.FeedbackAction
	TripID   *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i FeedbackInput) Validate() error {
	var errs []domain.FieldError
	if !i.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "invalid value"})
	}
	if !i.Action.IsValid() {
		errs = append(errs, domain.FieldError{Field: "action", Message: "invalid value"})
	}
	if i.TripID != nil && *i.TripID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "trip_id", Message: "must not be empty"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
