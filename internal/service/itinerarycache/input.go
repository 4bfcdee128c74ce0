package itinerarycache

import (
	"errors"
	"strings"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// StoreInput is a freshly generated itinerary to cache.
type StoreInput struct {
	Destination  string
	DNA          domain.DNASnapshot
	Params       domain.TripParams
	Payload      domain.Itinerary
	GeneratorTag domain.GeneratorTag
}

// Validate checks all fields and collects all errors. The payload is
// checked against the itinerary schema.
func (i StoreInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Destination) == "" {
		errs = append(errs, domain.FieldError{Field: "destination", Message: "required"})
	}
	if !i.GeneratorTag.IsValid() {
		errs = append(errs, domain.FieldError{Field: "generator_tag", Message: "must be ai or mock"})
	}
	if i.Params.Duration < 1 {
		errs = append(errs, domain.FieldError{Field: "params.duration", Message: "must be at least 1"})
	}

	if err := domain.ValidateItinerary(&i.Payload); err != nil {
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for _, fe := range verr.Errors {
			errs = append(errs, domain.FieldError{Field: "payload." + fe.Field, Message: fe.Message})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
