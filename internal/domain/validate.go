package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Report JSON paths (dailyItinerary[0].activities[1].type) instead of Go field names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		structValidator = v
	})
	return structValidator
}

// ValidateStruct checks the validate tags of s and translates failures into
// a *ValidationError. Returns nil when s is valid.
func ValidateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fieldErrs := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrs = append(fieldErrs, FieldError{
			Field:   trimRootNamespace(fe.Namespace()),
			Message: validationMessage(fe),
		})
	}
	return NewValidationErrors(fieldErrs)
}

// ValidateItinerary validates a generated or user-supplied itinerary document.
func ValidateItinerary(it *Itinerary) error {
	if it == nil {
		return NewValidationError("itinerary", "required")
	}
	return ValidateStruct(it)
}

func trimRootNamespace(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return "must have at least " + fe.Param() + " items"
	case "gte":
		return "must be >= " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date in format " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
