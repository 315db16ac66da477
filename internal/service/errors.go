package service

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/njprem/TripWise_APP_BackEnd/internal/validation"
)

var (
	ErrValidation              = errors.New("invalid recommendation request")
	ErrDestinationNotFound     = errors.New("destination not found")
	ErrInvalidDestinationName  = errors.New("destination name is required")
	ErrSearchQueryRequired     = errors.New("search query is required")
	ErrProviderUnavailable     = errors.New("text generation provider not configured")
	ErrDestinationGeneration   = errors.New("destination detail generation failed")
	errPopularDestinationEmpty = errors.New("generated destination has no name")
)

// ValidationError lists every violated input constraint.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(err error) *ValidationError {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return &ValidationError{Violations: fieldErrs.Messages()}
	}
	return &ValidationError{Violations: []string{err.Error()}}
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
