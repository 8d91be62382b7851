package simulation

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNonFiniteInput is returned when a context or delta field is NaN or
	// infinite. Compute itself never sees such values.
	ErrNonFiniteInput = errors.New("non-finite simulation input")

	// ErrUnknownDelta is returned when a sweep names a delta that does not exist.
	ErrUnknownDelta = errors.New("unknown delta field")

	// ErrInvalidSweep is returned when a sweep range cannot be walked.
	ErrInvalidSweep = errors.New("invalid sweep range")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// InputError names the offending field of a rejected input.
type InputError struct {
	Field string
	Value float64
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s = %v", ErrNonFiniteInput, e.Field, e.Value)
}

func (e *InputError) Unwrap() error {
	return ErrNonFiniteInput
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNonFiniteInput) ||
		errors.Is(err, ErrUnknownDelta) ||
		errors.Is(err, ErrInvalidSweep)
}
