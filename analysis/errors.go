package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrIndustryNotFound is returned when no record exists for an industry.
	ErrIndustryNotFound = errors.New("industry not found")

	// ErrYearNotAvailable is returned when an industry has no row for a year.
	ErrYearNotAvailable = errors.New("data not available for this year/industry")

	// ErrNoRecords is returned when a model is built from an empty source.
	ErrNoRecords = errors.New("no workforce records loaded")
)

// LookupError carries the industry/year that could not be resolved.
type LookupError struct {
	Industry string
	Year     int
	Err      error
}

func (e *LookupError) Error() string {
	if e.Year == 0 {
		return fmt.Sprintf("%s: %s", e.Err, e.Industry)
	}
	return fmt.Sprintf("%s: %s %d", e.Err, e.Industry, e.Year)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error indicates a missing industry or year.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrIndustryNotFound) ||
		errors.Is(err, ErrYearNotAvailable) ||
		errors.Is(err, ErrNoRecords)
}
