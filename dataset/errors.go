package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDataset is wrapped by every validation failure.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrUnknownDemo is returned for demo names that are not registered.
	ErrUnknownDemo = errors.New("unknown demo dataset")
)

// ValidationError locates a validation failure inside a document.
type ValidationError struct {
	Industry string
	Year     int
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	var loc []string
	if e.Industry != "" {
		loc = append(loc, e.Industry)
	}
	if e.Year != 0 {
		loc = append(loc, fmt.Sprint(e.Year))
	}
	if e.Field != "" {
		loc = append(loc, e.Field)
	}
	if len(loc) == 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidDataset, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidDataset, strings.Join(loc, "/"), e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDataset
}
