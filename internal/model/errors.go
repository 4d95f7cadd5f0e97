package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks caller contract violations (bad configuration).
	ErrInvalidInput = errors.New("invalid input")

	// ErrDeadlineExceeded is returned when a simulation does not finish
	// within its configured wall-clock budget.
	ErrDeadlineExceeded = errors.New("simulation deadline exceeded")
)

// InputError describes a rejected configuration value. It matches
// ErrInvalidInput under errors.Is.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// Invalid builds an InputError with a formatted reason.
func Invalid(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
