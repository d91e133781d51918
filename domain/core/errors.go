package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound        = errors.New("resource not found")
	ErrPatientNotFound = fmt.Errorf("%w: patient", ErrNotFound)

	// Derivation errors
	ErrDivisionByZero  = errors.New("division by zero")
	ErrNoObservations  = errors.New("series has no observed values")
	ErrUnknownBodyPart = errors.New("unknown body part")
	ErrUnknownMetric   = errors.New("unknown composition metric")

	// Ingestion errors
	ErrMalformedRow  = errors.New("malformed row")
	ErrMissingColumn = errors.New("required column missing")
)

// NewMalformedRowError describes why a source row was skipped
func NewMalformedRowError(row int, reason string) error {
	return fmt.Errorf("%w %d: %s", ErrMalformedRow, row, reason)
}

// NewMissingColumnError reports a column the loader could not find
func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, column)
}

// IsNotFoundError reports whether err wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDerivationError reports whether a metric could not be computed from its inputs
func IsDerivationError(err error) bool {
	return errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrNoObservations)
}
