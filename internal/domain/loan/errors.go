package loan

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("loan not found")
	// ErrValidation covers missing reference data and malformed numeric input.
	ErrValidation = errors.New("validation error")
	// ErrComputationSkipped marks a batch item that failed and was skipped.
	ErrComputationSkipped = errors.New("computation skipped")
)

// Validationf wraps ErrValidation with a formatted reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with the identifier that was looked up.
func NotFoundf(loanID string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, loanID)
}

// Skipped wraps a batch item failure.
func Skipped(loanID string, cause error) error {
	return fmt.Errorf("%w: loan %s: %w", ErrComputationSkipped, loanID, cause)
}
