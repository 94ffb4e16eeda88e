/*
errors.go - Error types for the schedule engine

ERROR CATEGORIES:
  1. Invalid argument - malformed or out-of-range input (client error)
  2. Unsupported variant - unknown schedule Type (programming error; the
     variant set is closed, so reaching this indicates a build that added a
     variant without updating Validate/Occurrences)

USAGE:
  The HTTP layer maps these with errors.Is:

    if errors.Is(err, schedule.ErrInvalidArgument) { // 400 }
    if errors.Is(err, schedule.ErrUnsupportedVariant) { // 500 }

  FieldError carries the offending field name for error envelopes.
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidArgument is returned for malformed or out-of-range input to
	// any calendar primitive, and for missing/contradictory Config fields.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedVariant is returned for an unrecognized schedule Type.
	// Treated as an internal error, not a user error.
	ErrUnsupportedVariant = errors.New("unsupported schedule type")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// FieldError identifies which Config field failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrInvalidArgument }

func fieldErrorf(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}
