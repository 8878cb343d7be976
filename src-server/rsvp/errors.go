package rsvp

import (
	"errors"
	"fmt"
)

var (
	// unknown access code or missing record
	ErrNotFound = errors.New("not found")
	// the group's resolved policy does not allow RSVP submission
	ErrForbidden = errors.New("rsvp not allowed for this group")
)

// ValidationError reports a request that failed a content rule before
// any write happened.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func validationErr(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
