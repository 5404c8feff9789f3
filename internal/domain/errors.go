package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDreamNotFound        = errors.New("dream not found")
	ErrEmptyDream           = errors.New("dream text is required")
	ErrUnknownPersona       = errors.New("unknown persona")
	ErrUnknownSortOption    = errors.New("unknown sort option")
	ErrUnknownGrouping      = errors.New("unknown grouping")
	ErrUnknownDreamType     = errors.New("unknown dream type")
	ErrInterpretationFailed = errors.New("interpretation failed")
)

// InterpretationFailureMessage is the only failure text shown to end users.
const InterpretationFailureMessage = "Unable to retrieve interpretation. Please check your internet connection and try again."

// NetworkError covers both transport failures and malformed completion envelopes.
type NetworkError struct {
	// Status is the HTTP status code, 0 when no response was received.
	Status int
	Reason string
	Err    error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s (status %d): %v", e.Reason, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s (status %d)", e.Reason, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	default:
		return e.Reason
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
