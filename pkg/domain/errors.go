package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session ID cannot be found in the roster source.
	ErrSessionNotFound = errors.New("session not found")

	// ErrClientNotFound is returned when a preference update targets an unknown client.
	ErrClientNotFound = errors.New("client not found")

	// ErrTemplateNotFound is returned when a template type is not registered.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrCacheMiss is returned by cache adapters when no entry exists for a key.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable wraps backend failures of the blueprint cache.
	// Callers treat it as a miss and continue uncached.
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// MinClients is the smallest roster the engine will plan for.
const MinClients = 2

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

// aggregate returns nil for no errors, the error itself for one,
// and an AggregateError otherwise.
func aggregate(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return &AggregateError{Errors: errs}
}

// InsufficientDataError is returned when a session has too few clients to plan a group workout.
type InsufficientDataError struct {
	SessionID string
	Clients   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("session %q has %d client(s), need at least %d", e.SessionID, e.Clients, MinClients)
}

// IsValidation reports whether err is a ValidationError or an AggregateError.
func IsValidation(err error) bool {
	var ve *ValidationError
	var ae *AggregateError
	return errors.As(err, &ve) || errors.As(err, &ae)
}
