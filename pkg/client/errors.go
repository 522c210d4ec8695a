package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when the retry attempt also fails.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during backoff.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassTransient represents statuses worth a single retry (403, 503).
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassPermanent represents statuses that fail the batch outright.
	ErrorClassPermanent ErrorClass = "permanent"

	// ErrorClassNetwork represents connection and timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// ValidationError indicates the client configuration failed a pre-flight
// check; the run never starts.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// APIError represents a failed batch request with upstream context.
// The batch yields zero records; the run continues.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mouser %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Body, e.Err)
	}
	return fmt.Sprintf("mouser %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Body)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}
