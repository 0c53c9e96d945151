// ABOUTME: Custom error types for the analysis core
// ABOUTME: Maps fault categories onto terminal record statuses at the manager boundary

package errors

import (
	"errors"
	"fmt"
)

// ParseError indicates malformed input (HTML, feed XML, JSON payload).
// Parse failures degrade to partial records, they never abort a batch.
type ParseError struct {
	Format  string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error (%s): %s", e.Format, e.Message)
}

// TransportError surfaces a failure from the fetch collaborator.
// It is terminal for the request; retry policy belongs to the fetch
// layer, not the core.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("transport error for %s: status %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Blocked reports whether the transport error looks like an access
// denial rather than a generic failure.
func (e *TransportError) Blocked() bool {
	switch e.StatusCode {
	case 401, 403, 429:
		return true
	}
	return false
}

// ValidationError indicates a feed candidate that resolved to
// non-feed content during discovery.
type ValidationError struct {
	URL     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.URL, e.Message)
}

// IsParse checks if an error is a ParseError.
func IsParse(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsTransport checks if an error is a TransportError.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsBlocked checks if an error is a TransportError caused by an
// access denial (401/403/429).
func IsBlocked(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr) && transportErr.Blocked()
}

// IsValidation checks if an error is a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
