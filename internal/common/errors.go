// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Common application errors.
var (
	// Session errors.
	ErrAuthRequired = errors.New("authentication required")
	ErrNoSession    = errors.New("not logged in")

	// ErrInvalidCredentials is a rejected login. The login endpoint answers 401 for it.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Booking errors. The remote collaborator reuses 401/402 for these.
	ErrBookingLimit    = errors.New("booking limit reached")
	ErrSlotUnavailable = errors.New("time slot not available")

	// Payload errors.
	ErrMalformedPayload = errors.New("unexpected response shape")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError reports a local input problem found before any request is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// RemoteError is a non-2xx or malformed response from the remote collaborator.
type RemoteError struct {
	Err     error
	Path    string
	Message string
	Status  int
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Path, msg)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Path, msg, e.Status)
}

// Unwrap exposes ErrAuthRequired for 401 responses and the decode cause for malformed ones.
func (e *RemoteError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if e.Status == http.StatusUnauthorized {
		return ErrAuthRequired
	}
	return nil
}

// NetworkError is a transport failure: no response was received.
type NetworkError struct {
	Err error
	Op  string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsAuthRequired reports whether err means the caller is simply not logged in.
func IsAuthRequired(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}

// UserMessage turns an error into notification text. Being logged out is a normal
// state, so AuthRequired yields an empty message and callers stay silent.
func UserMessage(err error) string {
	if err == nil || IsAuthRequired(err) {
		return ""
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	switch {
	case errors.Is(err, ErrBookingLimit):
		return "Booking limit reached"
	case errors.Is(err, ErrSlotUnavailable):
		return "Time slot not available"
	case errors.Is(err, context.Canceled):
		return "Request canceled"
	}

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		if remoteErr.Message != "" {
			return remoteErr.Message
		}
		if errors.Is(err, ErrInvalidCredentials) {
			return "Invalid email or password"
		}
		if remoteErr.Status == 0 {
			return "The server sent an unexpected response"
		}
		return fmt.Sprintf("Request failed (%d %s)", remoteErr.Status, http.StatusText(remoteErr.Status))
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Could not reach the server"
	}

	return "Something went wrong"
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Status >= http.StatusInternalServerError
	}

	return false
}
