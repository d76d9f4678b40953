package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteError_UnwrapsAuthRequired(t *testing.T) {
	err := fmt.Errorf("session check: %w", &RemoteError{Path: "/auth/status", Status: http.StatusUnauthorized})

	assert.True(t, IsAuthRequired(err))
	assert.False(t, IsAuthRequired(&RemoteError{Path: "/x", Status: http.StatusForbidden}))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "auth required is silent", err: &RemoteError{Status: http.StatusUnauthorized}, want: ""},
		{name: "validation", err: NewValidationError("amount", "must be a positive number"), want: "amount: must be a positive number"},
		{name: "server message wins", err: &RemoteError{Status: 400, Message: "category too long"}, want: "category too long"},
		{name: "status fallback", err: &RemoteError{Status: 500}, want: "Request failed (500 Internal Server Error)"},
		{name: "malformed", err: &RemoteError{Path: "/x", Err: ErrMalformedPayload}, want: "The server sent an unexpected response"},
		{name: "network", err: &NetworkError{Op: "GET /x", Err: errors.New("dial tcp: refused")}, want: "Could not reach the server"},
		{name: "booking limit", err: fmt.Errorf("book: %w", ErrBookingLimit), want: "Booking limit reached"},
		{name: "user error", err: NewUserError("Please log in first", ErrNoSession), want: "Please log in first"},
		{name: "canceled", err: context.Canceled, want: "Request canceled"},
		{name: "unknown", err: errors.New("boom"), want: "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&NetworkError{Op: "GET", Err: errors.New("reset")}))
	assert.True(t, IsRetryable(&RemoteError{Status: http.StatusBadGateway}))
	assert.False(t, IsRetryable(&RemoteError{Status: http.StatusNotFound}))
	assert.False(t, IsRetryable(NewValidationError("type", "invalid")))
	assert.False(t, IsRetryable(&NetworkError{Op: "GET", Err: context.Canceled}))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.True(t, IsRetryable(&RetryableError{Err: &RemoteError{Status: http.StatusTooManyRequests}, Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: &RemoteError{Status: http.StatusBadGateway}, Retryable: false}))
}
