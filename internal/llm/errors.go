package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyPrompt is returned when a request carries no prompt text.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// AuthError represents missing or rejected provider credentials.
type AuthError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s auth error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s auth error: %s", e.Provider, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// RateLimitError represents provider throttling (HTTP 429).
// RetryAfter is the wait the provider asked for, zero when it sent none.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Message    string
	Cause      error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limited: %s (retry after %s)", e.Provider, e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("%s rate limited: %s", e.Provider, e.Message)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// TimeoutError represents a request that did not complete within its deadline.
type TimeoutError struct {
	Provider string
	Cause    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s request timed out: %v", e.Provider, e.Cause)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// TransportError represents a network-level failure or an unexpected
// provider response that is neither auth nor throttling related.
type TransportError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s transport error (HTTP %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s transport error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s transport error: %s", e.Provider, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is a transient provider failure worth
// one more attempt (throttling or timeout). Auth and transport errors
// are never retried.
func IsRetryable(err error) bool {
	var rateErr *RateLimitError
	var timeoutErr *TimeoutError
	return errors.As(err, &rateErr) || errors.As(err, &timeoutErr)
}
