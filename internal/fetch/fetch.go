// Package fetch provides shared JSON-over-HTTP request handling.
// This package centralizes the HTTP POST logic used by the LLM and
// search provider clients.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response body is kept for diagnostics.
const maxErrorBody = 512

// Error represents an error during an HTTP exchange.
type Error struct {
	URL        string
	StatusCode int           // zero for pre-response failures
	RetryAfter time.Duration // from the Retry-After header, zero when absent
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("request to %s failed: HTTP %d: %s", e.URL, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("request to %s failed: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("request to %s failed: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the error was caused by a deadline or network timeout.
func (e *Error) Timeout() bool {
	if e.Cause == nil {
		return false
	}
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	return os.IsTimeout(e.Cause)
}

// Options configures request behavior.
type Options struct {
	Timeout time.Duration
	Headers map[string]string
	Client  *http.Client // overrides Timeout when set; used by tests
}

// DefaultOptions returns sensible defaults for JSON API calls.
func DefaultOptions() *Options {
	return &Options{Timeout: DefaultTimeout}
}

// PostJSON sends payload as a JSON POST body to url and decodes the
// 2xx response body into out (skipped when out is nil). Any failure is
// returned as *Error carrying the status code and Retry-After hint so
// callers can map it onto their own error taxonomy.
func PostJSON(ctx context.Context, url string, payload any, out any, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{URL: url, Message: "failed to encode request body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &Error{URL: url, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return &Error{URL: url, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{URL: url, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			URL:        url,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    truncate(string(respBody), maxErrorBody),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{URL: url, Message: "failed to decode response body", Cause: err}
	}

	return nil
}

// parseRetryAfter handles the delay-seconds form of the Retry-After header.
// The HTTP-date form is rare on API endpoints and is ignored.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
