package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryClient is a decorator that retries transient provider failures
// (rate limiting and timeouts) with exponential backoff before
// delegating to the wrapped Client. All other errors surface
// immediately.
type RetryClient struct {
	inner      Client
	maxRetries int
	baseDelay  time.Duration
}

// NewRetryClient wraps a Client with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
// A Retry-After hint from the provider takes precedence over the computed backoff.
func NewRetryClient(inner Client, maxRetries int, baseDelay time.Duration) *RetryClient {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &RetryClient{inner: inner, maxRetries: maxRetries, baseDelay: baseDelay}
}

// Complete attempts the completion, retrying on transient errors.
func (c *RetryClient) Complete(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.inner.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}
	if !IsRetryable(err) {
		return nil, err
	}

	lastErr := err
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		delay := c.backoffDelay(attempt, lastErr)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		resp, err = c.inner.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt.
// A Retry-After duration from a rate-limit response takes precedence.
func (c *RetryClient) backoffDelay(attempt int, err error) time.Duration {
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) && rateErr.RetryAfter > 0 {
		return rateErr.RetryAfter
	}

	delay := c.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

// Usage returns cumulative token usage from the wrapped client.
func (c *RetryClient) Usage() Usage {
	return c.inner.Usage()
}

// Close releases resources held by the wrapped client.
func (c *RetryClient) Close() error {
	return c.inner.Close()
}
