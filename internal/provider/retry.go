package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	defaultAttempts       = 3
	defaultBackoffBase    = 1 * time.Second
	defaultAttemptTimeout = 30 * time.Second
)

// RetryClient wraps a Completer with per-attempt timeouts and exponential
// backoff on transient failures. Non-transient failures and context
// cancellation abort immediately.
type RetryClient struct {
	inner    Completer
	attempts int
	base     time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// RetryOption adjusts a RetryClient.
type RetryOption func(*RetryClient)

func WithAttempts(n int) RetryOption {
	return func(c *RetryClient) {
		if n > 0 {
			c.attempts = n
		}
	}
}

func WithBackoffBase(d time.Duration) RetryOption {
	return func(c *RetryClient) {
		if d > 0 {
			c.base = d
		}
	}
}

func WithAttemptTimeout(d time.Duration) RetryOption {
	return func(c *RetryClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewRetryClient(inner Completer, logger *slog.Logger, opts ...RetryOption) *RetryClient {
	if logger == nil {
		logger = slog.Default()
	}
	c := &RetryClient{
		inner:    inner,
		attempts: defaultAttempts,
		base:     defaultBackoffBase,
		timeout:  defaultAttemptTimeout,
		logger:   logger,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backoff returns the delay before retry number attempt (0-based):
// base, 2*base, 4*base, and so on.
func Backoff(base time.Duration, attempt int) time.Duration {
	return base << attempt
}

func (c *RetryClient) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			delay := Backoff(c.base, attempt-1)
			c.logger.Warn("retrying provider call",
				"attempt", attempt+1, "max_attempts", c.attempts, "delay", delay, "error", lastErr)
			c.sleep(delay)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		completion, err := c.inner.Complete(attemptCtx, req)
		cancel()
		if err == nil {
			return completion, nil
		}
		lastErr = err

		var transient *TransientError
		if !errors.As(err, &transient) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, &MaxRetriesError{Attempts: c.attempts, Err: lastErr}
}
