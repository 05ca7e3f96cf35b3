package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts including the first (default: 3).
	MaxAttempts int
	// InitialBackoff is the delay before the second attempt (default: 100ms).
	InitialBackoff time.Duration
	// MaxBackoff caps the delay between attempts (default: 10s).
	MaxBackoff time.Duration
	// BackoffFactor is the multiplier for exponential backoff (default: 2).
	BackoffFactor float64
	// Jitter adds up to ±Jitter of randomness to each delay (0.0 to 1.0).
	Jitter float64
	// RetryIf decides whether an error is worth another attempt.
	RetryIf func(error) bool
	// OnRetry is called before each retry.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

func (c *RetryConfig) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2.0
	}
	if c.RetryIf == nil {
		c.RetryIf = DefaultRetryIf
	}
}

// DefaultRetryIf retries all errors except context cancellation.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retry calls fn until it succeeds, the attempts run out or ctx is done.
// Returns the last error from fn when attempts run out.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	cfg.applyDefaults()

	var zero T
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !cfg.RetryIf(err) || attempt == cfg.MaxAttempts {
			break
		}

		backoff := cfg.backoff(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, backoff)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, lastErr
}

// RetryFunc executes a function that returns only an error.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// backoff returns initial * factor^(attempt-1) with jitter, capped at MaxBackoff.
func (c *RetryConfig) backoff(attempt int) time.Duration {
	d := float64(c.InitialBackoff) * math.Pow(c.BackoffFactor, float64(attempt-1))
	if c.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * c.Jitter
	}
	if d > float64(c.MaxBackoff) {
		d = float64(c.MaxBackoff)
	}
	if d <= 0 {
		d = float64(c.InitialBackoff)
	}
	return time.Duration(d)
}
