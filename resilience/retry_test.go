package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	var retries []int
	cfg := fastRetry(5)
	cfg.OnRetry = func(attempt int, _ error, _ time.Duration) { retries = append(retries, attempt) }

	got, err := Retry(context.Background(), cfg, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("not yet")
		}
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Fatalf("expected 42, got %d, %v", got, err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if len(retries) != 2 || retries[0] != 1 || retries[1] != 2 {
		t.Errorf("unexpected OnRetry attempts %v", retries)
	}
}

func TestRetry_ReturnsLastError(t *testing.T) {
	calls := 0
	err := RetryFunc(context.Background(), fastRetry(3), func() error {
		calls++
		return errors.New("still down")
	})
	if err == nil || err.Error() != "still down" {
		t.Errorf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	permanent := errors.New("bad dsn")
	cfg := fastRetry(5)
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	err := RetryFunc(context.Background(), cfg, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("expected one call and permanent error, got %d calls, %v", calls, err)
	}
}

func TestRetry_HonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxAttempts: 5, InitialBackoff: time.Hour}

	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := RetryFunc(ctx, cfg, func() error {
		calls++
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
}

func TestRetryConfig_BackoffCapped(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond}
	cfg.applyDefaults()

	if got := cfg.backoff(1); got != 100*time.Millisecond {
		t.Errorf("attempt 1: expected 100ms, got %s", got)
	}
	if got := cfg.backoff(2); got != 200*time.Millisecond {
		t.Errorf("attempt 2: expected 200ms, got %s", got)
	}
	if got := cfg.backoff(5); got != 300*time.Millisecond {
		t.Errorf("attempt 5: expected cap 300ms, got %s", got)
	}
}
