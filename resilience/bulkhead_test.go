package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkhead_BoundsConcurrency(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "hasher", MaxConcurrent: 2, MaxWait: time.Second})

	var running, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				n := atomic.AddInt32(&running, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&running, -1)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Errorf("expected at most 2 concurrent calls, saw %d", peak)
	}
	if b.InUse() != 0 {
		t.Errorf("expected all slots released, %d in use", b.InUse())
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	var rejected atomic.Int32
	b := NewBulkhead(BulkheadConfig{
		Name:          "hasher",
		MaxConcurrent: 1,
		OnReject:      func(string, error) { rejected.Add(1) },
	})

	hold := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}
	if !IsRejection(err) {
		t.Error("expected IsRejection to be true")
	}
	if rejected.Load() != 1 {
		t.Errorf("expected OnReject once, got %d", rejected.Load())
	}
	close(hold)
}

func TestBulkhead_TimesOutWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: 10 * time.Millisecond})

	hold := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started
	defer close(hold)

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}
}

func TestBulkhead_CanceledContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := b.Execute(ctx, func() error { called = true; return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("fn must not run with a canceled context")
	}
	if IsRejection(err) {
		t.Error("cancellation is not a rejection")
	}
}

func TestExecuteWithResult(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})
	got, err := ExecuteWithResult(b, context.Background(), func() (string, error) {
		return "digest", nil
	})
	if err != nil || got != "digest" {
		t.Errorf("expected digest, got %q, %v", got, err)
	}

	boom := errors.New("boom")
	_, err = ExecuteWithResult(b, context.Background(), func() (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected fn error, got %v", err)
	}
}

func TestNewBulkhead_DefaultLimit(t *testing.T) {
	if got := NewBulkhead(BulkheadConfig{}).MaxConcurrent(); got != 10 {
		t.Errorf("expected default 10, got %d", got)
	}
}
