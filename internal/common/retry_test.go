package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, NewSilentLogger(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, NewSilentLogger(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	wantErr := errors.New("still broken")
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, NewSilentLogger(), func() error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected final error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_DelayIsCallLocal(t *testing.T) {
	// Two consecutive exhausting calls must take about the same time.
	// If backoff state leaked between calls, the second would start at
	// the first call's doubled delay and run measurably longer.
	run := func() time.Duration {
		start := time.Now()
		Retry(context.Background(), 3, 10*time.Millisecond, NewSilentLogger(), func() error {
			return errors.New("always fails")
		})
		return time.Since(start)
	}

	first := run()
	second := run()

	// Each call sleeps 10ms + 20ms. Shared state would push the second
	// call to 40ms + 80ms.
	if second > first*2+20*time.Millisecond {
		t.Errorf("second call took %v vs first %v, backoff state may be shared", second, first)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, 3, time.Minute, NewSilentLogger(), func() error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
}

func TestRetryValue_ReturnsValue(t *testing.T) {
	calls := 0
	got, err := RetryValue(context.Background(), 3, time.Millisecond, NewSilentLogger(), func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestRetry_MissingAPIKeyNotRetried(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, time.Minute, NewSilentLogger(), func() error {
		calls++
		return fmt.Errorf("rate fetch: %w", ErrMissingAPIKey)
	})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected missing key error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}
