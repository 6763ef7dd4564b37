package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), DefaultConfig(), func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q, want %q", result, "ok")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoNonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	wantErr := errors.New("fatal")
	_, err := Do(context.Background(), DefaultConfig(), func() (string, error) {
		calls++
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (non-retryable must not retry)", calls)
	}
}

func TestDoRetriesRetryableErrors(t *testing.T) {
	cfg := Config{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2.0,
	}

	calls := 0
	result, err := Do(context.Background(), cfg, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, Retryable(errors.New("transient"))
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if result != 42 {
		t.Errorf("result = %d, want 42", result)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsRetriesAndUnwraps(t *testing.T) {
	cfg := Config{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
		Multiplier: 2.0,
	}

	inner := errors.New("still failing")
	calls := 0
	_, err := Do(context.Background(), cfg, func() (string, error) {
		calls++
		return "", Retryable(inner)
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", calls)
	}
	if !errors.Is(err, inner) {
		t.Errorf("err = %v, want unwrapped %v", err, inner)
	}
	if IsRetryable(err) {
		t.Error("final error should be unwrapped from the retryable marker")
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	cfg := Config{
		MaxRetries: 5,
		BaseDelay:  time.Hour, // would block without cancellation
		MaxDelay:   time.Hour,
		Multiplier: 2.0,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, cfg, func() (string, error) {
		return "", Retryable(errors.New("transient"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
	if !IsRetryable(Retryable(errors.New("wrapped"))) {
		t.Error("wrapped error should be retryable")
	}
}

func TestCalculateDelayCapped(t *testing.T) {
	cfg := Config{
		BaseDelay:  time.Second,
		MaxDelay:   4 * time.Second,
		Multiplier: 2.0,
	}
	// attempt 10 would be 1024s uncapped
	if d := cfg.calculateDelay(10); d > cfg.MaxDelay {
		t.Errorf("delay = %v, want <= %v", d, cfg.MaxDelay)
	}
}

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(10.0)
	if rl == nil {
		t.Fatal("NewRateLimiter returned nil")
	}

	// First call should not block
	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first Wait took %v, want immediate", elapsed)
	}
}

func TestRateLimiterSpacing(t *testing.T) {
	rl := NewRateLimiter(10.0) // 100ms interval

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
	}
	// Three requests at 10/s should take at least ~200ms
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("3 requests took %v, want >= 150ms", elapsed)
	}
}

func TestRateLimiterCancellation(t *testing.T) {
	rl := NewRateLimiter(1.0)
	_ = rl.Wait(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}
