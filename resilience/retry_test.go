package resilience

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/fgakit/errors"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), DefaultRetryConfig(), func(context.Context) (string, error) {
		calls++
		return "allowed", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "allowed" {
		t.Errorf("expected 'allowed', got %s", result)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), fastRetry(3), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.Transport(503, nil)
		}
		return 200, nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != 200 || calls != 3 {
		t.Errorf("expected 200 after 3 calls, got %d after %d", result, calls)
	}
}

func TestRetry_DoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastRetry(5), func(context.Context) (int, error) {
		calls++
		return 0, errors.Transport(403, nil)
	})
	if calls != 1 {
		t.Errorf("expected 1 call for 403, got %d", calls)
	}
	if errors.StatusCode(err) != 403 {
		t.Errorf("expected status 403, got %d", errors.StatusCode(err))
	}
}

func TestRetry_ZeroConfigCallsOnce(t *testing.T) {
	calls := 0
	_, _ = Retry(context.Background(), RetryConfig{}, func(context.Context) (int, error) {
		calls++
		return 0, errors.Transport(500, nil)
	})
	if calls != 1 {
		t.Errorf("expected exactly 1 call with zero config, got %d", calls)
	}
	calls = 0
	_, _ = Retry(context.Background(), NoRetry(), func(context.Context) (int, error) {
		calls++
		return 0, errors.Transport(500, nil)
	})
	if calls != 1 {
		t.Errorf("expected exactly 1 call with NoRetry, got %d", calls)
	}
}

func TestRetry_ReturnsLastResultWithError(t *testing.T) {
	result, err := Retry(context.Background(), fastRetry(2), func(context.Context) (string, error) {
		return "body", errors.Transport(502, nil)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if result != "body" {
		t.Errorf("expected last result to be kept, got %q", result)
	}
}

func TestRetry_StopsWhenContextDone(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 10, InitialBackoff: 100 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := Retry(ctx, cfg, func(context.Context) (string, error) {
		calls++
		return "", errors.ConnectionFailed("fga", stderrors.New("refused"))
	})
	if !errors.Is(err, errors.ErrCodeConnectionFailed) {
		t.Errorf("expected the last attempt error, got %v", err)
	}
	if calls >= 10 {
		t.Errorf("expected fewer than 10 calls, got %d", calls)
	}
}

func TestRetry_CanceledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Retry(ctx, fastRetry(3), func(context.Context) (int, error) {
		t.Error("fn should not be called")
		return 0, nil
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetry_OnRetryCallback(t *testing.T) {
	var (
		mu      sync.Mutex
		retries []int
	)
	cfg := fastRetry(3)
	cfg.RetryIf = func(error) bool { return true }
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		mu.Lock()
		retries = append(retries, attempt)
		mu.Unlock()
	}

	_, _ = Retry(context.Background(), cfg, func(context.Context) (string, error) {
		return "", stderrors.New("boom")
	})

	mu.Lock()
	defer mu.Unlock()
	if len(retries) != 2 || retries[0] != 1 || retries[1] != 2 {
		t.Errorf("expected attempts [1 2], got %v", retries)
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		BackoffFactor:  2.0,
	}
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
	}
	for _, tt := range tests {
		if got := calculateBackoff(tt.attempt, cfg); got != tt.expected {
			t.Errorf("attempt %d: expected %v, got %v", tt.attempt, tt.expected, got)
		}
	}
}
