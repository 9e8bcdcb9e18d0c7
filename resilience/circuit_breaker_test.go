package resilience

import (
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/fgakit/errors"
)

var errUnavailable = errors.Transport(503, nil)

func tripped(t *testing.T, timeout time.Duration) *CircuitBreaker {
	t.Helper()
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "fga", MaxFailures: 1, Timeout: timeout})
	_ = cb.Execute(func() error { return errUnavailable })
	if cb.State() != StateOpen {
		t.Fatalf("expected StateOpen, got %s", cb.State())
	}
	return cb
}

func TestCircuitBreaker_StartsClosed(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("fga"))
	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed, got %s", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "fga", MaxFailures: 3, Timeout: time.Second})
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errUnavailable })
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected StateOpen, got %s", cb.State())
	}

	err := cb.Execute(func() error {
		t.Error("function should not have been called")
		return nil
	})
	if !stderrors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "fga", MaxFailures: 2})
	for i := 0; i < 5; i++ {
		err := cb.Execute(func() error { return errors.Transport(400, nil) })
		if errors.StatusCode(err) != 400 {
			t.Fatalf("expected the 400 to pass through, got %v", err)
		}
	}
	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed, got %s", cb.State())
	}
	if cb.Failures() != 0 {
		t.Errorf("expected 0 failures, got %d", cb.Failures())
	}
}

func TestCircuitBreaker_CustomIsFailure(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures: 1,
		IsFailure:   func(error) bool { return true },
	})
	_ = cb.Execute(func() error { return stderrors.New("any") })
	if cb.State() != StateOpen {
		t.Errorf("expected StateOpen, got %s", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	cb := tripped(t, 20*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Errorf("expected StateHalfOpen, got %s", cb.State())
	}
}

func TestCircuitBreaker_ClosesAfterProbeSucceeds(t *testing.T) {
	cb := tripped(t, 10*time.Millisecond)
	time.Sleep(15 * time.Millisecond)

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed, got %s", cb.State())
	}
}

func TestCircuitBreaker_ReopensWhenProbeFails(t *testing.T) {
	cb := tripped(t, 10*time.Millisecond)
	time.Sleep(15 * time.Millisecond)

	_ = cb.Execute(func() error { return errUnavailable })
	if cb.State() != StateOpen {
		t.Errorf("expected StateOpen, got %s", cb.State())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := tripped(t, time.Hour)
	cb.Reset()
	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed after reset, got %s", cb.State())
	}
	if cb.Failures() != 0 {
		t.Errorf("expected 0 failures after reset, got %d", cb.Failures())
	}
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var (
		mu      sync.Mutex
		changes [][2]State
	)
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "fga",
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
		OnStateChange: func(name string, from, to State) {
			mu.Lock()
			changes = append(changes, [2]State{from, to})
			mu.Unlock()
		},
	})
	_ = cb.Execute(func() error { return errUnavailable })
	time.Sleep(15 * time.Millisecond)
	_ = cb.State()

	mu.Lock()
	defer mu.Unlock()
	if len(changes) < 2 {
		t.Fatalf("expected at least 2 state changes, got %d", len(changes))
	}
	if changes[0] != [2]State{StateClosed, StateOpen} {
		t.Errorf("expected closed->open, got %s->%s", changes[0][0], changes[0][1])
	}
	if changes[1] != [2]State{StateOpen, StateHalfOpen} {
		t.Errorf("expected open->half-open, got %s->%s", changes[1][0], changes[1][1])
	}
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("fga"))
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(func() error { return nil })
			_ = cb.State()
			_ = cb.Failures()
		}()
	}
	wg.Wait()
	if cb.State() != StateClosed {
		t.Errorf("expected StateClosed, got %s", cb.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}
