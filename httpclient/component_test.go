package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kbukum/fgakit/component"
	"github.com/kbukum/fgakit/errors"
	"github.com/kbukum/fgakit/resilience"
)

func TestComponent_Lifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	comp := NewComponent(Config{Name: "fga-http", BaseURL: srv.URL})
	if comp.Name() != "fga-http" {
		t.Errorf("unexpected name %q", comp.Name())
	}

	if h := comp.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before Start, got %s", h.Status)
	}
	if _, err := comp.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("expected INTERNAL_ERROR before Start, got %v", err)
	}

	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if comp.Adapter() == nil {
		t.Fatal("expected adapter after Start")
	}
	if h := comp.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}

	resp, err := comp.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Errorf("unexpected %v %v", resp, err)
	}

	if err := comp.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestComponent_DegradedWhenCircuitOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cb := resilience.CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Hour}
	comp := NewComponent(Config{BaseURL: srv.URL, CircuitBreaker: &cb})
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	_, _ = comp.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})

	h := comp.Health(context.Background())
	if h.Status != component.StatusDegraded || h.Message != "circuit open" {
		t.Errorf("expected degraded with open circuit, got %+v", h)
	}
}

func TestComponent_StartFailsOnBadConfig(t *testing.T) {
	comp := NewComponent(Config{TLS: &TLSConfig{KeyFile: "key.pem"}})
	if err := comp.Start(context.Background()); err == nil {
		t.Error("expected Start to fail")
	}
	if err := comp.Stop(context.Background()); err != nil {
		t.Errorf("Stop without Start should be a no-op, got %v", err)
	}
}

func TestComponent_Describe(t *testing.T) {
	d := NewComponent(Config{BaseURL: "http://fga:8080"}).Describe()
	if d.Name != "http" || d.Type != "http-adapter" || d.Details != "http://fga:8080" {
		t.Errorf("unexpected description %+v", d)
	}
}
