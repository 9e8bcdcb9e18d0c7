package component

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	order    *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.order != nil && m.startErr == nil {
		*m.order = append(*m.order, "start:"+m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.order != nil {
		*m.order = append(*m.order, "stop:"+m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health { return m.health }

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "cache", Details: "memory"}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockComponent{name: "http"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := r.Register(&mockComponent{name: "http"})
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Errorf("expected duplicate error, got %v", err)
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "fga"}
	_ = r.Register(c)
	if r.Get("fga") != c {
		t.Error("expected registered component")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown component")
	}
}

func TestStartStopOrder(t *testing.T) {
	var order []string
	r := NewRegistry()
	for _, name := range []string{"http", "cache", "fga"} {
		_ = r.Register(&mockComponent{name: name, order: &order})
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := "start:http,start:cache,start:fga,stop:fga,stop:cache,stop:http"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestStartAllStopsAtFirstError(t *testing.T) {
	var order []string
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "http", order: &order})
	_ = r.Register(&mockComponent{name: "cache", order: &order, startErr: fmt.Errorf("dial failed")})
	_ = r.Register(&mockComponent{name: "fga", order: &order})

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to start cache") {
		t.Fatalf("expected cache start error, got %v", err)
	}

	_ = r.StopAll(context.Background())
	want := "start:http,stop:http"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestStopAllCollectsErrors(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "a", stopErr: fmt.Errorf("a broke")})
	_ = r.Register(&mockComponent{name: "b", stopErr: fmt.Errorf("b broke")})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	for _, s := range []string{"a broke", "b broke"} {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("expected %q in %q", s, err.Error())
		}
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "http", health: Health{Name: "http", Status: StatusHealthy}})
	_ = r.Register(&mockComponent{name: "cache", health: Health{Name: "cache", Status: StatusDegraded, Message: "redis slow"}})

	got := r.HealthAll(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[1].Status != StatusDegraded || got[1].Message != "redis slow" {
		t.Errorf("unexpected health %+v", got[1])
	}
}

func TestDescribe(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "plain"})
	_ = r.Register(&describedComponent{mockComponent{name: "results"}})

	descs := r.Describe()
	if len(descs) != 1 {
		t.Fatalf("expected 1 description, got %d", len(descs))
	}
	if descs[0].Name != "results" || descs[0].Type != "cache" {
		t.Errorf("unexpected description %+v", descs[0])
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		parts []Health
		want  HealthStatus
		msg   string
	}{
		{"empty", nil, StatusHealthy, ""},
		{"all healthy", []Health{{Name: "a", Status: StatusHealthy}}, StatusHealthy, ""},
		{
			"degraded wins over healthy",
			[]Health{{Name: "a", Status: StatusHealthy}, {Name: "b", Status: StatusDegraded, Message: "slow"}},
			StatusDegraded, "b: slow",
		},
		{
			"unhealthy wins regardless of order",
			[]Health{{Name: "a", Status: StatusUnhealthy, Message: "down"}, {Name: "b", Status: StatusDegraded, Message: "slow"}},
			StatusUnhealthy, "a: down; b: slow",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := Aggregate("fga", tc.parts)
			if h.Name != "fga" || h.Status != tc.want || h.Message != tc.msg {
				t.Errorf("Aggregate = %+v, want status %s message %q", h, tc.want, tc.msg)
			}
		})
	}
}
