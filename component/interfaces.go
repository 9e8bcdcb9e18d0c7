package component

import (
	"context"
	"strings"
)

// HealthStatus is the coarse state reported by a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

func (s HealthStatus) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Aggregate combines the health of a component's parts under name. The
// result carries the worst status, and the messages of every part that is
// not healthy.
func Aggregate(name string, parts []Health) Health {
	out := Health{Name: name, Status: StatusHealthy}
	var msgs []string
	for _, p := range parts {
		if p.Status == StatusHealthy {
			continue
		}
		if p.Status.rank() > out.Status.rank() {
			out.Status = p.Status
		}
		msgs = append(msgs, p.Name+": "+p.Message)
	}
	out.Message = strings.Join(msgs, "; ")
	return out
}

// Component is a piece of client infrastructure that must be started before
// use: the HTTP transport, the Redis result cache, the authorization client
// that owns them. Names are unique within a Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description summarizes how a component is configured, e.g.
// {Type: "cache", Details: "redis 127.0.0.1:6379"}. An empty Name means the
// component's Name().
type Description struct {
	Name    string
	Type    string
	Details string
}

// Describable is implemented by components that can describe themselves.
type Describable interface {
	Describe() Description
}
