package httpclient

import (
	"context"

	"github.com/kbukum/fgakit/component"
	"github.com/kbukum/fgakit/errors"
	"github.com/kbukum/fgakit/resilience"
)

// Component wraps an Adapter with lifecycle management. It also satisfies
// Doer, so it can be handed to a client before Start is called.
type Component struct {
	adapter *Adapter
	config  Config
	opts    []Option
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
	_ Doer                  = (*Component)(nil)
)

// NewComponent creates a component whose adapter is built in Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.Name == "" {
		return defaultName
	}
	return c.config.Name
}

// Start builds the adapter.
func (c *Component) Start(_ context.Context) error {
	a, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.adapter = a
	return nil
}

// Stop releases the adapter's idle connections.
func (c *Component) Stop(ctx context.Context) error {
	if c.adapter == nil {
		return nil
	}
	return c.adapter.Close(ctx)
}

// Health reports unhealthy before Start and degraded while the circuit is open.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.adapter == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case c.adapter.CircuitState() == resilience.StateOpen:
		h.Status = component.StatusDegraded
		h.Message = "circuit open"
	}
	return h
}

// Describe returns the component description.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "http-adapter",
		Details: c.config.BaseURL,
	}
}

// Do forwards to the adapter.
func (c *Component) Do(ctx context.Context, req Request) (*Response, error) {
	if c.adapter == nil {
		return nil, errors.New(errors.ErrCodeInternal, "http adapter "+c.Name()+" used before Start")
	}
	return c.adapter.Do(ctx, req)
}

// Adapter returns the underlying adapter, nil before Start.
func (c *Component) Adapter() *Adapter {
	return c.adapter
}
