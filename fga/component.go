package fga

import (
	"context"

	"github.com/kbukum/fgakit/cache"
	"github.com/kbukum/fgakit/component"
	"github.com/kbukum/fgakit/httpclient"
	"github.com/kbukum/fgakit/logger"
)

// Component assembles a Client with its HTTP transport and, when enabled,
// its result cache, and manages their lifecycle.
type Component struct {
	client *Client
	cfg    Config
	deps   *component.Registry
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent builds the transport, the result cache and the client from
// cfg. Nothing connects until Start.
func NewComponent(cfg Config, opts ...Option) (*Component, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Get("fga")

	transport := httpclient.NewComponent(cfg.HTTPConfig(), httpclient.WithLogger(log.WithComponent("httpclient")))
	deps := component.NewRegistry()
	if err := deps.Register(transport); err != nil {
		return nil, err
	}

	store, err := cache.Open[Response](cfg.Cache, log)
	if err != nil {
		return nil, err
	}
	if store != nil {
		opts = append([]Option{WithResultCache(store, cfg.Cache.TTL)}, opts...)
		if lc, ok := store.(component.Component); ok {
			if err := deps.Register(lc); err != nil {
				return nil, err
			}
		}
	}

	client, err := New(cfg, transport, append([]Option{WithLogger(log)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Component{client: client, cfg: cfg, deps: deps}, nil
}

// Name returns the component name.
func (c *Component) Name() string { return "fga" }

// Start starts the transport and the result cache.
func (c *Component) Start(ctx context.Context) error {
	return c.deps.StartAll(ctx)
}

// Stop stops them in reverse order.
func (c *Component) Stop(ctx context.Context) error {
	return c.deps.StopAll(ctx)
}

// Health reports the worst status of the transport and the result cache.
func (c *Component) Health(ctx context.Context) component.Health {
	return component.Aggregate(c.Name(), c.deps.HealthAll(ctx))
}

// Describe returns the component description.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "fga-client",
		Details: c.cfg.BaseURL + " store=" + c.cfg.StoreID,
	}
}

// Client returns the authorization client. It can be used once Start has
// returned.
func (c *Component) Client() *Client {
	return c.client
}
