package fga

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/fgakit/authz"
	"github.com/kbukum/fgakit/cache"
	"github.com/kbukum/fgakit/logger"
	"github.com/kbukum/fgakit/observability"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client's logger. Defaults to logger.Get("fga").
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithResultCache stores successful check results in store for ttl,
// keyed by Fingerprint. A ttl of 0 keeps entries until they are invalidated
// by Grant or Revoke.
func WithResultCache(store cache.Store[Response], ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// WithMetrics records call metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracer sets the tracer used for client spans. Defaults to
// observability.Tracer().
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithRelationMapper replaces the action to relation table used by Check.
// It takes precedence over Config.StrictActions.
func WithRelationMapper(m *authz.RelationMapper) Option {
	return func(c *Client) { c.relations = m }
}
