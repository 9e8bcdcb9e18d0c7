package fga

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/fgakit/authz"
	"github.com/kbukum/fgakit/cache"
	"github.com/kbukum/fgakit/errors"
	"github.com/kbukum/fgakit/httpclient"
	"github.com/kbukum/fgakit/logger"
	"github.com/kbukum/fgakit/observability"
	"github.com/kbukum/fgakit/validation"
	"github.com/kbukum/fgakit/version"
)

// HeaderRequestID carries the per-request UUID.
const HeaderRequestID = "X-Request-Id"

// Client talks to one store of the authorization service. It is safe for
// concurrent use.
type Client struct {
	cfg       Config
	transport httpclient.Doer
	relations *authz.RelationMapper
	cache     cache.Store[Response]
	cacheTTL  time.Duration
	tracer    trace.Tracer
	metrics   *observability.Metrics
	log       *logger.Logger

	last atomic.Pointer[Response]
}

var _ authz.Checker = (*Client)(nil)

// New creates a client for cfg that sends requests through transport.
func New(cfg Config, transport httpclient.Doer, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, errors.MissingField("transport")
	}

	c := &Client{cfg: cfg, transport: transport}
	for _, opt := range opts {
		opt(c)
	}
	if c.relations == nil {
		var mopts []authz.MapperOption
		if cfg.StrictActions {
			mopts = append(mopts, authz.Strict())
		}
		c.relations = authz.DefaultRelationMapper(mopts...)
	}
	if c.tracer == nil {
		c.tracer = observability.Tracer()
	}
	if c.log == nil {
		c.log = logger.Get("fga")
	}
	return c, nil
}

// Check asks whether user has the relation that action maps to on the
// entity. "delete" in any casing checks catalog_entity_delete; every other
// action checks catalog_entity_read unless the client is strict.
//
// A non-2xx answer fails with a TRANSPORT_ERROR whose message contains the
// status code. On success the reply is stored as the last check result and
// in the result cache, if one is configured.
func (c *Client) Check(ctx context.Context, entityName, action string, user User) (*Response, error) {
	relation, err := c.relations.Relation(action)
	if err != nil {
		return nil, err
	}
	if err := validateTuple(entityName, user); err != nil {
		return nil, err
	}
	tuple := c.tuple(user, relation, entityName)

	ctx, op := observability.StartOperation(ctx, c.tracer, c.metrics, observability.SpanCheck, c.spanAttrs(tuple)...)
	resp, err := c.post(ctx, "check", CheckRequest{
		TupleKey:             tuple,
		AuthorizationModelID: c.cfg.AuthorizationModelID,
	}, tuple)
	if err != nil {
		op.End(ctx, err)
		return nil, err
	}

	op.SetAttributes(attribute.Bool(observability.AttrAllowed, resp.Allowed))
	c.metrics.RecordDecision(ctx, relation, resp.Allowed)
	c.last.Store(resp.clone())
	c.remember(ctx, user, tuple, resp)
	op.End(ctx, nil)
	return resp, nil
}

// Grant writes the tuple (user, accessType, object). accessType is used as
// the relation verbatim.
//
// The decoded reply is returned whenever the body is valid JSON, including
// together with the TRANSPORT_ERROR of a non-2xx answer.
func (c *Client) Grant(ctx context.Context, entityName, accessType string, user User) (*Response, error) {
	return c.write(ctx, writeGrant, entityName, accessType, user)
}

// Revoke deletes the tuple (user, accessType, object). It behaves like Grant.
func (c *Client) Revoke(ctx context.Context, entityName, accessType string, user User) (*Response, error) {
	return c.write(ctx, writeRevoke, entityName, accessType, user)
}

// LastCheckResult returns a copy of the reply of the most recently
// completed successful Check made through this Client, or nil if none has
// completed yet. Each Client keeps its own slot; there is no process-wide
// result shared between clients.
func (c *Client) LastCheckResult() *Response {
	return c.last.Load().clone()
}

// CachedCheck returns the cached reply for the tuple Check would send,
// without contacting the service. The bool is false on a miss or when no
// result cache is configured.
func (c *Client) CachedCheck(ctx context.Context, entityName, action string, user User) (*Response, bool, error) {
	if c.cache == nil {
		return nil, false, nil
	}
	relation, err := c.relations.Relation(action)
	if err != nil {
		return nil, false, err
	}
	if err := validateTuple(entityName, user); err != nil {
		return nil, false, err
	}

	key := c.Fingerprint(user, relation, Object(c.cfg.ObjectType, entityName))
	resp, err := c.cache.Load(ctx, key)
	if err != nil {
		return nil, false, err
	}
	hit := resp != nil
	c.metrics.RecordCacheLookup(ctx, hit)
	trace.SpanFromContext(ctx).SetAttributes(attribute.Bool(observability.AttrCacheHit, hit))
	return resp, hit, nil
}

// HasPermission implements authz.Checker on top of Check.
func (c *Client) HasPermission(ctx context.Context, subject, action, entity string) (bool, error) {
	resp, err := c.Check(ctx, entity, action, User(subject))
	if err != nil {
		return false, err
	}
	return resp.Allowed, nil
}

// Fingerprint returns the result cache key for a tuple under the client's
// authorization model.
func (c *Client) Fingerprint(user User, relation, object string) string {
	return Fingerprint(c.cfg.AuthorizationModelID, user, relation, object)
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

type writeKind string

const (
	writeGrant  writeKind = "grant"
	writeRevoke writeKind = "revoke"
)

func (c *Client) write(ctx context.Context, kind writeKind, entityName, accessType string, user User) (*Response, error) {
	if err := validation.New().
		Required("entity_name", entityName).
		User("user", string(user)).
		Relation("access_type", accessType).
		Validate(); err != nil {
		return nil, err
	}
	tuple := c.tuple(user, accessType, entityName)

	verb := "Add"
	if kind == writeRevoke {
		verb = "Revoke"
	}
	keys := &TupleKeys{TupleKeys: []WriteTupleKey{{
		TupleKey:    tuple,
		Description: fmt.Sprintf("%s %s as %s on %s", verb, user, accessType, tuple.Object),
	}}}
	body := WriteRequest{AuthorizationModelID: c.cfg.AuthorizationModelID}
	if kind == writeGrant {
		body.Writes = keys
	} else {
		body.Deletes = keys
	}

	attrs := append(c.spanAttrs(tuple), attribute.String(observability.AttrWriteKind, string(kind)))
	ctx, op := observability.StartOperation(ctx, c.tracer, c.metrics, observability.SpanWrite, attrs...)
	resp, err := c.post(ctx, "write", body, tuple)
	if err == nil {
		c.forget(ctx, user, tuple.Object)
	}
	op.End(ctx, err)
	return resp, err
}

// post sends body to /stores/{store_id}/{endpoint}. It returns the decoded
// reply whenever the body is valid JSON, together with a TRANSPORT_ERROR
// for a non-2xx status.
func (c *Client) post(ctx context.Context, endpoint string, body any, tuple TupleKey) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Internal(err)
	}

	requestID := uuid.NewString()
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String(observability.AttrRequestID, requestID))
	fields := logger.TupleFields(tuple.User, tuple.Relation, tuple.Object)
	fields[logger.FieldRequestID] = requestID

	start := time.Now()
	raw, err := c.transport.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   c.endpoint(endpoint),
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"User-Agent":    version.UserAgent(),
			HeaderRequestID: requestID,
		},
		Body: payload,
	})
	if raw == nil {
		if err == nil {
			err = errors.Internal(fmt.Errorf("transport returned neither response nor error"))
		} else if _, ok := errors.As(err); !ok {
			err = httpclient.ClassifyFailure(ctx, transportName, err)
		}
		c.log.Warn("Authorization request failed", fields, logger.ErrorFields(endpoint, err))
		return nil, err
	}

	span.SetAttributes(attribute.Int(observability.AttrStatusCode, raw.StatusCode))
	fields[logger.FieldStatus] = raw.StatusCode
	if statusErr := httpclient.ClassifyStatus(raw.StatusCode, raw.Body); statusErr != nil && err == nil {
		err = statusErr
	}

	var resp Response
	if jsonErr := json.Unmarshal(raw.Body, &resp); jsonErr != nil {
		if err == nil {
			err = errors.Parse(jsonErr).WithDetail("body", string(raw.Body))
		}
		c.log.Warn("Authorization request failed", fields, logger.ErrorFields(endpoint, err))
		return nil, err
	}
	if err != nil {
		c.log.Warn("Authorization request failed", fields, logger.ErrorFields(endpoint, err))
		return &resp, err
	}

	c.log.Debug("Authorization request completed", fields, logger.DurationFields(endpoint, time.Since(start)))
	return &resp, nil
}

func (c *Client) endpoint(name string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/stores/" + c.cfg.StoreID + "/" + name
}

func (c *Client) tuple(user User, relation, entityName string) TupleKey {
	return TupleKey{
		User:     string(user),
		Relation: relation,
		Object:   Object(c.cfg.ObjectType, entityName),
	}
}

func (c *Client) spanAttrs(t TupleKey) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(observability.AttrStoreID, c.cfg.StoreID),
		attribute.String(observability.AttrModelID, c.cfg.AuthorizationModelID),
		attribute.String(observability.AttrUser, t.User),
		attribute.String(observability.AttrRelation, t.Relation),
		attribute.String(observability.AttrObject, t.Object),
	}
}

// remember caches a copy of a check reply. Cache failures are logged, not
// returned.
func (c *Client) remember(ctx context.Context, user User, t TupleKey, resp *Response) {
	if c.cache == nil {
		return
	}
	key := c.Fingerprint(user, t.Relation, t.Object)
	if err := c.cache.Save(ctx, key, resp.clone(), c.cacheTTL); err != nil {
		c.log.Warn("Failed to cache check result", logger.ErrorFields("cache.save", err))
	}
}

// forget drops every cached check reply for user on object. Check caches
// under the mapped relation, not the written one, and a written relation
// can imply the checked ones through the model.
func (c *Client) forget(ctx context.Context, user User, object string) {
	if c.cache == nil {
		return
	}
	for _, relation := range c.relations.Relations() {
		key := c.Fingerprint(user, relation, object)
		if err := c.cache.Delete(ctx, key); err != nil {
			fields := logger.TupleFields(string(user), relation, object)
			c.log.Warn("Failed to invalidate check result", fields, logger.ErrorFields("cache.delete", err))
		}
	}
}

func validateTuple(entityName string, user User) error {
	return validation.New().
		Required("entity_name", entityName).
		User("user", string(user)).
		Validate()
}
