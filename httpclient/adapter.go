package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/kbukum/fgakit/errors"
	"github.com/kbukum/fgakit/logger"
	"github.com/kbukum/fgakit/resilience"
)

// Adapter is the net/http implementation of Doer with auth, TLS, opt-in
// retry and circuit breaking, and W3C trace-context propagation.
type Adapter struct {
	httpClient *http.Client
	config     Config
	cb         *resilience.CircuitBreaker
	propagator propagation.TextMapPropagator
	log        *logger.Logger
}

var _ Doer = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the underlying *http.Client. The adapter's
// Timeout and TLS settings are not applied to a supplied client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// WithPropagator sets the propagator used to inject trace context.
// Defaults to the global otel propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(a *Adapter) { a.propagator = p }
}

// WithLogger sets the adapter's logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// New creates an adapter from cfg.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	a := &Adapter{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		config:     cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.propagator == nil {
		a.propagator = otel.GetTextMapPropagator()
	}
	if a.log == nil {
		a.log = logger.Get("httpclient")
	}
	if cfg.CircuitBreaker != nil {
		a.cb = resilience.NewCircuitBreaker(a.watchBreaker(*cfg.CircuitBreaker))
	}
	return a, nil
}

// watchBreaker logs every transition of the breaker before calling the
// configured hook.
func (a *Adapter) watchBreaker(cfg resilience.CircuitBreakerConfig) resilience.CircuitBreakerConfig {
	hook := cfg.OnStateChange
	cfg.OnStateChange = func(name string, from, to resilience.State) {
		a.log.Warn("Circuit breaker state changed", logger.Fields("breaker", name, "from", from.String(), "to", to.String()))
		if hook != nil {
			hook(name, from, to)
		}
	}
	return cfg
}

// Do sends req. A non-2xx answer is returned together with a
// TRANSPORT_ERROR; a request that got no answer returns only the error.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	if a.config.Retry == nil {
		return a.doOnce(ctx, req)
	}
	retry := *a.config.Retry
	onRetry := retry.OnRetry
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		a.log.Debug("Retrying request", logger.ErrorFields("http.do", err), map[string]interface{}{
			"attempt":    attempt,
			"backoff_ms": backoff.Milliseconds(),
		})
		if onRetry != nil {
			onRetry(attempt, err, backoff)
		}
	}
	return resilience.Retry(ctx, retry, func(ctx context.Context) (*Response, error) {
		return a.doOnce(ctx, req)
	})
}

func (a *Adapter) doOnce(ctx context.Context, req Request) (*Response, error) {
	if a.cb == nil {
		return a.execute(ctx, req)
	}
	var resp *Response
	err := a.cb.Execute(func() error {
		var execErr error
		resp, execErr = a.execute(ctx, req)
		return execErr
	})
	if err == resilience.ErrCircuitOpen {
		return nil, errors.ConnectionFailed(a.config.Name, err)
	}
	return resp, err
}

func (a *Adapter) execute(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, ClassifyFailure(ctx, a.config.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ClassifyFailure(ctx, a.config.Name, fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}
	return result, ClassifyStatus(resp.StatusCode, body)
}

func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if a.config.BaseURL != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(url, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, errors.InvalidInput("body", err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, errors.InvalidInput("url", err.Error())
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	auth := req.Auth
	if auth == nil {
		auth = a.config.Auth
	}
	if auth != nil {
		auth.Authenticate(httpReq)
	}

	a.propagator.Inject(ctx, propagation.HeaderCarrier(httpReq.Header))
	return httpReq, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// IsAvailable reports false while the circuit breaker is open.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	return a.cb == nil || a.cb.State() != resilience.StateOpen
}

// CircuitState returns the breaker state, or StateClosed when no breaker
// is configured.
func (a *Adapter) CircuitState() resilience.State {
	if a.cb == nil {
		return resilience.StateClosed
	}
	return a.cb.State()
}

// Close releases idle connections.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// Config returns the adapter's effective configuration.
func (a *Adapter) Config() Config {
	return a.config
}
