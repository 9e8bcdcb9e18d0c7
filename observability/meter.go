package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/fgakit/logger"
	"github.com/kbukum/fgakit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
	Environment    string `mapstructure:"environment"`
	// Endpoint is the OTLP HTTP collector host:port.
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
	// Interval is the export interval. Zero uses the SDK default.
	Interval time.Duration `mapstructure:"interval"`
}

// DefaultMeterConfig returns a config for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "0.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a periodic OTLP/HTTP meter provider as the otel global.
// Shut the returned provider down on exit.
func InitMeter(ctx context.Context, cfg *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("Meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns fgakit's meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName, metric.WithInstrumentationVersion(version.Get().Version))
}

// Metric names.
const (
	MetricRequests     = "fga.client.requests"
	MetricDuration     = "fga.client.duration"
	MetricInFlight     = "fga.client.in_flight"
	MetricDecisions    = "fga.check.decisions"
	MetricCacheLookups = "fga.cache.lookups"
)

// Metrics holds the client's instruments. A nil *Metrics records nothing.
type Metrics struct {
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	inFlight     metric.Int64UpDownCounter
	decisions    metric.Int64Counter
	cacheLookups metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.Int64Counter(MetricRequests,
		metric.WithDescription("Authorization service calls by operation and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRequests, err)
	}
	duration, err := meter.Float64Histogram(MetricDuration,
		metric.WithDescription("Duration of authorization service calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricDuration, err)
	}
	inFlight, err := meter.Int64UpDownCounter(MetricInFlight,
		metric.WithDescription("Authorization service calls in progress"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricInFlight, err)
	}
	decisions, err := meter.Int64Counter(MetricDecisions,
		metric.WithDescription("Check decisions by relation and result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricDecisions, err)
	}
	cacheLookups, err := meter.Int64Counter(MetricCacheLookups,
		metric.WithDescription("Result cache lookups by hit or miss"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricCacheLookups, err)
	}

	return &Metrics{
		requests:     requests,
		duration:     duration,
		inFlight:     inFlight,
		decisions:    decisions,
		cacheLookups: cacheLookups,
	}, nil
}

// RecordStart marks a call as in flight.
func (m *Metrics) RecordStart(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.inFlight.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordEnd records a finished call. outcome is "ok" or an error code.
func (m *Metrics) RecordEnd(ctx context.Context, operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	op := attribute.String("operation", operation)
	m.inFlight.Add(ctx, -1, metric.WithAttributes(op))
	m.requests.Add(ctx, 1, metric.WithAttributes(op, attribute.String("outcome", outcome)))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(op))
}

// RecordDecision counts a check result.
func (m *Metrics) RecordDecision(ctx context.Context, relation string, allowed bool) {
	if m == nil {
		return
	}
	m.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("relation", relation),
		attribute.Bool("allowed", allowed),
	))
}

// RecordCacheLookup counts a result cache lookup.
func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}
