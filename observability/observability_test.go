package observability

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/fgakit/errors"
)

func newRecorder(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter, tp
}

func newMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := NewMetrics(mp.Meter(InstrumentationName))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %s is %T, not Sum[int64]", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestDefaultConfigs(t *testing.T) {
	tc := DefaultTracerConfig("catalog")
	if tc.ServiceName != "catalog" || tc.Endpoint != "localhost:4318" || tc.SampleRate != 1.0 || !tc.Insecure {
		t.Errorf("unexpected tracer defaults %+v", tc)
	}
	mc := DefaultMeterConfig("catalog")
	if mc.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", mc.Interval)
	}
}

func TestNewMetrics_Noop(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	m.RecordStart(ctx, SpanCheck)
	m.RecordEnd(ctx, SpanCheck, "ok", time.Millisecond)
	m.RecordDecision(ctx, "catalog_entity_read", true)
	m.RecordCacheLookup(ctx, false)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordStart(ctx, SpanCheck)
	m.RecordEnd(ctx, SpanCheck, "ok", time.Millisecond)
	m.RecordDecision(ctx, "r", false)
	m.RecordCacheLookup(ctx, true)
}

func TestMetrics_Recorded(t *testing.T) {
	m, reader := newMetrics(t)
	ctx := context.Background()

	m.RecordDecision(ctx, "catalog_entity_read", true)
	m.RecordDecision(ctx, "catalog_entity_read", false)
	m.RecordCacheLookup(ctx, true)

	got := collect(t, reader)
	if n := sumOf(t, got[MetricDecisions]); n != 2 {
		t.Errorf("expected 2 decisions, got %d", n)
	}
	if n := sumOf(t, got[MetricCacheLookups]); n != 1 {
		t.Errorf("expected 1 cache lookup, got %d", n)
	}
}

func TestOperation_Success(t *testing.T) {
	exporter, tp := newRecorder(t)
	m, reader := newMetrics(t)

	ctx, op := StartOperation(context.Background(), tp.Tracer("test"), m, SpanCheck,
		attribute.String(AttrRelation, "catalog_entity_read"))
	op.SetAttributes(attribute.Bool(AttrAllowed, true))
	op.End(ctx, nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != SpanCheck || spans[0].Status.Code == codes.Error {
		t.Errorf("unexpected span %s status %v", spans[0].Name, spans[0].Status)
	}
	if len(spans[0].Attributes) != 2 {
		t.Errorf("expected 2 attributes, got %v", spans[0].Attributes)
	}

	got := collect(t, reader)
	if n := sumOf(t, got[MetricRequests]); n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
	if n := sumOf(t, got[MetricInFlight]); n != 0 {
		t.Errorf("expected 0 in flight, got %d", n)
	}
	if _, ok := got[MetricDuration]; !ok {
		t.Error("expected duration histogram")
	}
}

func TestOperation_TransportError(t *testing.T) {
	exporter, tp := newRecorder(t)

	ctx, op := StartOperation(context.Background(), tp.Tracer("test"), nil, SpanWrite)
	op.End(ctx, errors.Transport(503, nil))

	span := exporter.GetSpans()[0]
	if span.Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", span.Status)
	}
	var status int64
	for _, kv := range span.Attributes {
		if string(kv.Key) == AttrStatusCode {
			status = kv.Value.AsInt64()
		}
	}
	if status != 503 {
		t.Errorf("expected status attribute 503, got %d", status)
	}
	if len(span.Events) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{errors.Parse(stderrors.New("eof")), "PARSE_ERROR"},
		{stderrors.New("plain"), "error"},
	}
	for _, tc := range tests {
		if got := Outcome(tc.err); got != tc.want {
			t.Errorf("Outcome(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestStartSpan_GlobalNoop(t *testing.T) {
	_, span := StartSpan(context.Background(), "noop")
	defer span.End()
	RecordError(span, stderrors.New("ignored"))
}

func TestInitTracer(t *testing.T) {
	for _, rate := range []float64{1.0, 0.5, 0} {
		cfg := DefaultTracerConfig("test")
		cfg.SampleRate = rate
		tp, err := InitTracer(context.Background(), &cfg)
		if err != nil {
			t.Fatalf("InitTracer(rate=%v): %v", rate, err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		_ = tp.Shutdown(ctx)
		cancel()
	}
}

func TestInitMeter(t *testing.T) {
	cfg := DefaultMeterConfig("test")
	mp, err := InitMeter(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("InitMeter: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = mp.Shutdown(ctx)
}
