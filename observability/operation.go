package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/fgakit/errors"
)

// Operation ties a span to the call metrics for one client operation.
type Operation struct {
	name    string
	start   time.Time
	span    trace.Span
	metrics *Metrics
}

// StartOperation starts a client span named name on tracer and marks the
// call as in flight. metrics may be nil.
func StartOperation(ctx context.Context, tracer trace.Tracer, metrics *Metrics, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	metrics.RecordStart(ctx, name)
	return ctx, &Operation{name: name, start: time.Now(), span: span, metrics: metrics}
}

// SetAttributes adds attributes to the operation's span.
func (o *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	o.span.SetAttributes(attrs...)
}

// End records the outcome and ends the span. A failed span notes whether
// the request reached the service.
func (o *Operation) End(ctx context.Context, err error) {
	if status := errors.StatusCode(err); status != 0 {
		o.span.SetAttributes(attribute.Int(AttrStatusCode, status))
	}
	if appErr, ok := errors.As(err); ok {
		o.span.SetAttributes(attribute.Bool(AttrSent, appErr.Code.Sent()))
	}
	RecordError(o.span, err)
	o.span.End()
	o.metrics.RecordEnd(ctx, o.name, Outcome(err), time.Since(o.start))
}

// Outcome returns "ok" for a nil error, the error code for an *AppError,
// and "error" otherwise.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if appErr, ok := errors.As(err); ok {
		return string(appErr.Code)
	}
	return "error"
}
