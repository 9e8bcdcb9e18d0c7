// Package observability wires OpenTelemetry tracing and metrics for the
// authorization client.
//
// InitTracer and InitMeter install OTLP/HTTP exporters as the otel globals.
// The client wraps each call in an Operation, which opens a client span
// (fga.check or fga.write) and records the call counters and latency
// histogram in Metrics.
package observability
