// Package observability builds the process logger and the OpenTelemetry
// tracer provider, and wraps HTTP handlers with otelhttp.
//
// Tracing is a no-op unless TRACING_ENABLED is set and an OTLP endpoint is
// configured. Log lines written inside a traced request can carry the
// trace and span ids through TraceFields.
package observability
