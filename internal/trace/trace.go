// Package trace gives components named tracers on top of the provider that
// logger.InitWithConfig installs, so middleware spans and log records share
// trace ids.
package trace

import (
	"context"

	"bullbear-qa/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationPrefix = "bullbear-qa/"

// Tracer returns the tracer for a component, e.g. "llm" or "marketdata".
func Tracer(component string) trace.Tracer {
	return otel.Tracer(instrumentationPrefix + component)
}

// StartSpan opens a span owned by component. When tracing is disabled the
// context is returned unchanged together with its current (possibly no-op) span.
func StartSpan(ctx context.Context, component, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !logger.IsTracingEnabled() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return Tracer(component).Start(ctx, spanName, trace.WithAttributes(attrs...))
}
