package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for the runtime.
const defaultTracerName = "reactor"

// Tracer wraps an OpenTelemetry tracer with the span shapes the runtime emits.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer resolves a tracer from the global provider. An empty name uses
// "reactor".
func NewTracer(name string) *Tracer {
	if name == "" {
		name = defaultTracerName
	}
	return &Tracer{tracer: otel.Tracer(name)}
}

// NewTracerFromProvider resolves a tracer from an explicit provider.
func NewTracerFromProvider(tp trace.TracerProvider, name string) *Tracer {
	if name == "" {
		name = defaultTracerName
	}
	return &Tracer{tracer: tp.Tracer(name)}
}

// Span is an in-flight span. The zero value is a no-op.
type Span struct {
	span trace.Span
}

// Start begins a span with the given attributes.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span) {
	if t == nil || t.tracer == nil {
		return ctx, Span{}
	}
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, Span{span: span}
}

// SetInt records an integer attribute.
func (s Span) SetInt(key string, v int) {
	if s.span == nil {
		return
	}
	s.span.SetAttributes(attribute.Int(key, v))
}

// End finishes the span, recording err if non-nil.
func (s Span) End(err error) {
	if s.span == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}
