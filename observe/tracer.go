package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ResolveMeta describes one profile resolution for telemetry purposes.
// Mode is known up front; the other fields are filled in as the
// resolution progresses.
type ResolveMeta struct {
	Mode    string // required, optional or role
	Carrier string // cookie, bearer, basic, api_key_header, query (empty if none found)
	Outcome string // ok or an error category
	Subject string // identity id on success
}

// SpanName returns the deterministic span name for this resolution.
// Format: auth.resolve.<mode>
func (m ResolveMeta) SpanName() string {
	if m.Mode == "" {
		return "auth.resolve"
	}
	return "auth.resolve." + m.Mode
}

func (m ResolveMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("auth.mode", m.Mode),
	}
	if m.Carrier != "" {
		attrs = append(attrs, attribute.String("auth.carrier", m.Carrier))
	}
	if m.Outcome != "" {
		attrs = append(attrs, attribute.String("auth.outcome", m.Outcome))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with resolution span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span for a resolution.
	StartSpan(ctx context.Context, meta ResolveMeta) (context.Context, trace.Span)

	// EndSpan attaches the final metadata, records any error and ends the span.
	EndSpan(span trace.Span, meta ResolveMeta, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer over an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		t = tracenoop.NewTracerProvider().Tracer("noop")
	}
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta ResolveMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attribute.String("auth.mode", meta.Mode)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan never records the subject; identity ids stay out of traces.
func (t *tracerImpl) EndSpan(span trace.Span, meta ResolveMeta, err error) {
	span.SetAttributes(meta.attributes()...)
	if err != nil {
		span.SetStatus(codes.Error, meta.Outcome)
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
