package observe

import (
	"context"
	"time"
)

// ResolveFunc performs one resolution. It fills in meta as it learns the
// carrier, outcome and subject.
type ResolveFunc func(ctx context.Context, meta *ResolveMeta) error

// Middleware wraps resolutions with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Context: the span context is propagated into the ResolveFunc.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware. Nil components are replaced
// with no-op implementations.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewTracer(nil)
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NopMiddleware returns a Middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(nil, nil, nil)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Metrics returns the metrics recorder.
func (m *Middleware) Metrics() Metrics {
	return m.metrics
}

// Logger returns the logger.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// Observe runs fn inside a span named after mode and records its outcome.
func (m *Middleware) Observe(ctx context.Context, mode string, fn ResolveFunc) error {
	meta := ResolveMeta{Mode: mode}
	ctx, span := m.tracer.StartSpan(ctx, meta)

	start := time.Now()
	err := fn(ctx, &meta)
	duration := time.Since(start)

	if meta.Outcome == "" {
		meta.Outcome = "ok"
		if err != nil {
			meta.Outcome = "error"
		}
	}

	m.tracer.EndSpan(span, meta, err)
	m.metrics.RecordResolution(ctx, meta, duration, err)

	fields := []Field{
		{Key: "mode", Value: meta.Mode},
		{Key: "carrier", Value: meta.Carrier},
		{Key: "outcome", Value: meta.Outcome},
		{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
	}
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err})
		m.logger.Warn(ctx, "profile resolution failed", fields...)
	} else {
		fields = append(fields, Field{Key: "identity_id", Value: meta.Subject})
		m.logger.Debug(ctx, "profile resolved", fields...)
	}

	return err
}
