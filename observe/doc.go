// Package observe provides observability primitives for profile resolution.
//
// It is a pure instrumentation library: it builds OpenTelemetry tracer and
// meter providers from a Config, exposes a redacting zap-backed Logger, and
// offers a Middleware that records one span, one set of metrics and one log
// line per resolution. The auth package wires it in; nothing here inspects
// credentials.
package observe
