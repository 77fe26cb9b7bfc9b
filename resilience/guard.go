package resilience

import (
	"context"
	"time"
)

// Guard composes a circuit breaker and a timeout around a call.
// The breaker is outermost so rejected calls never start the timer.
type Guard struct {
	breaker *CircuitBreaker
	timeout *Timeout
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// NewGuard creates a Guard. With no options Execute simply calls op.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithCircuitBreaker adds a circuit breaker to the guard.
func WithCircuitBreaker(cb *CircuitBreaker) GuardOption {
	return func(g *Guard) {
		g.breaker = cb
	}
}

// WithTimeout bounds each call. A non-positive duration disables it.
func WithTimeout(timeout time.Duration) GuardOption {
	return func(g *Guard) {
		if timeout > 0 {
			g.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
		}
	}
}

// Breaker returns the configured circuit breaker, or nil.
func (g *Guard) Breaker() *CircuitBreaker {
	return g.breaker
}

// Execute runs op through the configured patterns.
func (g *Guard) Execute(ctx context.Context, op func(context.Context) error) error {
	call := op
	if g.timeout != nil {
		call = func(ctx context.Context) error {
			return g.timeout.Execute(ctx, op)
		}
	}
	if g.breaker != nil {
		return g.breaker.Execute(ctx, call)
	}
	return call(ctx)
}
