// Package resilience guards calls to remote dependencies.
//
// It offers a circuit breaker and a timeout, and a Guard that composes the
// two. Nothing here retries: a failed call is reported to the caller once
// and only counts against the breaker.
//
//	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    MaxFailures:  5,
//	    ResetTimeout: 30 * time.Second,
//	})
//	guard := resilience.NewGuard(
//	    resilience.WithCircuitBreaker(breaker),
//	    resilience.WithTimeout(10*time.Second),
//	)
//	err := guard.Execute(ctx, func(ctx context.Context) error {
//	    return callIdentityService(ctx)
//	})
package resilience
