package auth

import (
	"context"
	"fmt"

	"github.com/jonwraymond/dtzprofile/cache"
	"github.com/jonwraymond/dtzprofile/health"
	"github.com/jonwraymond/dtzprofile/resilience"
)

// NewExchangeChecker reports the exchanger's circuit breaker: unhealthy
// while open, degraded while probing. An exchanger without a breaker is
// always healthy.
func NewExchangeChecker(e *APIKeyExchanger) health.Checker {
	return health.CheckerFunc("api_key_exchange", func(context.Context) health.Result {
		cb := e.Breaker()
		if cb == nil {
			return health.Healthy("no circuit breaker configured")
		}

		stats := cb.Stats()
		details := map[string]any{
			"state":    stats.State.String(),
			"failures": stats.Failures,
		}
		switch stats.State {
		case resilience.StateOpen:
			return health.Unhealthy("exchange circuit open", resilience.ErrCircuitOpen).WithDetails(details)
		case resilience.StateHalfOpen:
			return health.Degraded("exchange circuit probing").WithDetails(details)
		default:
			return health.Healthy("exchange circuit closed").WithDetails(details)
		}
	})
}

// NewCacheChecker reports the profile cache fill level. It is degraded
// once the cache holds capacity entries, since further misses evict.
func NewCacheChecker(c cache.Cache[Profile], capacity int) health.Checker {
	if capacity <= 0 {
		capacity = cache.DefaultMaxEntries
	}
	return health.CheckerFunc("profile_cache", func(context.Context) health.Result {
		n := c.Len()
		details := map[string]any{"entries": n, "capacity": capacity}
		if n >= capacity {
			return health.Degraded(fmt.Sprintf("cache full (%d entries)", n)).WithDetails(details)
		}
		return health.Healthy(fmt.Sprintf("%d of %d entries", n, capacity)).WithDetails(details)
	})
}
