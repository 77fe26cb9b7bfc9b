// Package health reports whether the profile resolver's dependencies are
// usable.
//
// A Checker reports one component; an Aggregator runs a set of checkers
// concurrently under a shared deadline and folds their results into one
// Status. Handler exposes the aggregate as liveness and readiness probes:
//
//	agg := health.NewAggregator(health.AggregatorConfig{Timeout: 2 * time.Second})
//	agg.Register(auth.NewExchangeChecker(exchanger))
//	agg.Register(auth.NewCacheChecker(exchanger.Cache(), 100))
//	health.RegisterHandlers(mux, agg)
package health
