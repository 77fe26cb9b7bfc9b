package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces a value on cache miss.
type LoadFunc[V any] func(ctx context.Context) (V, error)

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	coalesce bool
	onLookup func(ctx context.Context, hit bool)
}

// WithCoalescing makes concurrent misses for the same key share a single
// in-flight load. Every waiter receives the same value or error, except a
// waiter whose own context ends first, which gets its context error.
func WithCoalescing(enabled bool) LoaderOption {
	return func(o *loaderOptions) {
		o.coalesce = enabled
	}
}

// WithLookupHook registers a callback invoked after every cache lookup.
func WithLookupHook(fn func(ctx context.Context, hit bool)) LoaderOption {
	return func(o *loaderOptions) {
		o.onLookup = fn
	}
}

// Loader fronts a LoadFunc with a Cache.
// On hit, returns the cached value without calling the load function.
// On miss, calls the load function and caches the result.
// Errors are NOT cached.
type Loader[V any] struct {
	cache Cache[V]
	opts  loaderOptions
	group singleflight.Group
}

// NewLoader creates a loader over cache. A nil cache disables caching.
func NewLoader[V any](cache Cache[V], opts ...LoaderOption) *Loader[V] {
	l := &Loader[V]{cache: cache}
	for _, opt := range opts {
		opt(&l.opts)
	}
	return l
}

// Load returns the cached value for key, or loads and caches it.
// The returned bool reports whether the value came from the cache.
// The cache is never locked while load runs.
func (l *Loader[V]) Load(ctx context.Context, key string, load LoadFunc[V]) (V, bool, error) {
	if l.cache == nil || ValidateKey(key) != nil {
		v, err := load(ctx)
		return v, false, err
	}

	if cached, ok := l.cache.Get(ctx, key); ok {
		l.lookup(ctx, true)
		return cached, true, nil
	}
	l.lookup(ctx, false)

	if !l.opts.coalesce {
		v, err := l.fill(ctx, key, load)
		return v, false, err
	}

	// The shared load must outlive any single waiter, so it runs detached
	// from the caller's cancellation. load must bound itself.
	ch := l.group.DoChan(key, func() (any, error) {
		return l.fill(context.WithoutCancel(ctx), key, load)
	})
	var zero V
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		return res.Val.(V), false, nil
	}
}

func (l *Loader[V]) fill(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	_ = l.cache.Set(ctx, key, v)
	return v, nil
}

func (l *Loader[V]) lookup(ctx context.Context, hit bool) {
	if l.opts.onLookup != nil {
		l.opts.onLookup(ctx, hit)
	}
}
