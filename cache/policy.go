package cache

import "time"

// Default bounds for the profile cache.
const (
	DefaultTTL        = time.Hour
	DefaultMaxEntries = 100
)

// Policy configures caching behavior.
type Policy struct {
	// TTL is how long an entry stays valid after insertion.
	// If zero, caching is disabled.
	TTL time.Duration

	// MaxEntries bounds the cache size. The least recently used entry is
	// evicted when a new key would exceed it.
	MaxEntries int
}

// DefaultPolicy returns the default caching policy.
// TTL: 1 hour, MaxEntries: 100
func DefaultPolicy() Policy {
	return Policy{
		TTL:        DefaultTTL,
		MaxEntries: DefaultMaxEntries,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.TTL > 0
}

// Normalize fills unset fields with defaults. TTL is left untouched so that
// a zero TTL keeps meaning "disabled".
func (p Policy) Normalize() Policy {
	if p.MaxEntries <= 0 {
		p.MaxEntries = DefaultMaxEntries
	}
	return p
}
