// Package cache provides a bounded, time-limited cache for resolved values.
//
// It provides a generic Cache interface with an LRU memory implementation,
// SHA-256-based canonical key derivation, TTL/size policies, and a Loader
// that fills the cache on miss without ever caching failures.
package cache
