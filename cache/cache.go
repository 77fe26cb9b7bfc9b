package cache

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache stores values of type V under string keys.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Expiry: entries older than the policy TTL are never returned.
// - Errors: Get should never error; it returns (zero, false) on miss.
type Cache[V any] interface {
	// Get retrieves a cached value. Returns (zero, false) on miss or expiry.
	Get(ctx context.Context, key string) (V, bool)

	// Set stores a value, evicting the least recently used entry on overflow.
	Set(ctx context.Context, key string, value V) error

	// Delete removes a cached value. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error

	// Len returns the number of live entries.
	Len() int
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
