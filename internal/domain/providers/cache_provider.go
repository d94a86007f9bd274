package providers

import (
	"context"
)

// CacheProvider is the shared key/value store behind rate limiting and
// duplicate suppression when several web processes run side by side.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Increment bumps a counter and returns the new value. The expiration is
	// applied only when the counter is created.
	Increment(ctx context.Context, key string, expirationSeconds int) (int64, error)

	// TTL returns the remaining lifetime of a key, or zero if it has none
	TTL(ctx context.Context, key string) (int, error)

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}
