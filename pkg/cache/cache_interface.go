package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer (Redis in production).
type Cache interface {
	// Get unmarshals the cached value into dest. found is false on a miss
	// and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value as JSON with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error

	// SetNX stores value only if key does not exist. Used as a simple lock.
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	// DeleteIfValue removes key only while it still holds value. Releases a
	// SetNX lock without touching one taken over by another owner.
	DeleteIfValue(ctx context.Context, key, value string) (bool, error)

	Ping(ctx context.Context) error
}
