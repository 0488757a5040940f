// Package cache provides the explicit cache interface used by the service
// layer: values are stored under (namespace, key) pairs, invalidated one key
// at a time or a whole namespace at once, synchronously on write paths.
package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache stores serialized values under namespaced keys.
type Cache interface {
	// Get returns the value stored under ns/key, or ErrMiss.
	Get(ctx context.Context, ns, key string) ([]byte, error)

	// Set stores value under ns/key with the cache's configured TTL.
	Set(ctx context.Context, ns, key string, value []byte) error

	// Invalidate removes a single key. Missing keys are not an error.
	Invalidate(ctx context.Context, ns, key string) error

	// InvalidateAll removes every key in the namespace.
	InvalidateAll(ctx context.Context, ns string) error
}
