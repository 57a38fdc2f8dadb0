package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching services.
// Get returns ("", false, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
