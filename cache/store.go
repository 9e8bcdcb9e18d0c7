package cache

import (
	"context"
	"time"
)

// Store holds values by key. Load returns (nil, nil) for a missing or
// expired key. A TTL of 0 means no expiration.
type Store[V any] interface {
	Load(ctx context.Context, key string) (*V, error)
	Save(ctx context.Context, key string, val *V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
