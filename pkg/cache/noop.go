package cache

import (
	"context"
	"time"
)

// noopCache satisfies Cache without storing anything. Every read misses.
type noopCache struct{}

// NewNoop returns a cache that stores nothing.
func NewNoop() Cache {
	return noopCache{}
}

func (noopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (noopCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrCacheMiss
}

func (noopCache) Invalidate(ctx context.Context, key string) error {
	return nil
}

func (noopCache) Close() error {
	return nil
}
