package cache

import (
	"context"
	"time"
)

// Cache fronts expensive public reads (the categories-with-counts listing).
// A miss or a cache error must never fail the request.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }
func (n *Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
func (n *Noop) Delete(ctx context.Context, key string) error { return nil }
