package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing. It is the default:
// every lookup is a miss, so each request pays the full backend round trip,
// matching the uncached behavior of the service.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetSummary always returns "" (cache miss)
func (c *NoOpCache) GetSummary(ctx context.Context, key string) (string, error) {
	return "", nil
}

// SetSummary does nothing and always succeeds
func (c *NoOpCache) SetSummary(ctx context.Context, key, summary string, ttl time.Duration) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
