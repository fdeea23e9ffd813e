package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores generated summaries so identical content does not hit the
// backend twice. Replies are never cached; they are personalized.
type Cache interface {
	// GetSummary retrieves a cached summary by key. Empty string means miss.
	GetSummary(ctx context.Context, key string) (string, error)

	// SetSummary stores a summary with TTL.
	SetSummary(ctx context.Context, key, summary string, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// Key derives a deterministic cache key from the model and email content.
func Key(model, content string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}
