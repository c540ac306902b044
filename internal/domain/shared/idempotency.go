package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs have been handled, so
// at-least-once deliveries such as payment webhooks are processed once.
type IdempotencyStore interface {
	// MarkProcessed records the event ID for ttl. It reports true when
	// the ID was newly recorded and false when it was already present.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID has been recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls webhook deduplication. After TTL elapses
// the same event ID is accepted again.
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig enables deduplication with a 24 hour window.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
