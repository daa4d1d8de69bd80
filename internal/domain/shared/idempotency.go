package shared

import (
	"context"
	"time"
)

// IdempotencyStore records which event IDs the fee pipeline has already
// handled, so a redelivered approval event does not generate twice.
type IdempotencyStore interface {
	// MarkProcessed claims an event ID for processing with a TTL.
	// Returns true if the ID was newly claimed, false if it was already held.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether an event ID is currently claimed
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Remove releases a claimed event ID. Handlers call this after a
	// failure so an outbox retry or an operator requeue is not skipped
	// as a duplicate.
	Remove(ctx context.Context, eventID string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL bounds how long a claimed event ID is remembered. After it
	// expires the same ID would be handled again; the fee record
	// uniqueness key suppresses the duplicate in that case.
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
