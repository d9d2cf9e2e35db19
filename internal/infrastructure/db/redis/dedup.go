package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDedupTTL bounds how long a processed event id is remembered.
const DefaultDedupTTL = 24 * time.Hour

// DedupChecker implements ports.Deduplicator backed by Redis.
// Key format: dedup:event:<event_id>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client, ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &DedupChecker{client: client, ttl: ttl}
}

// Seen reports whether the event has already been processed.
func (d *DedupChecker) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, key(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the event has been processed.
func (d *DedupChecker) Mark(ctx context.Context, eventID string) error {
	return d.client.Set(ctx, key(eventID), "1", d.ttl).Err()
}

func key(eventID string) string {
	return "dedup:event:" + eventID
}
