package webhook

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"callnotify/pkg/utils"
)

// Deduper decides whether this delivery is the first one seen for a
// conversation. The provider redelivers call-ended events on slow responses,
// and a redelivered event must not produce a second SMS.
type Deduper interface {
	// Claim returns true if this caller won the delivery for the given
	// conversation id.
	Claim(ctx context.Context, conversationID string) (bool, error)
}

// RedisDeduper claims conversation ids in Redis with a TTL. The TTL only
// needs to outlive the provider's retry window.
type RedisDeduper struct {
	RDB *redis.Client
	TTL time.Duration
}

const dedupKeyPrefix = "callnotify:webhook:"

func NewRedisDeduper(rdb *redis.Client, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduper{RDB: rdb, TTL: ttl}
}

func (d *RedisDeduper) Claim(ctx context.Context, conversationID string) (bool, error) {
	return utils.ClaimOnce(ctx, d.RDB, dedupKeyPrefix+conversationID, d.TTL)
}
