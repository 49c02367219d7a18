// Package idempotency provides a small guard against duplicate processing of
// the same logical operation, keyed by a caller-supplied identifier.
//
// It is mainly used by message consumers to skip events that were already
// handled (at-least-once delivery makes duplicates a normal occurrence).
package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Idempotency marks operations as seen and reports duplicates.
type Idempotency interface {
	// Acquire marks the key as processed and reports whether this caller won.
	// It returns false when the key was already marked within its TTL.
	Acquire(ctx context.Context, key string) (bool, error)
	// Release removes the mark so the operation may be retried.
	Release(ctx context.Context, key string) error
}

// Redis is an Idempotency implementation backed by Redis SET NX.
type Redis struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed idempotency guard.
//
// Keys are stored under prefix with the given TTL. A non-positive TTL
// defaults to 24 hours.
func NewRedis(client redis.Cmdable, prefix string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Redis{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Acquire marks the key as processed using SET NX.
func (r *Redis) Acquire(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, r.prefix+key, 1, r.ttl).Result()
}

// Release removes the mark so a failed operation can be reprocessed.
func (r *Redis) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
