package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

const credentialKeyPrefix = "bloodlink:session:"

// RedisBackend keeps each session's credentials in one Redis hash whose TTL is
// refreshed on every write.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisBackendOption configures a RedisBackend.
type RedisBackendOption func(*RedisBackend)

// WithTTL sets how long credentials live after the last write.
func WithTTL(ttl time.Duration) RedisBackendOption {
	return func(b *RedisBackend) {
		b.ttl = ttl
	}
}

// NewRedisBackend constructs a Redis-backed credential store.
func NewRedisBackend(client *redis.Client, opts ...RedisBackendOption) *RedisBackend {
	b := &RedisBackend{client: client, ttl: 12 * time.Hour}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func credentialKey(sid domain.SessionID) string {
	return credentialKeyPrefix + sid.String()
}

func (b *RedisBackend) Get(ctx context.Context, sid domain.SessionID, key string) (string, error) {
	v, err := b.client.HGet(ctx, credentialKey(sid), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis hget %s: %w", key, err)
	}
	return v, nil
}

func (b *RedisBackend) Set(ctx context.Context, sid domain.SessionID, key, value string) error {
	k := credentialKey(sid)
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, key, value)
		if b.ttl > 0 {
			pipe.Expire(ctx, k, b.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, sid domain.SessionID, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := b.client.HDel(ctx, credentialKey(sid), keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}
