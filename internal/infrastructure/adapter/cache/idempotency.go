// Package cache provides the redis-backed idempotency guard used to
// deduplicate payment processor webhook deliveries.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
)

const keyPrefix = "flexipay:webhook:"

// RedisIdempotencyGuard claims webhook delivery keys with SET NX so a
// redelivered notification is processed exactly once per retention window.
type RedisIdempotencyGuard struct {
	client *redis.Client
	ttl    time.Duration
	logger coreport.Logger
}

// NewRedisIdempotencyGuard creates a guard backed by the given client. A nil
// client disables deduplication: every claim succeeds, which is safe because
// deposit confirmation is itself idempotent at the ledger level.
func NewRedisIdempotencyGuard(client *redis.Client, ttl time.Duration, logger coreport.Logger) *RedisIdempotencyGuard {
	return &RedisIdempotencyGuard{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Claim reports whether this is the first delivery of the key.
func (g *RedisIdempotencyGuard) Claim(ctx context.Context, key string) (bool, error) {
	if g.client == nil {
		return true, nil
	}

	claimed, err := g.client.SetNX(ctx, keyPrefix+key, 1, g.ttl).Result()
	if err != nil {
		g.logger.Error("Failed to claim webhook key", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return false, fmt.Errorf("failed to claim webhook key: %w", err)
	}

	if !claimed {
		g.logger.Info("Duplicate webhook delivery suppressed", map[string]any{
			"key": key,
		})
	}
	return claimed, nil
}

// Release gives the key back after a failed processing attempt so the
// sender's retry is not mistaken for a duplicate.
func (g *RedisIdempotencyGuard) Release(ctx context.Context, key string) error {
	if g.client == nil {
		return nil
	}

	if err := g.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		g.logger.Error("Failed to release webhook key", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return fmt.Errorf("failed to release webhook key: %w", err)
	}
	return nil
}

// NewRedisClient connects to redis and verifies the connection. Callers may
// treat a connection failure as non-fatal and run without deduplication.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
