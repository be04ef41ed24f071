package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const ingestWindow = time.Minute

// RedisEventLimiter implements a fixed-window counter in Redis. The
// window expiry starts at the first event of the window, so a burst at
// the end of one window cannot borrow capacity from the next.
type RedisEventLimiter struct {
	client *redis.Client
	limit  int
}

func NewRedisEventLimiter(client *redis.Client, perMinute int) *RedisEventLimiter {
	return &RedisEventLimiter{
		client: client,
		limit:  perMinute,
	}
}

func (l *RedisEventLimiter) Allow(ctx context.Context, overlayKey, remoteAddr string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	key := l.windowKey(overlayKey, remoteAddr)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, ingestWindow).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate window expiry: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}

// windowKey derives the counter key from a digest of the overlay key so
// the plaintext credential never reaches Redis.
func (l *RedisEventLimiter) windowKey(overlayKey, remoteAddr string) string {
	sum := sha256.Sum256([]byte(overlayKey))
	return fmt.Sprintf("rate:event:%s:%s", hex.EncodeToString(sum[:])[:16], remoteAddr)
}
