package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisEventLimiter_Allow(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisEventLimiter(client, 5)

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, "overlay-key", "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "event %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "overlay-key", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed, "6th event should be denied")
}

func TestRedisEventLimiter_SeparateAddresses(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisEventLimiter(client, 2)

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "overlay-key", "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "overlay-key", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different source address gets its own window.
	allowed, err = limiter.Allow(ctx, "overlay-key", "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisEventLimiter_WindowResetRestoresCapacity(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisEventLimiter(client, 2)

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "overlay-key", "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "overlay-key", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Collapse the window's remaining TTL so it lapses immediately.
	keys, err := client.Keys(ctx, "rate:event:*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.NoError(t, client.PExpire(ctx, keys[0], time.Millisecond).Err())
	time.Sleep(20 * time.Millisecond)

	// The first call after the lapse opens a fresh window with full
	// capacity and a new expiry.
	allowed, err = limiter.Allow(ctx, "overlay-key", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	ttl, err := client.TTL(ctx, keys[0]).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
}

func TestRedisEventLimiter_ZeroLimitAllowsAll(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisEventLimiter(client, 0)

	ctx := context.Background()

	for i := 0; i < 20; i++ {
		allowed, err := limiter.Allow(ctx, "overlay-key", "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRedisEventLimiter_KeyDoesNotLeakPlaintext(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisEventLimiter(client, 5)

	ctx := context.Background()
	_, err := limiter.Allow(ctx, "super-secret-overlay-key", "10.0.0.1")
	require.NoError(t, err)

	keys, err := client.Keys(ctx, "rate:event:*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.NotContains(t, keys[0], "super-secret-overlay-key")
}
