// internal/app/system/ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a Counter shared by every instance pointing at the same
// Redis. Each key is an INCR counter that expires with its window.
type RedisLimiter struct {
	client   redis.UniversalClient
	prefix   string
	limit    int
	duration time.Duration
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// NewRedis builds a limiter whose keys live under prefix.
func NewRedis(client redis.UniversalClient, prefix string, limit int, duration time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, duration: duration}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, fmt.Errorf("incr %s: %w", k, err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.duration).Err(); err != nil {
			return true, fmt.Errorf("expire %s: %w", k, err)
		}
	} else if ttl, err := l.client.TTL(ctx, k).Result(); err == nil && ttl < 0 {
		// A previous Expire was lost; never let a counter live forever.
		_ = l.client.Expire(ctx, k, l.duration).Err()
	}
	return n <= int64(l.limit), nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+key).Err()
}
