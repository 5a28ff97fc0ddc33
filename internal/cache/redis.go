package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect initializes a Redis client and verifies it with PING.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Deduper reports whether a key is seen for the first time within a window.
// Release gives up a claim so the next FirstSeen for the key succeeds.
type Deduper interface {
	FirstSeen(ctx context.Context, key string, window time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisDeduper claims keys with SET NX EX so concurrent instances agree.
type RedisDeduper struct {
	client redis.Cmdable
	prefix string
}

func NewRedisDeduper(client redis.Cmdable, prefix string) *RedisDeduper {
	return &RedisDeduper{client: client, prefix: prefix}
}

func (d *RedisDeduper) FirstSeen(ctx context.Context, key string, window time.Duration) (bool, error) {
	if window <= 0 {
		return true, nil
	}
	ok, err := d.client.SetNX(ctx, d.prefix+key, 1, window).Result()
	if err != nil {
		return false, fmt.Errorf("dedup %s: %w", key, err)
	}
	return ok, nil
}

func (d *RedisDeduper) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, d.prefix+key).Err(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

// NoopDeduper treats every key as new. Used when Redis is not configured.
type NoopDeduper struct{}

func (NoopDeduper) FirstSeen(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

func (NoopDeduper) Release(context.Context, string) error { return nil }
