package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker is a best-effort mutual exclusion primitive keyed by string. It
// deduplicates concurrent analysis runs; it is not a correctness guarantee,
// persistence stays idempotent-by-overwrite regardless.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type RedisLock struct {
	rdb *redis.Client
}

func NewRedisLock(rdb *redis.Client) *RedisLock {
	return &RedisLock{rdb: rdb}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, key, "1", ttl).Result()
}

func (l *RedisLock) Release(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, key).Err()
}
