package redis

import (
	"context"
	"time"
)

// TryLock attempts to acquire a named lock with an expiration, used
// both by the upstream single-concurrency gate and the per-shortcode
// enrichment lock.
func TryLock(ctx context.Context, key, value string, expiration time.Duration) (bool, error) {
	return Rdb.SetNX(ctx, key, value, expiration).Result()
}

// Unlock releases a lock only if it is still held by value, so a
// caller never releases a lock it no longer owns.
func Unlock(ctx context.Context, key, value string) error {
	return Rdb.Eval(ctx,
		"if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end",
		[]string{key}, value).Err()
}
