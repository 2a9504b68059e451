package cache

import (
	"context"
	"time"

	"ikigai/storage/redis"
)

const lockPrefix = "lock"

// TryLock claims a named lock via SetNX. The ttl bounds how long a
// crashed holder can keep the lock stuck.
// Key: ikigai:lock:{name}
func TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return redis.Client().SetNX(ctx, redis.Key(lockPrefix, name), 1, ttl).Result()
}

// Unlock releases a lock taken with TryLock.
func Unlock(ctx context.Context, name string) error {
	return redis.Client().Del(ctx, redis.Key(lockPrefix, name)).Err()
}
