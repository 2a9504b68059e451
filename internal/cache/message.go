package cache

import (
	"context"
	"time"

	"ikigai/storage/redis"
)

const messagePrefix = "msg"

// TryMarkMessageProcessing claims a message id for processing. Returns
// true when this consumer won the claim, false when another delivery of
// the same message already holds or held it.
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messagePrefix, "processing", messageID)
	return redis.Client().SetNX(ctx, key, "1", ttl).Result()
}

// MarkMessageProcessed extends the claim after successful processing so
// late redeliveries keep getting skipped.
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messagePrefix, "processing", messageID)
	return redis.Client().Set(ctx, key, "done", ttl).Err()
}

// UnmarkMessageProcessing releases the claim so a failed message can be
// retried by the next delivery.
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messagePrefix, "processing", messageID)
	return redis.Client().Del(ctx, key).Err()
}
