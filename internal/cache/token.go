package cache

import (
	"context"
	"time"

	"ikigai/config"
	"ikigai/storage/redis"
)

const tokenPrefix = "token"

// SetRefreshToken stores the active refresh token for a user.
// Key: ikigai:token:refresh:{user_id}, TTL matches the refresh window.
func SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	key := redis.Key(tokenPrefix, "refresh", userID)
	ttl := time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour

	return redis.Client().Set(ctx, key, refreshToken, ttl).Err()
}

// GetRefreshToken fetches the stored refresh token for a user.
func GetRefreshToken(ctx context.Context, userID string) (string, error) {
	key := redis.Key(tokenPrefix, "refresh", userID)
	return redis.Client().Get(ctx, key).Result()
}

// DeleteRefreshToken invalidates the stored refresh token, e.g. on sign-out.
func DeleteRefreshToken(ctx context.Context, userID string) error {
	key := redis.Key(tokenPrefix, "refresh", userID)
	return redis.Client().Del(ctx, key).Err()
}

// ValidateRefreshTokenExists reports whether the presented refresh token
// matches the stored one. Rotation on refresh makes old tokens fail here.
func ValidateRefreshTokenExists(ctx context.Context, userID, refreshToken string) bool {
	stored, err := GetRefreshToken(ctx, userID)
	if err != nil {
		return false
	}
	return stored == refreshToken
}
