package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"ikigai/internal/model"
	"ikigai/storage/redis"
)

const (
	identityPrefix = "identity"

	// identityVersion guards the blob layout. A stored blob with a
	// different version is treated as absent, never migrated in place.
	identityVersion = 1

	identityTTL = 30 * 24 * time.Hour
)

// identityBlob is the versioned envelope around the persisted identity.
type identityBlob struct {
	Version int         `json:"version"`
	User    *model.User `json:"user"`
}

// IdentityStore persists the bootstrap identity per user in Redis.
// Key: ikigai:identity:{user_id}.
type IdentityStore struct {
	UserID string
}

// Load restores the persisted identity. ok=false covers both a missing
// key and a blob written by a different version.
func (s IdentityStore) Load(ctx context.Context) (*model.User, bool, error) {
	raw, err := redis.Client().Get(ctx, redis.Key(identityPrefix, s.UserID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var blob identityBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, false, nil
	}
	if blob.Version != identityVersion || blob.User == nil {
		return nil, false, nil
	}
	return blob.User, true, nil
}

// Save writes the identity under the current blob version.
func (s IdentityStore) Save(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(identityBlob{Version: identityVersion, User: user})
	if err != nil {
		return err
	}
	return redis.Client().Set(ctx, redis.Key(identityPrefix, s.UserID), raw, identityTTL).Err()
}

// Clear drops the persisted identity, e.g. on sign-out.
func (s IdentityStore) Clear(ctx context.Context) error {
	return redis.Client().Del(ctx, redis.Key(identityPrefix, s.UserID)).Err()
}
