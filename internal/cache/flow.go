package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"ikigai/config"
	"ikigai/internal/onboarding"
	pkgerrors "ikigai/pkg/errors"
	"ikigai/storage/redis"
)

const flowPrefix = "onboarding"

func flowTTL() time.Duration {
	return time.Duration(config.Cfg.OnboardingFlowTTLMinutes) * time.Minute
}

// SaveFlow stores an onboarding flow snapshot.
// Key: ikigai:onboarding:flow:{flow_id}, TTL refreshed on every save so
// an active flow never expires under the user.
func SaveFlow(ctx context.Context, flowID string, snap onboarding.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return redis.Client().Set(ctx, redis.Key(flowPrefix, "flow", flowID), raw, flowTTL()).Err()
}

// GetFlow restores a flow snapshot, OnboardingFlowNotFound when the flow
// never existed or already expired.
func GetFlow(ctx context.Context, flowID string) (onboarding.Snapshot, error) {
	var snap onboarding.Snapshot

	raw, err := redis.Client().Get(ctx, redis.Key(flowPrefix, "flow", flowID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return snap, pkgerrors.OnboardingFlowNotFound
	}
	if err != nil {
		return snap, err
	}

	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap, pkgerrors.OnboardingFlowNotFound
	}
	return snap, nil
}

// DeleteFlow drops a finished flow.
func DeleteFlow(ctx context.Context, flowID string) error {
	return redis.Client().Del(ctx, redis.Key(flowPrefix, "flow", flowID)).Err()
}
