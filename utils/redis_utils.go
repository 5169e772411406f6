package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/problog/problog/model"
)

type RedisClient struct {
	inner *redis.Client
}

const (
	// Hydrate payloads change on every like/collect toggle, keep the TTL short
	// so a missed invalidation self-heals quickly.
	hydrateCacheTTL = 10 * time.Minute
)

var ctx = context.Background()

func GetRedisClient() *RedisClient {
	return &RedisClient{
		inner: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
			Password: os.Getenv("REDIS_PASSWD"),
			DB:       0, // use default DB
		})}
}

func HydrateKey(userId string) string {
	return fmt.Sprintf("hydrate_%s", userId)
}

// GetHydratePayload returns the cached liked/collection membership for the
// user, or (nil, nil) on cache miss.
func (r RedisClient) GetHydratePayload(userId string) (*model.HydratePayload, error) {
	raw, err := r.inner.Get(ctx, HydrateKey(userId)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var payload model.HydratePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (r RedisClient) SetHydratePayload(userId string, payload *model.HydratePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return r.inner.Set(ctx, HydrateKey(userId), raw, hydrateCacheTTL).Err()
}

// InvalidateHydratePayload drops the cached membership, called after every
// like/collect toggle and on account deletion.
func (r RedisClient) InvalidateHydratePayload(userId string) error {
	return r.inner.Del(ctx, HydrateKey(userId)).Err()
}
