package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verdant-labs/climate-receivables/internal/risk"
)

const redisKeyPrefix = "riskscore:"

// RedisCache implements ScoreCache backed by Redis, for deployments where
// multiple instances share one cache
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and returns a score cache over it
func NewRedisCache(addr, password string, db int, opts *Options) (*RedisCache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisCache{client: client, ttl: opts.TTL}, nil
}

func (c *RedisCache) Get(ctx context.Context, receivableID string) (*risk.Assessment, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+receivableID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached assessment: %w", err)
	}
	var a risk.Assessment
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached assessment: %w", err)
	}
	return &a, true, nil
}

func (c *RedisCache) Set(ctx context.Context, receivableID string, a risk.Assessment) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode assessment: %w", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+receivableID, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache assessment: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, receivableID string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+receivableID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached assessment: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
