// Package cache holds short-lived read caches in front of Postgres.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"reviwa-backend/internal/config"
	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache stores computed leaderboards per window and limit. Any
// points award invalidates every window.
type LeaderboardCache interface {
	Get(ctx context.Context, window domain.LeaderboardWindow, limit int32) ([]domain.LeaderboardEntry, bool, error)
	Set(ctx context.Context, window domain.LeaderboardWindow, limit int32, entries []domain.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

// NewLeaderboardCache returns the cache selected by cfg.Type. The returned
// close function releases the Redis connection, if any.
func NewLeaderboardCache(ctx context.Context, cfg config.CacheConfig) (LeaderboardCache, func() error, error) {
	switch cfg.Type {
	case "none", "":
		return NoopLeaderboardCache{}, func() error { return nil }, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		ttl := time.Duration(cfg.TTLSeconds) * time.Second
		return NewRedisLeaderboardCache(client, ttl), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}

type NoopLeaderboardCache struct{}

func (NoopLeaderboardCache) Get(context.Context, domain.LeaderboardWindow, int32) ([]domain.LeaderboardEntry, bool, error) {
	return nil, false, nil
}

func (NoopLeaderboardCache) Set(context.Context, domain.LeaderboardWindow, int32, []domain.LeaderboardEntry) error {
	return nil
}

func (NoopLeaderboardCache) Invalidate(context.Context) error {
	return nil
}

type redisClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

const keyPrefix = "reviwa:leaderboard:"

var windows = []domain.LeaderboardWindow{
	domain.LeaderboardAllTime,
	domain.LeaderboardMonthly,
	domain.LeaderboardYearly,
}

// RedisLeaderboardCache keeps one hash per window, keyed by limit.
type RedisLeaderboardCache struct {
	client redisClient
	ttl    time.Duration
}

func NewRedisLeaderboardCache(client redisClient, ttl time.Duration) *RedisLeaderboardCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisLeaderboardCache{client: client, ttl: ttl}
}

func (c *RedisLeaderboardCache) Get(ctx context.Context, window domain.LeaderboardWindow, limit int32) ([]domain.LeaderboardEntry, bool, error) {
	raw, err := c.client.HGet(ctx, keyPrefix+string(window), strconv.Itoa(int(limit))).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Warn("Discarding corrupt leaderboard cache entry", "window", window, "error", err)
		return nil, false, nil
	}
	return entries, true, nil
}

func (c *RedisLeaderboardCache) Set(ctx context.Context, window domain.LeaderboardWindow, limit int32, entries []domain.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	key := keyPrefix + string(window)
	if err := c.client.HSet(ctx, key, strconv.Itoa(int(limit)), raw).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *RedisLeaderboardCache) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(windows))
	for _, w := range windows {
		keys = append(keys, keyPrefix+string(w))
	}
	return c.client.Del(ctx, keys...).Err()
}
