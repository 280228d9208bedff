// Package cache holds the Redis-backed cache of the last successful
// today-tasks read. One logical key is shared by the read path and the
// post-mutation invalidation; if they ever diverged the refresh contract
// would silently break.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lumacrm/backend/internal/config"
	"github.com/lumacrm/backend/internal/core/ports"
	"github.com/lumacrm/backend/internal/domain"
	"github.com/lumacrm/backend/internal/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

// KeyTodayTasks identifies the cached today query result.
const KeyTodayTasks = "tasks:today"

type todayCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewTodayCache(client *redis.Client, ttl time.Duration, log *logger.Logger) ports.TodayTasksCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &todayCache{client: client, ttl: ttl, log: log}
}

// Get returns the cached task list. Any transport or decode error counts
// as a miss; the store stays authoritative.
func (c *todayCache) Get(ctx context.Context) ([]domain.Task, bool) {
	data, err := c.client.Get(ctx, KeyTodayTasks).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warnw("today_cache_get_failed", "error", err)
		}
		return nil, false
	}

	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		c.log.Warnw("today_cache_decode_failed", "error", err)
		return nil, false
	}
	return tasks, true
}

func (c *todayCache) Set(ctx context.Context, tasks []domain.Task) {
	data, err := json.Marshal(tasks)
	if err != nil {
		c.log.Warnw("today_cache_encode_failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, KeyTodayTasks, data, c.ttl).Err(); err != nil {
		c.log.Warnw("today_cache_set_failed", "error", err)
	}
}

func (c *todayCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, KeyTodayTasks).Err(); err != nil {
		c.log.Warnw("today_cache_invalidate_failed", "error", err)
	}
}
