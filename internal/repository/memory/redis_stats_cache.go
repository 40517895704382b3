package memory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"prompt-library-be/internal/dto"
	"prompt-library-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisStatsCache shares the figures between instances so one write invalidates everywhere.
type RedisStatsCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

func NewRedisStatsCache(rdb *redis.Client, ttl time.Duration, log logger.ILogger) *RedisStatsCache {
	return &RedisStatsCache{rdb: rdb, ttl: ttl, logger: log}
}

func (c *RedisStatsCache) Get(ctx context.Context) (*dto.StatsResponse, bool) {
	raw, err := c.rdb.Get(ctx, statsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("STATS_CACHE", "Redis get failed", logger.Fields{"error": err.Error()})
		}
		return nil, false
	}
	var stats dto.StatsResponse
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

func (c *RedisStatsCache) Set(ctx context.Context, stats *dto.StatsResponse) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("STATS_CACHE", "Redis set failed", logger.Fields{"error": err.Error()})
	}
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, statsKey).Err(); err != nil {
		c.logger.Warn("STATS_CACHE", "Redis delete failed", logger.Fields{"error": err.Error()})
	}
}
