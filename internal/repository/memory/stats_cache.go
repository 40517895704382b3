package memory

import (
	"context"
	"time"

	"prompt-library-be/internal/dto"

	"github.com/patrickmn/go-cache"
)

const statsKey = "stats:dashboard"

// StatsCache holds the last computed dashboard figures.
type StatsCache interface {
	Get(ctx context.Context) (*dto.StatsResponse, bool)
	Set(ctx context.Context, stats *dto.StatsResponse)
	Invalidate(ctx context.Context)
}

type LocalStatsCache struct {
	cache *cache.Cache
}

func NewLocalStatsCache(ttl time.Duration) *LocalStatsCache {
	return &LocalStatsCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *LocalStatsCache) Get(_ context.Context) (*dto.StatsResponse, bool) {
	if x, found := c.cache.Get(statsKey); found {
		return x.(*dto.StatsResponse), true
	}
	return nil, false
}

func (c *LocalStatsCache) Set(_ context.Context, stats *dto.StatsResponse) {
	c.cache.Set(statsKey, stats, cache.DefaultExpiration)
}

func (c *LocalStatsCache) Invalidate(_ context.Context) {
	c.cache.Delete(statsKey)
}
