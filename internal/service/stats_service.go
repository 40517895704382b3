package service

import (
	"context"
	"math"

	"prompt-library-be/internal/dto"
	"prompt-library-be/internal/entity"
	"prompt-library-be/internal/pkg/logger"
	"prompt-library-be/internal/repository/memory"
	"prompt-library-be/internal/repository/specification"
	"prompt-library-be/internal/repository/unitofwork"

	"golang.org/x/sync/errgroup"
)

const recentPromptLimit = 5

// Pinger reports whether the database is reachable.
type Pinger func(ctx context.Context) error

type IStatsService interface {
	// Dashboard never fails; on any query error it returns the zeroed fallback.
	Dashboard(ctx context.Context) *dto.StatsResponse
	Health(ctx context.Context) (*dto.HealthResponse, bool)
}

type statsService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      memory.StatsCache
	ping       Pinger
	logger     logger.ILogger
}

func NewStatsService(uowFactory unitofwork.RepositoryFactory, cache memory.StatsCache, ping Pinger, log logger.ILogger) IStatsService {
	return &statsService{uowFactory: uowFactory, cache: cache, ping: ping, logger: log}
}

func (s *statsService) Dashboard(ctx context.Context) *dto.StatsResponse {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx); ok {
			return cached
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		s.logger.Error("STATS", "Failed to compute dashboard stats, serving fallback", logger.Fields{"error": err.Error()})
		return dto.EmptyStats()
	}

	if s.cache != nil {
		s.cache.Set(ctx, stats)
	}
	return stats
}

// compute runs the independent aggregates concurrently on the shared pool.
func (s *statsService) compute(ctx context.Context) (*dto.StatsResponse, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).PromptRepository()
	stats := &dto.StatsResponse{}

	var (
		byTool, byCategory, byStatus []*entity.CountBucket
		recent                       []*entity.Prompt
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalPrompts, err = repo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.FavoriteCount, err = repo.Count(gctx, specification.FavoritesOnly{})
		return err
	})
	g.Go(func() error {
		avg, err := repo.AverageRating(gctx)
		stats.AverageRating = math.Round(avg*100) / 100
		return err
	})
	g.Go(func() (err error) {
		stats.TotalUsage, err = repo.TotalUsage(gctx)
		return err
	})
	g.Go(func() (err error) {
		byTool, err = repo.CountByTool(gctx)
		return err
	})
	g.Go(func() (err error) {
		byCategory, err = repo.CountByCategory(gctx)
		return err
	})
	g.Go(func() (err error) {
		byStatus, err = repo.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = repo.FindAll(gctx,
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Limit{Limit: recentPromptLimit},
		)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.ByTool = toBucketResponses(byTool)
	stats.ByCategory = toBucketResponses(byCategory)
	stats.ByStatus = toBucketResponses(byStatus)
	stats.Recent = make([]dto.RecentPromptResponse, 0, len(recent))
	for _, p := range recent {
		stats.Recent = append(stats.Recent, dto.RecentPromptResponse{
			Id: p.Id, Title: p.Title, Rating: p.Rating, CreatedAt: p.CreatedAt,
		})
	}
	return stats, nil
}

func (s *statsService) Health(ctx context.Context) (*dto.HealthResponse, bool) {
	if s.ping == nil {
		return &dto.HealthResponse{Status: "ok", Database: "unknown"}, true
	}
	if err := s.ping(ctx); err != nil {
		s.logger.Warn("HEALTH", "Database ping failed", logger.Fields{"error": err.Error()})
		return &dto.HealthResponse{Status: "degraded", Database: "unreachable"}, false
	}
	return &dto.HealthResponse{Status: "ok", Database: "ok"}, true
}

func toBucketResponses(buckets []*entity.CountBucket) []dto.CountBucketResponse {
	res := make([]dto.CountBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		res = append(res, dto.CountBucketResponse{Label: b.Label, Color: b.Color, Count: b.Count})
	}
	return res
}
