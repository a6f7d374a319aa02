package service

import (
	"context"

	"contentadmin/internal/cache"
	"contentadmin/internal/models"
)

// StatsService serves the dashboard summary.
type StatsService struct {
	stats StatsRepository
	cache Cache
}

// NewStatsService creates a stats service. c may be nil.
func NewStatsService(stats StatsRepository, c Cache) *StatsService {
	return &StatsService{stats: stats, cache: cacheOrNone(c)}
}

// Stats returns counts of active nodes, translations, versions and roots,
// the per-type and per-language breakdowns and the latest version.
func (s *StatsService) Stats(ctx context.Context) (*models.Stats, error) {
	var st models.Stats
	if s.cache.GetJSON(ctx, cache.StatsKey(), &st) {
		return &st, nil
	}

	fresh, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, cache.StatsKey(), fresh)
	return fresh, nil
}
