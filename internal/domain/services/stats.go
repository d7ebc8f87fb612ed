package services

import (
	"context"
	"time"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

const statsWindow = 30 * 24 * time.Hour

// StatsStore lists reports for aggregation.
type StatsStore interface {
	ListSince(ctx context.Context, cutoff time.Time) ([]models.Report, error)
}

// StatsService aggregates report volume for the dashboard.
type StatsService struct {
	store  StatsStore
	logger *logger.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(store StatsStore, log *logger.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: log.WithComponent("stats"),
	}
}

// Compute returns 30-day totals, the category distribution, and a 7-day
// trend. Every one of the last 7 days appears in the trend even when its
// count is zero. Reports with unparseable timestamps count toward totals and
// categories but are left out of the trend.
func (s *StatsService) Compute(ctx context.Context, now time.Time) (*models.Stats, error) {
	if s.store == nil {
		return emptyStats(now), nil
	}

	reports, err := s.store.ListSince(ctx, now.Add(-statsWindow))
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{
		TotalReports: len(reports),
		Categories:   make(map[string]int),
		Trend:        make([]models.TrendPoint, 0, 7),
	}

	byDay := make(map[string]int)
	for _, r := range reports {
		category := r.Category
		if category == "" {
			category = "other"
		}
		stats.Categories[category]++

		if t, ok := models.ParseReportTime(r.CreatedAt); ok {
			byDay[t.UTC().Format("2006-01-02")]++
		}
	}

	for i := 6; i >= 0; i-- {
		day := now.UTC().AddDate(0, 0, -i).Format("2006-01-02")
		stats.Trend = append(stats.Trend, models.TrendPoint{
			Date:  day,
			Count: byDay[day],
		})
	}

	return stats, nil
}

func emptyStats(now time.Time) *models.Stats {
	stats := &models.Stats{
		Categories: make(map[string]int),
		Trend:      make([]models.TrendPoint, 0, 7),
	}
	for i := 6; i >= 0; i-- {
		stats.Trend = append(stats.Trend, models.TrendPoint{
			Date: now.UTC().AddDate(0, 0, -i).Format("2006-01-02"),
		})
	}
	return stats
}
