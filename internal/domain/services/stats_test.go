package services

import (
	"context"
	"testing"
	"time"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

type stubStatsStore struct {
	reports []models.Report
}

func (s *stubStatsStore) ListSince(ctx context.Context, cutoff time.Time) ([]models.Report, error) {
	return s.reports, nil
}

func TestStatsCompute(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	store := &stubStatsStore{reports: []models.Report{
		{Category: "phishing", CreatedAt: "2026-08-28T10:00:00Z"},
		{Category: "phishing", CreatedAt: "2026-08-28T11:00:00Z"},
		{Category: "upi_fraud", CreatedAt: "2026-08-26 09:30:00"},
		{Category: "", CreatedAt: "2026-08-20T08:00:00Z"},
		{Category: "extortion", CreatedAt: "broken-timestamp"},
	}}

	s := NewStatsService(store, logger.NewDefault())
	got, err := s.Compute(context.Background(), now)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if got.TotalReports != 5 {
		t.Errorf("total_reports = %d, want 5", got.TotalReports)
	}
	if got.Categories["phishing"] != 2 {
		t.Errorf("phishing count = %d, want 2", got.Categories["phishing"])
	}
	if got.Categories["other"] != 1 {
		t.Errorf("other count = %d, want 1 for uncategorized report", got.Categories["other"])
	}
	if got.Categories["extortion"] != 1 {
		t.Errorf("extortion count = %d, want 1 even with a broken timestamp", got.Categories["extortion"])
	}

	if len(got.Trend) != 7 {
		t.Fatalf("trend has %d days, want 7", len(got.Trend))
	}
	if got.Trend[0].Date != "2026-08-22" || got.Trend[6].Date != "2026-08-28" {
		t.Errorf("trend range = %s..%s, want 2026-08-22..2026-08-28", got.Trend[0].Date, got.Trend[6].Date)
	}

	byDate := map[string]int{}
	for _, p := range got.Trend {
		byDate[p.Date] = p.Count
	}
	if byDate["2026-08-28"] != 2 {
		t.Errorf("count for 2026-08-28 = %d, want 2", byDate["2026-08-28"])
	}
	if byDate["2026-08-26"] != 1 {
		t.Errorf("count for 2026-08-26 = %d, want 1", byDate["2026-08-26"])
	}
	if byDate["2026-08-25"] != 0 {
		t.Errorf("count for 2026-08-25 = %d, want 0 for a quiet day", byDate["2026-08-25"])
	}
}

func TestStatsComputeWithoutStore(t *testing.T) {
	s := NewStatsService(nil, logger.NewDefault())

	got, err := s.Compute(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if got.TotalReports != 0 {
		t.Errorf("total_reports = %d, want 0", got.TotalReports)
	}
	if len(got.Trend) != 7 {
		t.Errorf("trend has %d days, want 7", len(got.Trend))
	}
}
