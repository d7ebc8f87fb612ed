package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scamshield/internal/domain/models"
)

// ReportRepository persists and queries community reports.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create inserts a new report and returns it with its assigned ID.
func (r *ReportRepository) Create(ctx context.Context, sub models.ReportSubmission) (*models.Report, error) {
	report := models.Report{
		Identifier:   sub.Identifier,
		Category:     sub.Category,
		Description:  sub.Description,
		EvidenceURLs: sub.EvidenceURLs,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Status:       models.ReportPending,
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO reports (identifier, category, description, evidence_urls, created_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		report.Identifier, report.Category, report.Description, report.EvidenceURLs, report.CreatedAt, report.Status,
	).Scan(&report.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}

	return &report, nil
}

// FindByIdentifier returns reports whose identifier contains the given value,
// matched case-insensitively.
func (r *ReportRepository) FindByIdentifier(ctx context.Context, identifier string) ([]models.Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, identifier, category, description, evidence_urls, created_at, status
		FROM reports
		WHERE identifier ILIKE '%' || $1 || '%'
		ORDER BY id DESC`,
		identifier,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	return scanReports(rows)
}

// Recent returns the most recently filed reports, newest first.
func (r *ReportRepository) Recent(ctx context.Context, limit int) ([]models.Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, identifier, category, description, evidence_urls, created_at, status
		FROM reports
		ORDER BY id DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent reports: %w", err)
	}
	defer rows.Close()

	return scanReports(rows)
}

// ListSince returns reports created at or after the cutoff. Timestamps are
// stored as text; ISO-8601 shapes order lexically, and the caller re-filters
// with tolerant parsing.
func (r *ReportRepository) ListSince(ctx context.Context, cutoff time.Time) ([]models.Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, identifier, category, description, evidence_urls, created_at, status
		FROM reports
		WHERE created_at >= $1
		ORDER BY id DESC`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports since cutoff: %w", err)
	}
	defer rows.Close()

	return scanReports(rows)
}

func scanReports(rows pgx.Rows) ([]models.Report, error) {
	reports := []models.Report{}
	for rows.Next() {
		var report models.Report
		if err := rows.Scan(
			&report.ID,
			&report.Identifier,
			&report.Category,
			&report.Description,
			&report.EvidenceURLs,
			&report.CreatedAt,
			&report.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}
	return reports, nil
}
