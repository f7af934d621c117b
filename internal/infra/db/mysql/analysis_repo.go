package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/safetylens/safetylens/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts or updates an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Record) error {
	const q = `
INSERT INTO safety_analyses
  (id, photo_name, result_json, high_count, medium_count, low_count, total_count, report_url, created_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  photo_name=VALUES(photo_name), result_json=VALUES(result_json),
  high_count=VALUES(high_count), medium_count=VALUES(medium_count),
  low_count=VALUES(low_count), total_count=VALUES(total_count),
  report_url=VALUES(report_url);
`
	result := a.Result
	if strings.TrimSpace(result) == "" {
		// result_json column requires valid JSON; use empty object
		result = "{}"
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		a.ID, stringOrDash(a.PhotoName), result,
		a.Counts.High, a.Counts.Medium, a.Counts.Low, a.Counts.Total,
		a.ReportURL, createdAt)
	return err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, photo_name, result_json, high_count, medium_count, low_count, total_count, report_url, created_at
FROM safety_analyses
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Latest returns the most recent records up to limit
func (r *AnalysisRepository) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, photo_name, result_json, high_count, medium_count, low_count, total_count, report_url, created_at
FROM safety_analyses
ORDER BY created_at DESC, id DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]*domain.Record, error) {
	var out []*domain.Record
	for rows.Next() {
		var a domain.Record
		var created time.Time
		if err := rows.Scan(&a.ID, &a.PhotoName, &a.Result,
			&a.Counts.High, &a.Counts.Medium, &a.Counts.Low, &a.Counts.Total,
			&a.ReportURL, &created); err != nil {
			return nil, err
		}
		a.CreatedAt = created
		out = append(out, &a)
	}
	return out, rows.Err()
}
