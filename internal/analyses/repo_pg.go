package analyses

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, user_id, metric_key, value_percent, active, project_id, created_at`

// Create inserts a new analysis result.
func (r *PGRepo) Create(ctx context.Context, analysis AnalysisResult) error {
	const query = `
INSERT INTO analysis_results (id, user_id, metric_key, value_percent, active, project_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.MetricKey,
		analysis.ValuePercent,
		analysis.Active,
		analysis.ProjectID,
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (AnalysisResult, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analysis_results
WHERE id = $1
LIMIT 1`
	var a AnalysisResult
	err := r.DB.QueryRowContext(ctx, query, analysisID).Scan(
		&a.ID, &a.UserID, &a.MetricKey, &a.ValuePercent, &a.Active, &a.ProjectID, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AnalysisResult{}, ErrNotFound
		}
		return AnalysisResult{}, err
	}
	return a, nil
}

// ListActiveByUser returns the user's active analyses newest-first.
func (r *PGRepo) ListActiveByUser(ctx context.Context, userID string) ([]AnalysisResult, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analysis_results
WHERE user_id = $1 AND active = TRUE
ORDER BY created_at DESC, id DESC`
	return r.queryList(ctx, query, userID)
}

// ListByUser returns a page of the user's analyses newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]AnalysisResult, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analysis_results
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	if limit <= 0 {
		limit = 50
	}
	return r.queryList(ctx, query, userID, limit, offset)
}

// Deactivate flips the analysis's active flag off.
func (r *PGRepo) Deactivate(ctx context.Context, analysisID string) error {
	const query = `UPDATE analysis_results SET active = FALSE WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, analysisID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) queryList(ctx context.Context, query string, args ...any) ([]AnalysisResult, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisResult
	for rows.Next() {
		var a AnalysisResult
		if err := rows.Scan(&a.ID, &a.UserID, &a.MetricKey, &a.ValuePercent, &a.Active, &a.ProjectID, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
