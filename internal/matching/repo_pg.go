package matching

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new expert match.
func (r *PGRepo) Create(ctx context.Context, match ExpertMatch) error {
	const query = `
INSERT INTO expert_matches (id, project_id, expert_id, score, industria_mejor, estado, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		match.ID,
		match.ProjectID,
		match.ExpertID,
		match.Score,
		match.BestIndustry,
		string(match.State),
		match.CreatedAt,
	)
	return err
}

// ListByProject returns the project's matches ordered by expert ID.
func (r *PGRepo) ListByProject(ctx context.Context, projectID string) ([]ExpertMatch, error) {
	const query = `
SELECT id, project_id, expert_id, score, industria_mejor, estado, created_at
FROM expert_matches
WHERE project_id = $1
ORDER BY expert_id ASC`
	rows, err := r.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpertMatch
	for rows.Next() {
		var m ExpertMatch
		var state string
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.ExpertID, &m.Score, &m.BestIndustry, &state, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.State = State(state)
		out = append(out, m)
	}
	return out, rows.Err()
}
