package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new project.
func (r *PGRepo) Create(ctx context.Context, project Project) error {
	const query = `
INSERT INTO projects (
	id, user_id, analysis_id, active, estado, industria, categorias, objetivo,
	publicado, datos_extra, fecha_publicacion, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	categories, err := marshalJSONB(project.Categories)
	if err != nil {
		return err
	}
	extra, err := marshalJSONB(project.Extra)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		project.ID,
		project.UserID,
		project.AnalysisID,
		project.Active,
		string(project.State),
		project.Industry,
		categories,
		project.Objective,
		project.Published,
		extra,
		project.PublishedAt,
		project.CreatedAt,
		project.UpdatedAt,
	)
	return err
}

// GetByID returns a project by ID.
func (r *PGRepo) GetByID(ctx context.Context, projectID string) (Project, error) {
	const query = `
SELECT id, user_id, analysis_id, active, estado, industria, categorias, objetivo,
       publicado, datos_extra, fecha_publicacion, created_at, updated_at
FROM projects
WHERE id = $1
LIMIT 1`
	return scanProject(r.DB.QueryRowContext(ctx, query, projectID))
}

// Update writes the project guarded on the previously observed estado.
func (r *PGRepo) Update(ctx context.Context, project Project, fromState State) error {
	const query = `
UPDATE projects
SET estado = $2, industria = $3, categorias = $4, objetivo = $5, publicado = $6,
    datos_extra = $7, fecha_publicacion = $8, updated_at = $9
WHERE id = $1 AND estado = $10`
	categories, err := marshalJSONB(project.Categories)
	if err != nil {
		return err
	}
	extra, err := marshalJSONB(project.Extra)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		project.ID,
		string(project.State),
		project.Industry,
		categories,
		project.Objective,
		project.Published,
		extra,
		project.PublishedAt,
		project.UpdatedAt,
		string(fromState),
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, project.ID); errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return ErrStaleState
	}
	return nil
}

// Deactivate flips the active flag off without touching estado.
func (r *PGRepo) Deactivate(ctx context.Context, projectID string) error {
	const query = `UPDATE projects SET active = FALSE, updated_at = NOW() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, projectID)
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

// ListByUser returns the user's projects newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Project, error) {
	const query = `
SELECT id, user_id, analysis_id, active, estado, industria, categorias, objetivo,
       publicado, datos_extra, fecha_publicacion, created_at, updated_at
FROM projects
WHERE user_id = $1
ORDER BY created_at DESC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, project)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var state string
	var industry sql.NullString
	var categories sql.NullString
	var objective sql.NullString
	var extra sql.NullString
	var publishedAt sql.NullTime
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.AnalysisID,
		&p.Active,
		&state,
		&industry,
		&categories,
		&objective,
		&p.Published,
		&extra,
		&publishedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	p.State = State(state)
	if industry.Valid {
		p.Industry = industry.String
	}
	if objective.Valid {
		p.Objective = objective.String
	}
	if categories.Valid {
		if err := json.Unmarshal([]byte(categories.String), &p.Categories); err != nil {
			p.Categories = nil
		}
	}
	if extra.Valid {
		p.Extra = map[string]any{}
		if err := json.Unmarshal([]byte(extra.String), &p.Extra); err != nil {
			p.Extra = nil
		}
	}
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	return p, nil
}

func marshalJSONB(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}
