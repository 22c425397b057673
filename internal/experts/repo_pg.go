package experts

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

// Create inserts a new expert.
func (r *PGRepo) Create(ctx context.Context, expert Expert) error {
	const query = `
INSERT INTO experts (id, name, email, industrias, categorias, active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	industries, err := json.Marshal(expert.Industries)
	if err != nil {
		return err
	}
	categories, err := json.Marshal(expert.Categories)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		expert.ID,
		expert.Name,
		expert.Email,
		string(industries),
		string(categories),
		expert.Active,
		expert.CreatedAt,
	)
	return err
}

// GetByID returns an expert by ID.
func (r *PGRepo) GetByID(ctx context.Context, expertID string) (Expert, error) {
	const query = `
SELECT id, name, email, industrias, categorias, active, created_at
FROM experts
WHERE id = $1
LIMIT 1`
	expert, err := scanExpert(r.DB.QueryRowContext(ctx, query, expertID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Expert{}, ErrNotFound
		}
		return Expert{}, err
	}
	return expert, nil
}

// ListActive returns all active experts ordered by ID.
func (r *PGRepo) ListActive(ctx context.Context) ([]Expert, error) {
	const query = `
SELECT id, name, email, industrias, categorias, active, created_at
FROM experts
WHERE active = TRUE
ORDER BY id ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expert
	for rows.Next() {
		expert, err := scanExpert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, expert)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpert(row rowScanner) (Expert, error) {
	var e Expert
	var industries, categories sql.NullString
	err := row.Scan(&e.ID, &e.Name, &e.Email, &industries, &categories, &e.Active, &e.CreatedAt)
	if err != nil {
		return Expert{}, err
	}
	if industries.Valid {
		if err := json.Unmarshal([]byte(industries.String), &e.Industries); err != nil {
			e.Industries = nil
		}
	}
	if categories.Valid {
		if err := json.Unmarshal([]byte(categories.String), &e.Categories); err != nil {
			e.Categories = nil
		}
	}
	return e, nil
}
