package notifications

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres. State changes are conditional
// writes so the set-once timestamps hold under concurrent callers.
type PGRepo struct {
	DB *sql.DB
}

const notificationColumns = `id, expert_id, project_id, match_id, score, estado, fecha_vista, fecha_respuesta, created_at`

// Create inserts a new notification.
func (r *PGRepo) Create(ctx context.Context, notification Notification) error {
	const query = `
INSERT INTO notifications (id, expert_id, project_id, match_id, score, estado, fecha_vista, fecha_respuesta, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		notification.ID,
		notification.ExpertID,
		notification.ProjectID,
		notification.MatchID,
		notification.Score,
		string(notification.State),
		notification.ViewedAt,
		notification.RespondedAt,
		notification.CreatedAt,
	)
	return err
}

// GetByID returns a notification by ID.
func (r *PGRepo) GetByID(ctx context.Context, notificationID string) (Notification, error) {
	const query = `
SELECT ` + notificationColumns + `
FROM notifications
WHERE id = $1
LIMIT 1`
	notification, err := scanNotification(r.DB.QueryRowContext(ctx, query, notificationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Notification{}, ErrNotFound
		}
		return Notification{}, err
	}
	return notification, nil
}

// ListByExpert returns the expert's notifications newest-first.
func (r *PGRepo) ListByExpert(ctx context.Context, expertID string) ([]Notification, error) {
	const query = `
SELECT ` + notificationColumns + `
FROM notifications
WHERE expert_id = $1
ORDER BY created_at DESC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, expertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, notification)
	}
	return out, rows.Err()
}

// MarkViewed transitions pendiente -> vista, stamping fecha_vista only
// on that first transition.
func (r *PGRepo) MarkViewed(ctx context.Context, notificationID string) (Notification, error) {
	const query = `
UPDATE notifications
SET estado = 'vista', fecha_vista = COALESCE(fecha_vista, NOW())
WHERE id = $1 AND estado = 'pendiente'
RETURNING ` + notificationColumns
	notification, err := scanNotification(r.DB.QueryRowContext(ctx, query, notificationID))
	if err == nil {
		return notification, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Notification{}, err
	}
	// Not pending anymore (or missing): report current state.
	return r.GetByID(ctx, notificationID)
}

// Respond transitions to aceptada/rechazada, stamping fecha_respuesta
// on the first response only. Later responses fail.
func (r *PGRepo) Respond(ctx context.Context, notificationID string, accepted bool) (Notification, error) {
	target := StateRejected
	if accepted {
		target = StateAccepted
	}
	const query = `
UPDATE notifications
SET estado = $2, fecha_respuesta = COALESCE(fecha_respuesta, NOW())
WHERE id = $1 AND estado IN ('pendiente', 'vista')
RETURNING ` + notificationColumns
	notification, err := scanNotification(r.DB.QueryRowContext(ctx, query, notificationID, string(target)))
	if err == nil {
		return notification, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Notification{}, err
	}
	current, getErr := r.GetByID(ctx, notificationID)
	if getErr != nil {
		return Notification{}, getErr
	}
	return current, ErrAlreadyResponded
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (Notification, error) {
	var n Notification
	var state string
	var viewedAt, respondedAt sql.NullTime
	err := row.Scan(&n.ID, &n.ExpertID, &n.ProjectID, &n.MatchID, &n.Score, &state, &viewedAt, &respondedAt, &n.CreatedAt)
	if err != nil {
		return Notification{}, err
	}
	n.State = State(state)
	if viewedAt.Valid {
		n.ViewedAt = &viewedAt.Time
	}
	if respondedAt.Valid {
		n.RespondedAt = &respondedAt.Time
	}
	return n, nil
}
