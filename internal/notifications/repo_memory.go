package notifications

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores notifications in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Notification
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Notification)}
}

// Create stores the notification.
func (r *MemoryRepo) Create(ctx context.Context, notification Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[notification.ID] = notification
	return nil
}

// GetByID returns a notification by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, notificationID string) (Notification, error) {
	if err := ctx.Err(); err != nil {
		return Notification{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	notification, ok := r.byID[notificationID]
	if !ok {
		return Notification{}, ErrNotFound
	}
	return notification, nil
}

// ListByExpert returns the expert's notifications newest-first.
func (r *MemoryRepo) ListByExpert(ctx context.Context, expertID string) ([]Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Notification
	for _, notification := range r.byID {
		if notification.ExpertID == expertID {
			out = append(out, notification)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// MarkViewed moves a pending notification to vista, stamping ViewedAt
// on the first transition only. Viewing a non-pending notification is
// a no-op.
func (r *MemoryRepo) MarkViewed(ctx context.Context, notificationID string) (Notification, error) {
	if err := ctx.Err(); err != nil {
		return Notification{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.byID[notificationID]
	if !ok {
		return Notification{}, ErrNotFound
	}
	if notification.State != StatePending {
		return notification, nil
	}
	now := time.Now().UTC()
	notification.State = StateViewed
	if notification.ViewedAt == nil {
		notification.ViewedAt = &now
	}
	r.byID[notificationID] = notification
	return notification, nil
}

// Respond moves the notification to aceptada or rechazada, stamping
// RespondedAt on the first response only.
func (r *MemoryRepo) Respond(ctx context.Context, notificationID string, accepted bool) (Notification, error) {
	if err := ctx.Err(); err != nil {
		return Notification{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.byID[notificationID]
	if !ok {
		return Notification{}, ErrNotFound
	}
	if notification.State == StateAccepted || notification.State == StateRejected {
		return notification, ErrAlreadyResponded
	}
	now := time.Now().UTC()
	if accepted {
		notification.State = StateAccepted
	} else {
		notification.State = StateRejected
	}
	if notification.RespondedAt == nil {
		notification.RespondedAt = &now
	}
	r.byID[notificationID] = notification
	return notification, nil
}
