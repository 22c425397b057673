package notifications

import "context"

// Repo defines persistence operations for notifications. MarkViewed
// and Respond are atomic conditional writes enforcing the set-once
// timestamp invariants.
type Repo interface {
	Create(ctx context.Context, notification Notification) error
	GetByID(ctx context.Context, notificationID string) (Notification, error)
	ListByExpert(ctx context.Context, expertID string) ([]Notification, error)
	MarkViewed(ctx context.Context, notificationID string) (Notification, error)
	Respond(ctx context.Context, notificationID string, accepted bool) (Notification, error)
}
