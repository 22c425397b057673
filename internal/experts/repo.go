package experts

import "context"

// Repo defines persistence operations for experts.
type Repo interface {
	Create(ctx context.Context, expert Expert) error
	GetByID(ctx context.Context, expertID string) (Expert, error)
	// ListActive returns all active experts ordered by ID for
	// deterministic matching.
	ListActive(ctx context.Context) ([]Expert, error)
}
