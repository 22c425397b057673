package projects

import "context"

// Repo defines persistence operations for projects.
type Repo interface {
	Create(ctx context.Context, project Project) error
	GetByID(ctx context.Context, projectID string) (Project, error)
	// Update writes the project only if its stored state still equals
	// fromState, returning ErrStaleState otherwise.
	Update(ctx context.Context, project Project, fromState State) error
	Deactivate(ctx context.Context, projectID string) error
	ListByUser(ctx context.Context, userID string) ([]Project, error)
}
