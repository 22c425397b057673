package matching

import "context"

// Repo defines persistence operations for expert matches.
type Repo interface {
	Create(ctx context.Context, match ExpertMatch) error
	ListByProject(ctx context.Context, projectID string) ([]ExpertMatch, error)
}
