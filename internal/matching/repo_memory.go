package matching

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores matches in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]ExpertMatch
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]ExpertMatch)}
}

// Create stores the match.
func (r *MemoryRepo) Create(ctx context.Context, match ExpertMatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[match.ID] = match
	return nil
}

// ListByProject returns the project's matches ordered by expert ID.
func (r *MemoryRepo) ListByProject(ctx context.Context, projectID string) ([]ExpertMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []ExpertMatch
	for _, match := range r.byID {
		if match.ProjectID == projectID {
			out = append(out, match)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpertID < out[j].ExpertID })
	return out, nil
}
