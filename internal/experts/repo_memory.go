package experts

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores experts in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Expert
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Expert)}
}

// Create stores the expert.
func (r *MemoryRepo) Create(ctx context.Context, expert Expert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[expert.ID] = expert
	return nil
}

// GetByID returns an expert by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, expertID string) (Expert, error) {
	if err := ctx.Err(); err != nil {
		return Expert{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	expert, ok := r.byID[expertID]
	if !ok {
		return Expert{}, ErrNotFound
	}
	return expert, nil
}

// ListActive returns all active experts ordered by ID.
func (r *MemoryRepo) ListActive(ctx context.Context) ([]Expert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Expert
	for _, expert := range r.byID {
		if expert.Active {
			out = append(out, expert)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
