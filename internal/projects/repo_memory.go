package projects

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores projects in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Project
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Project)}
}

// Create stores the project.
func (r *MemoryRepo) Create(ctx context.Context, project Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[project.ID] = cloneProject(project)
	return nil
}

// GetByID returns a project by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, projectID string) (Project, error) {
	if err := ctx.Err(); err != nil {
		return Project{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.byID[projectID]
	if !ok {
		return Project{}, ErrNotFound
	}
	return cloneProject(project), nil
}

// Update writes the project if its stored state still matches fromState.
func (r *MemoryRepo) Update(ctx context.Context, project Project, fromState State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[project.ID]
	if !ok {
		return ErrNotFound
	}
	if current.State != fromState {
		return ErrStaleState
	}
	r.byID[project.ID] = cloneProject(project)
	return nil
}

// Deactivate flips the project's active flag off, leaving estado untouched.
func (r *MemoryRepo) Deactivate(ctx context.Context, projectID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.byID[projectID]
	if !ok {
		return ErrNotFound
	}
	project.Active = false
	r.byID[projectID] = project
	return nil
}

// ListByUser returns the user's projects newest-first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Project
	for _, project := range r.byID {
		if project.UserID == userID {
			out = append(out, cloneProject(project))
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

// cloneProject copies mutable members so callers cannot alias the store.
func cloneProject(p Project) Project {
	out := p
	if p.Categories != nil {
		out.Categories = append([]string(nil), p.Categories...)
	}
	if p.Extra != nil {
		out.Extra = make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = v
		}
	}
	if p.PublishedAt != nil {
		ts := *p.PublishedAt
		out.PublishedAt = &ts
	}
	return out
}
