package analyses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]AnalysisResult
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]AnalysisResult)}
}

// Create stores the analysis.
func (r *MemoryRepo) Create(ctx context.Context, analysis AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[analysis.ID] = analysis
	return nil
}

// GetByID returns an analysis by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return AnalysisResult{}, ErrNotFound
	}
	return analysis, nil
}

// ListActiveByUser returns the user's active analyses newest-first.
func (r *MemoryRepo) ListActiveByUser(ctx context.Context, userID string) ([]AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []AnalysisResult
	for _, analysis := range r.byID {
		if analysis.UserID == userID && analysis.Active {
			out = append(out, analysis)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ListByUser returns a page of the user's analyses newest-first,
// including inactive history.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []AnalysisResult
	for _, analysis := range r.byID {
		if analysis.UserID == userID {
			out = append(out, analysis)
		}
	}
	sortNewestFirst(out)
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Deactivate flips the analysis's active flag off. Records are never
// physically deleted.
func (r *MemoryRepo) Deactivate(ctx context.Context, analysisID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return ErrNotFound
	}
	analysis.Active = false
	r.byID[analysisID] = analysis
	return nil
}

func sortNewestFirst(list []AnalysisResult) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}
