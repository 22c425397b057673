package analyses

import "context"

// Repo defines persistence operations for analysis results.
type Repo interface {
	Create(ctx context.Context, analysis AnalysisResult) error
	GetByID(ctx context.Context, analysisID string) (AnalysisResult, error)
	// ListActiveByUser returns the user's active analyses ordered by
	// createdAt descending.
	ListActiveByUser(ctx context.Context, userID string) ([]AnalysisResult, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]AnalysisResult, error)
	Deactivate(ctx context.Context, analysisID string) error
}
