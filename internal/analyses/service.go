package analyses

import (
	"context"
	"time"

	"github.com/google/uuid"

	"diagnostico-backend/internal/projects"
	"diagnostico-backend/internal/shared/keylock"
	"diagnostico-backend/internal/shared/metrics"
	"diagnostico-backend/internal/shared/telemetry"
)

// DefaultKeep is how many analyses stay active per user.
const DefaultKeep = 2

// Service is the analysis retention manager: it persists new analyses
// and enforces the per-user sliding window of active records.
type Service struct {
	Repo     Repo
	Projects projects.Repo
	Locks    *keylock.KeyedMutex
	Keep     int
}

// NewService constructs a Service with its own lock table.
func NewService(repo Repo, projectRepo projects.Repo, keep int) *Service {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Service{Repo: repo, Projects: projectRepo, Locks: keylock.New(), Keep: keep}
}

// RecordAnalysis inserts a new active analysis with its companion
// project in estado aprobacion, then evicts the user's over-window
// analyses, cascading inactivity to their projects. Calls for the same
// user never interleave. An eviction failure is logged and tolerated;
// the next call re-attempts it.
func (s *Service) RecordAnalysis(ctx context.Context, userID string, payload Payload) (AnalysisResult, projects.Project, error) {
	if userID == "" {
		return AnalysisResult{}, projects.Project{}, ErrInvalidInput
	}

	if err := s.Locks.Acquire(ctx, "user:"+userID); err != nil {
		return AnalysisResult{}, projects.Project{}, err
	}
	defer s.Locks.Release("user:" + userID)

	// Once the lock is held the critical section runs to completion;
	// aborting between the insert and the eviction scan would leave
	// more cleanup for the next call than finishing does.
	ctx = context.WithoutCancel(ctx)

	now := time.Now().UTC()
	analysis := AnalysisResult{
		ID:           uuid.NewString(),
		UserID:       userID,
		MetricKey:    payload.MetricKey,
		ValuePercent: clampPercent(payload.ValuePercent),
		Active:       true,
		ProjectID:    uuid.NewString(),
		CreatedAt:    now,
	}
	project := projects.Project{
		ID:         analysis.ProjectID,
		UserID:     userID,
		AnalysisID: analysis.ID,
		Active:     true,
		State:      projects.StateApproval,
		Industry:   payload.Industry,
		Categories: payload.Categories,
		Objective:  payload.Objective,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Repo.Create(ctx, analysis); err != nil {
		return AnalysisResult{}, projects.Project{}, err
	}
	if err := s.Projects.Create(ctx, project); err != nil {
		return AnalysisResult{}, projects.Project{}, err
	}

	s.evictOverWindow(ctx, userID)

	return analysis, project, nil
}

// evictOverWindow deactivates everything beyond the newest Keep active
// analyses, cascading to each one's project. Failures are logged, not
// returned: over-retention is tolerated until the next call.
func (s *Service) evictOverWindow(ctx context.Context, userID string) {
	active, err := s.Repo.ListActiveByUser(ctx, userID)
	if err != nil {
		telemetry.Error("analysis.eviction_scan_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}
	if len(active) <= s.Keep {
		return
	}

	evicted := 0
	for _, old := range active[s.Keep:] {
		if err := s.Repo.Deactivate(ctx, old.ID); err != nil {
			telemetry.Error("analysis.evict_failed", map[string]any{
				"user_id":     userID,
				"analysis_id": old.ID,
				"error":       err.Error(),
			})
			continue
		}
		if err := s.Projects.Deactivate(ctx, old.ProjectID); err != nil {
			telemetry.Error("analysis.evict_cascade_failed", map[string]any{
				"user_id":    userID,
				"project_id": old.ProjectID,
				"error":      err.Error(),
			})
		}
		evicted++
	}
	if evicted > 0 {
		metrics.AddAnalysisEvictions(evicted)
		telemetry.Info("analysis.evicted", map[string]any{
			"user_id": userID,
			"count":   evicted,
		})
	}
}

// Get returns an analysis by ID scoped to the user.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (AnalysisResult, error) {
	if userID == "" || analysisID == "" {
		return AnalysisResult{}, ErrInvalidInput
	}
	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return AnalysisResult{}, err
	}
	if analysis.UserID != userID {
		return AnalysisResult{}, ErrNotFound
	}
	return analysis, nil
}

// List returns a page of the user's analyses, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]AnalysisResult, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// ListActive returns the user's active analyses, newest first.
func (s *Service) ListActive(ctx context.Context, userID string) ([]AnalysisResult, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListActiveByUser(ctx, userID)
}

func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
