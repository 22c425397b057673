package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diagnostico-backend/internal/shared/keylock"
	"diagnostico-backend/internal/shared/metrics"
	"diagnostico-backend/internal/shared/telemetry"
)

// MatchEmitter creates expert matches for a freshly published project.
// The narrow interface keeps the matching package out of this one.
type MatchEmitter interface {
	EmitMatches(ctx context.Context, project Project) (int, error)
}

// MatchEmitterFunc adapts a function to the MatchEmitter interface.
type MatchEmitterFunc func(ctx context.Context, project Project) (int, error)

// EmitMatches calls f.
func (f MatchEmitterFunc) EmitMatches(ctx context.Context, project Project) (int, error) {
	return f(ctx, project)
}

// TransitionResult is the outcome of a lifecycle transition. MatchErr
// carries a non-fatal matching failure after a successful publish.
type TransitionResult struct {
	Project        Project
	MatchesEmitted int
	MatchErr       error
}

// Service owns the project lifecycle state machine.
type Service struct {
	Repo    Repo
	Emitter MatchEmitter
	Locks   *keylock.KeyedMutex
}

// NewService constructs a Service with its own lock table.
func NewService(repo Repo, emitter MatchEmitter) *Service {
	return &Service{Repo: repo, Emitter: emitter, Locks: keylock.New()}
}

// Transition moves the project to target, serialized per project.
// Illegal pairs return InvalidTransitionError and leave the project
// unchanged. Entry into publicado triggers expert matching
// synchronously; a matching failure does not roll the transition back.
// extra is merged into the project verbatim on every transition.
func (s *Service) Transition(ctx context.Context, projectID string, target State, extra map[string]any) (TransitionResult, error) {
	if projectID == "" {
		return TransitionResult{}, errors.New("projectID is required")
	}
	if !target.Valid() {
		return TransitionResult{}, fmt.Errorf("unknown state %q", target)
	}

	if err := s.Locks.Acquire(ctx, "project:"+projectID); err != nil {
		return TransitionResult{}, err
	}
	defer s.Locks.Release("project:" + projectID)

	// The critical section runs to completion even if the caller goes
	// away; a half-applied transition is worse than a late one.
	ctx = context.WithoutCancel(ctx)

	project, err := s.Repo.GetByID(ctx, projectID)
	if err != nil {
		return TransitionResult{}, err
	}
	if !project.State.CanTransitionTo(target) {
		return TransitionResult{}, &InvalidTransitionError{From: project.State, To: target}
	}

	now := time.Now().UTC()
	fromState := project.State
	project.State = target
	project.UpdatedAt = now
	project.Published = target == StatePublished
	if target == StatePublished {
		project.PublishedAt = &now
	}
	if len(extra) > 0 {
		if project.Extra == nil {
			project.Extra = make(map[string]any, len(extra))
		}
		for k, v := range extra {
			project.Extra[k] = v
		}
	}

	if err := s.Repo.Update(ctx, project, fromState); err != nil {
		return TransitionResult{}, err
	}

	telemetry.Info("project.transition", map[string]any{
		"project_id": project.ID,
		"user_id":    project.UserID,
		"from":       string(fromState),
		"to":         string(target),
	})

	result := TransitionResult{Project: project}
	if target == StatePublished {
		metrics.IncProjectPublished()
		if s.Emitter != nil {
			emitted, emitErr := s.Emitter.EmitMatches(ctx, project)
			result.MatchesEmitted = emitted
			if emitErr != nil {
				result.MatchErr = emitErr
				telemetry.Error("project.match_emit_failed", map[string]any{
					"project_id": project.ID,
					"error":      emitErr.Error(),
				})
			}
		}
	}
	return result, nil
}

// Get returns a project by ID.
func (s *Service) Get(ctx context.Context, projectID string) (Project, error) {
	if projectID == "" {
		return Project{}, errors.New("projectID is required")
	}
	return s.Repo.GetByID(ctx, projectID)
}

// ListByUser returns the user's projects newest-first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Project, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID)
}
