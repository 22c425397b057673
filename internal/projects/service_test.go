package projects

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestProject(t *testing.T, repo Repo, state State) Project {
	t.Helper()
	now := time.Now().UTC()
	project := Project{
		ID:         "project-1",
		UserID:     "user-1",
		AnalysisID: "analysis-1",
		Active:     true,
		State:      state,
		Industry:   "retail",
		Categories: []string{"ventas"},
		Objective:  "crecer",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if state == StatePublished {
		project.Published = true
		project.PublishedAt = &now
	}
	if err := repo.Create(context.Background(), project); err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}

type recordingEmitter struct {
	calls int
	count int
	err   error
}

func (e *recordingEmitter) EmitMatches(ctx context.Context, project Project) (int, error) {
	e.calls++
	return e.count, e.err
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from  State
		to    State
		legal bool
	}{
		{StateApproval, StateWaiting, true},
		{StateApproval, StatePublished, true},
		{StateApproval, StateCancelled, true},
		{StateApproval, StateCompleted, false},
		{StateApproval, StateInProgress, false},
		{StateWaiting, StatePublished, true},
		{StateWaiting, StateCancelled, true},
		{StateWaiting, StateInProgress, false},
		{StateWaiting, StateApproval, false},
		{StatePublished, StateInProgress, true},
		{StatePublished, StateCancelled, true},
		{StatePublished, StateCompleted, true},
		{StatePublished, StateWaiting, false},
		{StateInProgress, StateCompleted, true},
		{StateInProgress, StateCancelled, true},
		{StateInProgress, StatePublished, false},
		{StateCompleted, StateCancelled, false},
		{StateCompleted, StatePublished, false},
		{StateCancelled, StateApproval, false},
		{StateCancelled, StateCompleted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.legal {
			t.Errorf("%s -> %s: legal = %v, want %v", tc.from, tc.to, got, tc.legal)
		}
	}
}

func TestTransitionIllegalLeavesProjectUnchanged(t *testing.T) {
	repo := NewMemoryRepo()
	newTestProject(t, repo, StateWaiting)
	svc := NewService(repo, nil)

	_, err := svc.Transition(context.Background(), "project-1", StateInProgress, nil)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.From != StateWaiting || invalid.To != StateInProgress {
		t.Fatalf("error pair = %s -> %s", invalid.From, invalid.To)
	}

	stored, err := repo.GetByID(context.Background(), "project-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.State != StateWaiting || stored.Published {
		t.Fatalf("project mutated by illegal transition: %+v", stored)
	}
}

func TestTransitionPublishEmitsMatches(t *testing.T) {
	repo := NewMemoryRepo()
	newTestProject(t, repo, StateApproval)
	emitter := &recordingEmitter{count: 2}
	svc := NewService(repo, emitter)

	result, err := svc.Transition(context.Background(), "project-1", StatePublished, nil)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if emitter.calls != 1 {
		t.Fatalf("emitter calls = %d, want 1", emitter.calls)
	}
	if result.MatchesEmitted != 2 {
		t.Fatalf("MatchesEmitted = %d, want 2", result.MatchesEmitted)
	}
	if !result.Project.Published {
		t.Fatal("Published flag must be set on publish")
	}
	if result.Project.PublishedAt == nil {
		t.Fatal("PublishedAt must be stamped on publish")
	}
	if result.MatchErr != nil {
		t.Fatalf("unexpected match warning: %v", result.MatchErr)
	}
}

func TestTransitionPublishSurvivesEmitterFailure(t *testing.T) {
	repo := NewMemoryRepo()
	newTestProject(t, repo, StateWaiting)
	emitter := &recordingEmitter{err: errors.New("matching backend down")}
	svc := NewService(repo, emitter)

	result, err := svc.Transition(context.Background(), "project-1", StatePublished, nil)
	if err != nil {
		t.Fatalf("Transition must not fail on emitter error: %v", err)
	}
	if result.MatchErr == nil {
		t.Fatal("expected MatchErr warning")
	}

	stored, _ := repo.GetByID(context.Background(), "project-1")
	if stored.State != StatePublished || !stored.Published {
		t.Fatalf("publish must stick despite emitter failure: %+v", stored)
	}
}

func TestTransitionTerminalClearsPublished(t *testing.T) {
	for _, target := range []State{StateCompleted, StateCancelled} {
		repo := NewMemoryRepo()
		newTestProject(t, repo, StatePublished)
		svc := NewService(repo, nil)

		result, err := svc.Transition(context.Background(), "project-1", target, nil)
		if err != nil {
			t.Fatalf("Transition to %s: %v", target, err)
		}
		if result.Project.Published {
			t.Fatalf("Published must be false in %s", target)
		}
		if !result.Project.State.Terminal() {
			t.Fatalf("%s must be terminal", target)
		}
	}
}

func TestTransitionMergesExtraFields(t *testing.T) {
	repo := NewMemoryRepo()
	project := newTestProject(t, repo, StateApproval)
	project.Extra = map[string]any{"seed": "kept"}
	if err := repo.Update(context.Background(), project, StateApproval); err != nil {
		t.Fatalf("seed extra: %v", err)
	}
	svc := NewService(repo, nil)

	result, err := svc.Transition(context.Background(), "project-1", StateWaiting, map[string]any{
		"expertoAsignado": "expert-9",
		"nota":            "revisar presupuesto",
	})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	extra := result.Project.Extra
	if extra["seed"] != "kept" {
		t.Errorf("pre-existing extra dropped: %v", extra)
	}
	if extra["expertoAsignado"] != "expert-9" || extra["nota"] != "revisar presupuesto" {
		t.Errorf("extra not merged verbatim: %v", extra)
	}
}

func TestTransitionUnknownState(t *testing.T) {
	repo := NewMemoryRepo()
	newTestProject(t, repo, StateApproval)
	svc := NewService(repo, nil)

	if _, err := svc.Transition(context.Background(), "project-1", State("limbo"), nil); err == nil {
		t.Fatal("expected error for unknown state")
	}
}

func TestTransitionNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	_, err := svc.Transition(context.Background(), "nope", StateWaiting, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepoUpdateGuardsOnState(t *testing.T) {
	repo := NewMemoryRepo()
	project := newTestProject(t, repo, StateApproval)

	project.State = StateWaiting
	if err := repo.Update(context.Background(), project, StatePublished); !errors.Is(err, ErrStaleState) {
		t.Fatalf("expected ErrStaleState, got %v", err)
	}
}

func TestConcurrentTransitionsSingleWinner(t *testing.T) {
	repo := NewMemoryRepo()
	newTestProject(t, repo, StateApproval)
	svc := NewService(repo, &recordingEmitter{})

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.Transition(context.Background(), "project-1", StatePublished, nil)
			results <- err
		}()
	}

	var failures int
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			var invalid *InvalidTransitionError
			if !errors.As(err, &invalid) {
				t.Fatalf("loser should fail with InvalidTransitionError, got %v", err)
			}
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("failures = %d, want exactly 1 (double publish must not happen)", failures)
	}
}
