package matching

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"diagnostico-backend/internal/experts"
	"diagnostico-backend/internal/notifications"
	"diagnostico-backend/internal/projects"
	"diagnostico-backend/internal/shared/metrics"
	"diagnostico-backend/internal/shared/telemetry"
)

// Emitter scores experts against a published project and emits one
// match plus one notification per qualifying expert.
type Emitter struct {
	Experts       experts.Repo
	Matches       Repo
	Notifications notifications.Repo
	Weights       Weights
	Parallelism   int
}

// NewEmitter constructs an Emitter with the given scoring parameters.
func NewEmitter(expertRepo experts.Repo, matchRepo Repo, notificationRepo notifications.Repo, weights Weights, parallelism int) *Emitter {
	if parallelism <= 0 {
		parallelism = 8
	}
	return &Emitter{
		Experts:       expertRepo,
		Matches:       matchRepo,
		Notifications: notificationRepo,
		Weights:       weights,
		Parallelism:   parallelism,
	}
}

// EmitMatches evaluates all active experts against the project.
// Candidates are scored in parallel; each row written is independent,
// so a failure for one expert does not undo the others. The returned
// slice is ordered by expert ID for determinism.
func (e *Emitter) EmitMatches(ctx context.Context, project projects.Project) ([]ExpertMatch, error) {
	candidates, err := e.Experts.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		emitted []ExpertMatch
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Parallelism)

	for _, expert := range candidates {
		if gctx.Err() != nil {
			break
		}
		if !isCandidate(expert, project) {
			continue
		}
		g.Go(func() error {
			score, bestIndustry := scoreExpert(e.Weights, expert, project)
			if float64(score) < e.Weights.MinScore {
				return nil
			}
			match, err := e.emitOne(gctx, project, expert, score, bestIndustry)
			if err != nil {
				return err
			}
			mu.Lock()
			emitted = append(emitted, match)
			mu.Unlock()
			return nil
		})
	}

	groupErr := g.Wait()

	sort.Slice(emitted, func(i, j int) bool { return emitted[i].ExpertID < emitted[j].ExpertID })
	metrics.AddMatchesEmitted(len(emitted))
	telemetry.Info("matching.emitted", map[string]any{
		"project_id": project.ID,
		"candidates": len(candidates),
		"matches":    len(emitted),
	})
	if groupErr != nil {
		return emitted, groupErr
	}
	return emitted, nil
}

func (e *Emitter) emitOne(ctx context.Context, project projects.Project, expert experts.Expert, score int, bestIndustry string) (ExpertMatch, error) {
	now := time.Now().UTC()
	match := ExpertMatch{
		ID:           uuid.NewString(),
		ProjectID:    project.ID,
		ExpertID:     expert.ID,
		Score:        score,
		BestIndustry: bestIndustry,
		State:        StatePending,
		CreatedAt:    now,
	}
	if err := e.Matches.Create(ctx, match); err != nil {
		return ExpertMatch{}, err
	}
	notification := notifications.Notification{
		ID:        uuid.NewString(),
		ExpertID:  expert.ID,
		ProjectID: project.ID,
		MatchID:   match.ID,
		Score:     score,
		State:     notifications.StatePending,
		CreatedAt: now,
	}
	if err := e.Notifications.Create(ctx, notification); err != nil {
		return ExpertMatch{}, err
	}
	return match, nil
}
