package matching

import (
	"context"
	"testing"
	"time"

	"diagnostico-backend/internal/experts"
	"diagnostico-backend/internal/notifications"
	"diagnostico-backend/internal/projects"
)

func seedExpert(t *testing.T, repo experts.Repo, id string, industries, categories []string) {
	t.Helper()
	err := repo.Create(context.Background(), experts.Expert{
		ID:         id,
		Name:       "Experto " + id,
		Email:      id + "@example.com",
		Industries: industries,
		Categories: categories,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed expert %s: %v", id, err)
	}
}

func testProject() projects.Project {
	return projects.Project{
		ID:         "prj-1",
		UserID:     "user-1",
		Industry:   "Retail",
		Categories: []string{"Logistica", "Ventas"},
		Objective:  "Optimizar inventario y distribucion",
		State:      projects.StatePublished,
		Published:  true,
	}
}

func TestEmitMatchesFiltersByThreshold(t *testing.T) {
	expertRepo := experts.NewMemoryRepo()
	matchRepo := NewMemoryRepo()
	notificationRepo := notifications.NewMemoryRepo()

	// Full overlap scores 100, industry-only 60, weak category 8.
	seedExpert(t, expertRepo, "exp-a", []string{"Retail"}, []string{"Logistica", "Ventas"})
	seedExpert(t, expertRepo, "exp-b", []string{"Retail"}, []string{"Finanzas"})
	seedExpert(t, expertRepo, "exp-c", []string{"Salud"}, []string{"Ventas", "Finanzas", "Legal", "RRHH", "Marketing"})

	emitter := NewEmitter(expertRepo, matchRepo, notificationRepo, DefaultWeights(), 4)
	matches, err := emitter.EmitMatches(context.Background(), testProject())
	if err != nil {
		t.Fatalf("EmitMatches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].ExpertID != "exp-a" || matches[1].ExpertID != "exp-b" {
		t.Fatalf("unexpected order: %s, %s", matches[0].ExpertID, matches[1].ExpertID)
	}
	for _, match := range matches {
		if match.State != StatePending {
			t.Fatalf("match state = %s, want %s", match.State, StatePending)
		}
		if match.ProjectID != "prj-1" {
			t.Fatalf("match project = %s", match.ProjectID)
		}
	}
	if matches[0].Score != 100 || matches[1].Score != 60 {
		t.Fatalf("scores = %d, %d", matches[0].Score, matches[1].Score)
	}
	if matches[0].BestIndustry != "Retail" {
		t.Fatalf("best industry = %q", matches[0].BestIndustry)
	}
}

func TestEmitMatchesCreatesNotificationPerMatch(t *testing.T) {
	expertRepo := experts.NewMemoryRepo()
	matchRepo := NewMemoryRepo()
	notificationRepo := notifications.NewMemoryRepo()
	seedExpert(t, expertRepo, "exp-a", []string{"Retail"}, []string{"Logistica"})

	emitter := NewEmitter(expertRepo, matchRepo, notificationRepo, DefaultWeights(), 4)
	matches, err := emitter.EmitMatches(context.Background(), testProject())
	if err != nil {
		t.Fatalf("EmitMatches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}

	pending, err := notificationRepo.ListByExpert(context.Background(), "exp-a")
	if err != nil {
		t.Fatalf("ListByExpert: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("notifications = %d, want 1", len(pending))
	}
	notification := pending[0]
	if notification.MatchID != matches[0].ID {
		t.Fatalf("notification match id = %s, want %s", notification.MatchID, matches[0].ID)
	}
	if notification.Score != matches[0].Score {
		t.Fatalf("notification score = %d, want %d", notification.Score, matches[0].Score)
	}
	if notification.State != notifications.StatePending {
		t.Fatalf("notification state = %s", notification.State)
	}
	if notification.ViewedAt != nil || notification.RespondedAt != nil {
		t.Fatal("fresh notification should have no timestamps")
	}
}

func TestEmitMatchesZeroCandidates(t *testing.T) {
	emitter := NewEmitter(experts.NewMemoryRepo(), NewMemoryRepo(), notifications.NewMemoryRepo(), DefaultWeights(), 4)
	matches, err := emitter.EmitMatches(context.Background(), testProject())
	if err != nil {
		t.Fatalf("EmitMatches with no experts: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("matches = %d, want 0", len(matches))
	}
}

func TestEmitMatchesDeterministicOrder(t *testing.T) {
	expertRepo := experts.NewMemoryRepo()
	for _, id := range []string{"exp-z", "exp-a", "exp-m"} {
		seedExpert(t, expertRepo, id, []string{"Retail"}, []string{"Logistica"})
	}
	emitter := NewEmitter(expertRepo, NewMemoryRepo(), notifications.NewMemoryRepo(), DefaultWeights(), 3)

	for run := 0; run < 5; run++ {
		matches, err := emitter.EmitMatches(context.Background(), testProject())
		if err != nil {
			t.Fatalf("EmitMatches: %v", err)
		}
		got := []string{matches[0].ExpertID, matches[1].ExpertID, matches[2].ExpertID}
		want := []string{"exp-a", "exp-m", "exp-z"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("run %d order = %v, want %v", run, got, want)
			}
		}
	}
}

func TestEmitMatchesCanceledContext(t *testing.T) {
	expertRepo := experts.NewMemoryRepo()
	seedExpert(t, expertRepo, "exp-a", []string{"Retail"}, []string{"Logistica"})
	emitter := NewEmitter(expertRepo, NewMemoryRepo(), notifications.NewMemoryRepo(), DefaultWeights(), 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := emitter.EmitMatches(ctx, testProject()); err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestEmitMatchesCustomWeights(t *testing.T) {
	expertRepo := experts.NewMemoryRepo()
	// Industry-only expert scores 60 under defaults, 30 with a halved
	// industry weight, which falls under the raised threshold.
	seedExpert(t, expertRepo, "exp-b", []string{"Retail"}, []string{"Finanzas"})

	weights := Weights{Industry: 0.3, Category: 0.7, MinScore: 40}
	emitter := NewEmitter(expertRepo, NewMemoryRepo(), notifications.NewMemoryRepo(), weights, 4)
	matches, err := emitter.EmitMatches(context.Background(), testProject())
	if err != nil {
		t.Fatalf("EmitMatches: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("matches = %d, want 0 under custom weights", len(matches))
	}
}
