package diagnostics

import (
	"context"
	"errors"
	"testing"
	"time"

	"diagnostico-backend/internal/analyses"
	"diagnostico-backend/internal/assistant"
	"diagnostico-backend/internal/projects"
)

type fakeAssistant struct {
	proposals []assistant.Proposal
	err       error
	delay     time.Duration
	gotInput  assistant.DiagnosticInput
}

func (f *fakeAssistant) GenerateProposals(ctx context.Context, input assistant.DiagnosticInput) ([]assistant.Proposal, error) {
	f.gotInput = input
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.proposals, nil
}

func newTestService(client assistant.Client, timeout time.Duration) *Service {
	analysesSvc := analyses.NewService(analyses.NewMemoryRepo(), projects.NewMemoryRepo(), 2)
	return NewService(client, analysesSvc, timeout)
}

func sampleInput() assistant.DiagnosticInput {
	return assistant.DiagnosticInput{
		CompanyName: "Acme SA",
		Industry:    "Retail",
		Categories:  []string{"Logistica"},
		Objective:   "Reducir costos",
		Answers:     map[string]string{"q1": "si", "q2": "no", "q3": "", "q4": "tal vez"},
	}
}

func TestRunRecordsAnalysisAndProject(t *testing.T) {
	client := &fakeAssistant{proposals: []assistant.Proposal{
		{Name: "Proposal 1", Summary: "resumen", Description: "detalle"},
	}}
	service := newTestService(client, time.Second)

	result, err := service.Run(context.Background(), "user-1", sampleInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Proposals) != 1 {
		t.Fatalf("proposals = %d, want 1", len(result.Proposals))
	}
	if result.Analysis.UserID != "user-1" || !result.Analysis.Active {
		t.Fatalf("unexpected analysis: %+v", result.Analysis)
	}
	// 3 of 4 answers are non-empty.
	if result.Analysis.ValuePercent != 75 {
		t.Fatalf("score = %d, want 75", result.Analysis.ValuePercent)
	}
	if result.Analysis.MetricKey != "diagnostico_retail" {
		t.Fatalf("metric key = %q", result.Analysis.MetricKey)
	}
	if result.Project.ID != result.Analysis.ProjectID {
		t.Fatal("project not cross-linked to analysis")
	}
	if result.Project.State != projects.StateApproval {
		t.Fatalf("project state = %s", result.Project.State)
	}
	if result.Project.Industry != "Retail" || result.Project.Objective != "Reducir costos" {
		t.Fatalf("project input not carried over: %+v", result.Project)
	}
	if client.gotInput.CompanyName != "Acme SA" {
		t.Fatalf("assistant input = %+v", client.gotInput)
	}
}

func TestRunAssistantFailureWritesNothing(t *testing.T) {
	client := &fakeAssistant{err: &assistant.TransientError{Attempts: 3, Err: errors.New("boom")}}
	service := newTestService(client, time.Second)

	_, err := service.Run(context.Background(), "user-1", sampleInput())
	var transient *assistant.TransientError
	if !errors.As(err, &transient) {
		t.Fatalf("err = %v, want TransientError", err)
	}

	list, err := service.Analyses.List(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("analyses persisted despite assistant failure: %d", len(list))
	}
}

func TestRunTimeoutBoundsAssistant(t *testing.T) {
	client := &fakeAssistant{delay: 500 * time.Millisecond}
	service := newTestService(client, 30*time.Millisecond)

	start := time.Now()
	_, err := service.Run(context.Background(), "user-1", sampleInput())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 300*time.Millisecond {
		t.Fatalf("run took %v, timeout not enforced", elapsed)
	}
}

func TestRunRequiresUser(t *testing.T) {
	service := newTestService(&fakeAssistant{}, time.Second)
	if _, err := service.Run(context.Background(), "", sampleInput()); !errors.Is(err, analyses.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestScoreAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers map[string]string
		want    int
	}{
		{"nil", nil, 0},
		{"all answered", map[string]string{"a": "x", "b": "y"}, 100},
		{"half answered", map[string]string{"a": "x", "b": " "}, 50},
		{"none answered", map[string]string{"a": "", "b": ""}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := scoreAnswers(tc.answers); got != tc.want {
				t.Fatalf("scoreAnswers = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMetricKey(t *testing.T) {
	if got := metricKey(assistant.DiagnosticInput{Industry: " Comercio Exterior "}); got != "diagnostico_comercio_exterior" {
		t.Fatalf("metricKey = %q", got)
	}
	if got := metricKey(assistant.DiagnosticInput{}); got != "diagnostico_general" {
		t.Fatalf("metricKey = %q", got)
	}
}
