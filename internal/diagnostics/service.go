// Package diagnostics orchestrates a full diagnostic run: assistant
// generation, metric derivation, and retention-managed persistence.
package diagnostics

import (
	"context"
	"strings"
	"time"

	"diagnostico-backend/internal/analyses"
	"diagnostico-backend/internal/assistant"
	"diagnostico-backend/internal/projects"
	"diagnostico-backend/internal/shared/metrics"
	"diagnostico-backend/internal/shared/telemetry"
)

// DefaultTimeout bounds a full diagnostic run end to end.
const DefaultTimeout = 15 * time.Second

// Result is the outcome of one diagnostic run.
type Result struct {
	Proposals []assistant.Proposal
	Analysis  analyses.AnalysisResult
	Project   projects.Project
}

// Service runs diagnostics.
type Service struct {
	Assistant assistant.Client
	Analyses  *analyses.Service
	Timeout   time.Duration
}

// NewService constructs a Service.
func NewService(client assistant.Client, analysesSvc *analyses.Service, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{Assistant: client, Analyses: analysesSvc, Timeout: timeout}
}

// Run generates proposals for the input, scores the answers, and
// records the analysis with its companion project. The whole run is
// bounded by the service timeout.
func (s *Service) Run(ctx context.Context, userID string, input assistant.DiagnosticInput) (Result, error) {
	if userID == "" {
		return Result{}, analyses.ErrInvalidInput
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	start := time.Now()
	metrics.IncDiagnosticStarted()

	proposals, err := s.Assistant.GenerateProposals(ctx, input)
	if err != nil {
		metrics.IncDiagnosticFailed()
		telemetry.Error("diagnostic.assistant_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return Result{}, err
	}

	payload := analyses.Payload{
		MetricKey:    metricKey(input),
		ValuePercent: scoreAnswers(input.Answers),
		Industry:     input.Industry,
		Categories:   input.Categories,
		Objective:    input.Objective,
	}
	analysis, project, err := s.Analyses.RecordAnalysis(ctx, userID, payload)
	if err != nil {
		metrics.IncDiagnosticFailed()
		return Result{}, err
	}

	metrics.IncDiagnosticCompleted()
	metrics.ObserveDiagnosticDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	telemetry.Info("diagnostic.completed", map[string]any{
		"user_id":     userID,
		"analysis_id": analysis.ID,
		"project_id":  project.ID,
		"proposals":   len(proposals),
		"score":       analysis.ValuePercent,
	})
	return Result{Proposals: proposals, Analysis: analysis, Project: project}, nil
}

func metricKey(input assistant.DiagnosticInput) string {
	industry := strings.ToLower(strings.TrimSpace(input.Industry))
	if industry == "" {
		return "diagnostico_general"
	}
	return "diagnostico_" + strings.ReplaceAll(industry, " ", "_")
}

// scoreAnswers maps answer completeness to a 0..100 readiness score.
// Empty answers count against the total.
func scoreAnswers(answers map[string]string) int {
	if len(answers) == 0 {
		return 0
	}
	answered := 0
	for _, value := range answers {
		if strings.TrimSpace(value) != "" {
			answered++
		}
	}
	return answered * 100 / len(answers)
}
