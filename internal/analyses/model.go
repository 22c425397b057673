package analyses

import "time"

// AnalysisResult is one scored diagnostic analysis for a user. A user
// accumulates many over time; only the newest two stay active.
type AnalysisResult struct {
	ID           string
	UserID       string
	MetricKey    string
	ValuePercent int
	Active       bool
	ProjectID    string
	CreatedAt    time.Time
}

// Payload carries the normalized outcome of a diagnostic run into the
// retention manager.
type Payload struct {
	MetricKey    string
	ValuePercent int
	Industry     string
	Categories   []string
	Objective    string
}
