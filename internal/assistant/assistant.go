// Package assistant defines the port to the external generative
// assistant that turns raw diagnostic input into project proposals.
package assistant

import "context"

// MaxProposals bounds how many proposals a single generation returns.
const MaxProposals = 3

// DiagnosticInput is the free-form company data submitted for analysis.
type DiagnosticInput struct {
	CompanyName string            `json:"companyName"`
	Industry    string            `json:"industria"`
	Categories  []string          `json:"categorias"`
	Objective   string            `json:"objetivo"`
	Answers     map[string]string `json:"answers"`
}

// Proposal is one normalized candidate project description extracted
// from assistant output.
type Proposal struct {
	Name        string `json:"name"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

// Client generates proposals from diagnostic input. Implementations do
// not write to storage.
type Client interface {
	GenerateProposals(ctx context.Context, input DiagnosticInput) ([]Proposal, error)
}
