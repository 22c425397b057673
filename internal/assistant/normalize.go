package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

type rawProposal struct {
	Name        string `json:"name"`
	Nombre      string `json:"nombre"`
	Summary     string `json:"summary"`
	Resumen     string `json:"resumen"`
	Description string `json:"description"`
	Descripcion string `json:"descripcion"`
}

type proposalsEnvelope struct {
	Propuestas []rawProposal `json:"propuestas"`
	Proposals  []rawProposal `json:"proposals"`
}

// ExtractProposals parses raw assistant output and normalizes it into
// at most MaxProposals proposals, preserving input order. Entries with
// neither a summary nor a description after trimming are dropped.
func ExtractProposals(raw []byte) ([]Proposal, error) {
	var envelope proposalsEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &MalformedResponseError{Raw: string(raw), Err: err}
	}

	entries := envelope.Propuestas
	if len(entries) == 0 {
		entries = envelope.Proposals
	}
	if len(entries) > MaxProposals {
		entries = entries[:MaxProposals]
	}

	out := make([]Proposal, 0, len(entries))
	for i, entry := range entries {
		p := Proposal{
			Name:        firstNonEmpty(entry.Name, entry.Nombre),
			Summary:     firstNonEmpty(entry.Summary, entry.Resumen),
			Description: firstNonEmpty(entry.Description, entry.Descripcion),
		}
		if p.Summary == "" && p.Description == "" {
			continue
		}
		if p.Name == "" {
			p.Name = fmt.Sprintf("Proposal %d", i+1)
		}
		out = append(out, p)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
