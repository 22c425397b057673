package matching

import (
	"strings"

	"diagnostico-backend/internal/experts"
	"diagnostico-backend/internal/projects"
)

// Weights are the scoring parameters. The source platform tunes these
// per deployment, so they are configuration, not constants.
type Weights struct {
	Industry float64
	Category float64
	MinScore float64
}

// DefaultWeights returns the standard scoring parameters.
func DefaultWeights() Weights {
	return Weights{Industry: 0.6, Category: 0.4, MinScore: 40}
}

const minKeywordLen = 4

// scoreExpert computes the weighted overlap between an expert and a
// project, clamped to [0,100]. The second return is the industry that
// produced the match, empty when only categories overlapped.
func scoreExpert(w Weights, expert experts.Expert, project projects.Project) (int, string) {
	industryHit := 0.0
	bestIndustry := ""
	projectIndustry := normalizeTerm(project.Industry)
	for _, industry := range expert.Industries {
		if projectIndustry != "" && normalizeTerm(industry) == projectIndustry {
			industryHit = 1
			bestIndustry = strings.TrimSpace(industry)
			break
		}
	}

	terms := projectTerms(project)
	matched := 0
	for _, category := range expert.Categories {
		if terms[normalizeTerm(category)] {
			matched++
		}
	}
	categoryRatio := 0.0
	if len(expert.Categories) > 0 {
		categoryRatio = float64(matched) / float64(len(expert.Categories))
	}

	raw := (w.Industry*industryHit + w.Category*categoryRatio) * 100
	score := int(raw + 0.5)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, bestIndustry
}

// isCandidate reports whether the expert is worth scoring at all:
// industry intersection or category overlap.
func isCandidate(expert experts.Expert, project projects.Project) bool {
	projectIndustry := normalizeTerm(project.Industry)
	for _, industry := range expert.Industries {
		if projectIndustry != "" && normalizeTerm(industry) == projectIndustry {
			return true
		}
	}
	terms := projectTerms(project)
	for _, category := range expert.Categories {
		if terms[normalizeTerm(category)] {
			return true
		}
	}
	return false
}

// projectTerms collects the project's categories plus objective
// keywords of useful length, normalized for comparison.
func projectTerms(project projects.Project) map[string]bool {
	terms := make(map[string]bool, len(project.Categories)+8)
	for _, category := range project.Categories {
		if t := normalizeTerm(category); t != "" {
			terms[t] = true
		}
	}
	for _, word := range strings.Fields(project.Objective) {
		word = normalizeTerm(strings.Trim(word, ".,;:!?()\"'"))
		if len([]rune(word)) >= minKeywordLen {
			terms[word] = true
		}
	}
	return terms
}

func normalizeTerm(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
