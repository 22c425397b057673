package matching

import (
	"testing"

	"diagnostico-backend/internal/experts"
	"diagnostico-backend/internal/projects"
)

func TestScoreExpert(t *testing.T) {
	weights := DefaultWeights()
	project := projects.Project{
		Industry:   "Retail",
		Categories: []string{"Logistica", "Ventas"},
		Objective:  "Mejorar la distribucion regional",
	}

	tests := []struct {
		name         string
		expert       experts.Expert
		wantScore    int
		wantIndustry string
	}{
		{
			name: "industry and full category overlap",
			expert: experts.Expert{
				Industries: []string{"Retail"},
				Categories: []string{"Logistica", "Ventas"},
			},
			wantScore:    100,
			wantIndustry: "Retail",
		},
		{
			name: "industry only",
			expert: experts.Expert{
				Industries: []string{"retail"},
				Categories: []string{"Finanzas"},
			},
			wantScore:    60,
			wantIndustry: "retail",
		},
		{
			name: "half categories no industry",
			expert: experts.Expert{
				Industries: []string{"Salud"},
				Categories: []string{"Ventas", "Finanzas"},
			},
			wantScore: 20,
		},
		{
			name: "objective keyword counts as category",
			expert: experts.Expert{
				Industries: []string{"Salud"},
				Categories: []string{"Distribucion"},
			},
			wantScore: 40,
		},
		{
			name: "no overlap",
			expert: experts.Expert{
				Industries: []string{"Salud"},
				Categories: []string{"Finanzas"},
			},
			wantScore: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, industry := scoreExpert(weights, tc.expert, project)
			if score != tc.wantScore {
				t.Fatalf("score = %d, want %d", score, tc.wantScore)
			}
			if industry != tc.wantIndustry {
				t.Fatalf("industry = %q, want %q", industry, tc.wantIndustry)
			}
		})
	}
}

func TestIsCandidate(t *testing.T) {
	project := projects.Project{
		Industry:   "Retail",
		Categories: []string{"Logistica"},
		Objective:  "Expandir canales digitales",
	}

	if !isCandidate(experts.Expert{Industries: []string{"RETAIL"}}, project) {
		t.Fatal("industry overlap should qualify")
	}
	if !isCandidate(experts.Expert{Categories: []string{"logistica"}}, project) {
		t.Fatal("category overlap should qualify")
	}
	if !isCandidate(experts.Expert{Categories: []string{"digitales"}}, project) {
		t.Fatal("objective keyword overlap should qualify")
	}
	if isCandidate(experts.Expert{Industries: []string{"Salud"}, Categories: []string{"Finanzas"}}, project) {
		t.Fatal("disjoint expert should not qualify")
	}
}

func TestProjectTermsSkipsShortWords(t *testing.T) {
	terms := projectTerms(projects.Project{Objective: "ir a la nube ya"})
	if terms["la"] || terms["ya"] || terms["ir"] {
		t.Fatalf("short words leaked into terms: %v", terms)
	}
	if !terms["nube"] {
		t.Fatalf("expected nube in terms: %v", terms)
	}
}
