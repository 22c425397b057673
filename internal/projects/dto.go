package projects

import "time"

// TransitionRequest is the payload for a lifecycle transition.
type TransitionRequest struct {
	Estado string         `json:"estado" binding:"required"`
	Extra  map[string]any `json:"extra"`
}

// ProjectResponse is the wire shape for a project record.
type ProjectResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	AnalysisID  string         `json:"analysisId"`
	Active      bool           `json:"active"`
	Estado      string         `json:"estado"`
	Industria   string         `json:"industria"`
	Categorias  []string       `json:"categorias"`
	Objetivo    string         `json:"objetivo"`
	Publicado   bool           `json:"publicado"`
	Extra       map[string]any `json:"extra,omitempty"`
	PublishedAt *time.Time     `json:"fechaPublicacion,omitempty"`
	CreatedAt   time.Time      `json:"fechaCreacion"`
	UpdatedAt   time.Time      `json:"fechaActualizacion"`
}

// ToResponse maps a project to its wire shape.
func ToResponse(p Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		AnalysisID:  p.AnalysisID,
		Active:      p.Active,
		Estado:      string(p.State),
		Industria:   p.Industry,
		Categorias:  p.Categories,
		Objetivo:    p.Objective,
		Publicado:   p.Published,
		Extra:       p.Extra,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
