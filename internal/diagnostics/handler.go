package diagnostics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"diagnostico-backend/internal/analyses"
	"diagnostico-backend/internal/assistant"
	"diagnostico-backend/internal/projects"
	"diagnostico-backend/internal/shared/keylock"
	"diagnostico-backend/internal/shared/server/middleware"
	"diagnostico-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the diagnostics service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches diagnostic routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/diagnostics", h.run)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/active", h.listActive)
	rg.GET("/analyses/:id", h.getAnalysis)
}

type runRequest struct {
	CompanyName string            `json:"companyName" binding:"required"`
	Industry    string            `json:"industria"`
	Categories  []string          `json:"categorias"`
	Objective   string            `json:"objetivo"`
	Answers     map[string]string `json:"answers"`
}

type proposalResponse struct {
	Name        string `json:"nombre"`
	Summary     string `json:"resumen"`
	Description string `json:"descripcion"`
}

type analysisResponse struct {
	ID           string    `json:"id"`
	MetricKey    string    `json:"metrica"`
	ValuePercent int       `json:"valorPorcentaje"`
	Active       bool      `json:"activo"`
	ProjectID    string    `json:"projectId"`
	CreatedAt    time.Time `json:"fechaCreacion"`
}

type runResponse struct {
	Proposals []proposalResponse       `json:"propuestas"`
	Analysis  analysisResponse         `json:"analysis"`
	Project   projects.ProjectResponse `json:"project"`
}

func toAnalysisResponse(a analyses.AnalysisResult) analysisResponse {
	return analysisResponse{
		ID:           a.ID,
		MetricKey:    a.MetricKey,
		ValuePercent: a.ValuePercent,
		Active:       a.Active,
		ProjectID:    a.ProjectID,
		CreatedAt:    a.CreatedAt,
	}
}

func (h *Handler) run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "companyName is required", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)

	result, err := h.Svc.Run(c.Request.Context(), userID, assistant.DiagnosticInput{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Categories:  req.Categories,
		Objective:   req.Objective,
		Answers:     req.Answers,
	})
	if err != nil {
		h.writeRunError(c, err)
		return
	}

	c.Set("analysisId", result.Analysis.ID)
	c.Set("projectId", result.Project.ID)

	proposals := make([]proposalResponse, 0, len(result.Proposals))
	for _, p := range result.Proposals {
		proposals = append(proposals, proposalResponse{
			Name:        p.Name,
			Summary:     p.Summary,
			Description: p.Description,
		})
	}
	respond.Created(c, runResponse{
		Proposals: proposals,
		Analysis:  toAnalysisResponse(result.Analysis),
		Project:   projects.ToResponse(result.Project),
	})
}

func (h *Handler) writeRunError(c *gin.Context, err error) {
	var reqErr *assistant.RequestError
	var malformed *assistant.MalformedResponseError
	var transient *assistant.TransientError
	switch {
	case errors.As(err, &reqErr):
		respond.Error(c, http.StatusBadGateway, "assistant_rejected", "assistant rejected the request", gin.H{"status": reqErr.Status})
	case errors.As(err, &malformed):
		respond.Error(c, http.StatusBadGateway, "assistant_malformed", "assistant returned an unreadable response", nil)
	case errors.As(err, &transient):
		respond.Error(c, http.StatusGatewayTimeout, "assistant_unavailable", "assistant did not respond in time", nil)
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, "timeout", "diagnostic run timed out", nil)
	case errors.Is(err, keylock.ErrContended):
		respond.Error(c, http.StatusConflict, "conflict", "another diagnostic for this user is in progress", nil)
	case errors.Is(err, analyses.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid diagnostic input", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "diagnostic run failed", nil)
	}
}

func (h *Handler) listAnalyses(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit, offset := pagination(c)
	list, err := h.Svc.Analyses.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}
	respond.OK(c, gin.H{"analyses": toAnalysisResponses(list)})
}

func (h *Handler) listActive(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	list, err := h.Svc.Analyses.ListActive(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}
	respond.OK(c, gin.H{"analyses": toAnalysisResponses(list)})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	analysis, err := h.Svc.Analyses.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, analyses.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load analysis", nil)
		return
	}
	respond.OK(c, toAnalysisResponse(analysis))
}

func toAnalysisResponses(list []analyses.AnalysisResult) []analysisResponse {
	out := make([]analysisResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAnalysisResponse(a))
	}
	return out
}

func pagination(c *gin.Context) (int, int) {
	limit := intQuery(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := intQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
