package projects

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"diagnostico-backend/internal/shared/keylock"
	"diagnostico-backend/internal/shared/server/middleware"
	"diagnostico-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the project service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches project routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects", h.listProjects)
	rg.GET("/projects/:id", h.getProject)
	rg.POST("/projects/:id/transition", h.transition)
}

func (h *Handler) listProjects(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	list, err := h.Svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list projects", nil)
		return
	}
	out := make([]ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToResponse(p))
	}
	respond.OK(c, gin.H{"projects": out})
}

func (h *Handler) getProject(c *gin.Context) {
	project, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch project", nil)
		}
		return
	}
	if project.UserID != middleware.UserIDFromContext(c) {
		respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		return
	}
	respond.OK(c, ToResponse(project))
}

func (h *Handler) transition(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "estado is required", nil)
		return
	}

	result, err := h.Svc.Transition(c.Request.Context(), c.Param("id"), State(req.Estado), req.Extra)
	if err != nil {
		var invalid *InvalidTransitionError
		switch {
		case errors.As(err, &invalid):
			respond.Error(c, http.StatusConflict, "invalid_transition", invalid.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		case errors.Is(err, keylock.ErrContended), errors.Is(err, ErrStaleState):
			respond.Error(c, http.StatusConflict, "conflict", "project is being modified, retry", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to transition project", nil)
		}
		return
	}

	payload := gin.H{
		"project":        ToResponse(result.Project),
		"matchesEmitted": result.MatchesEmitted,
	}
	if result.MatchErr != nil {
		payload["warning"] = "project published but expert matching failed"
	}
	respond.OK(c, payload)
}
