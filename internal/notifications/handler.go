package notifications

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"diagnostico-backend/internal/shared/server/middleware"
	"diagnostico-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the notification service. Experts
// authenticate like users; their identity doubles as the expert ID.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches notification routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.list)
	rg.POST("/notifications/:id/view", h.markViewed)
	rg.POST("/notifications/:id/respond", h.respond)
}

type notificationResponse struct {
	ID          string     `json:"id"`
	ExpertID    string     `json:"expertId"`
	ProjectID   string     `json:"projectId"`
	Score       int        `json:"score"`
	Estado      string     `json:"estado"`
	ViewedAt    *time.Time `json:"fechaVista,omitempty"`
	RespondedAt *time.Time `json:"fechaRespuesta,omitempty"`
	CreatedAt   time.Time  `json:"fechaCreacion"`
}

func toResponse(n Notification) notificationResponse {
	return notificationResponse{
		ID:          n.ID,
		ExpertID:    n.ExpertID,
		ProjectID:   n.ProjectID,
		Score:       n.Score,
		Estado:      string(n.State),
		ViewedAt:    n.ViewedAt,
		RespondedAt: n.RespondedAt,
		CreatedAt:   n.CreatedAt,
	}
}

func (h *Handler) list(c *gin.Context) {
	expertID := middleware.UserIDFromContext(c)
	list, err := h.Svc.ListForExpert(c.Request.Context(), expertID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list notifications", nil)
		return
	}
	out := make([]notificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toResponse(n))
	}
	respond.OK(c, gin.H{"notifications": out})
}

func (h *Handler) markViewed(c *gin.Context) {
	expertID := middleware.UserIDFromContext(c)
	notification, err := h.Svc.MarkViewed(c.Request.Context(), expertID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toResponse(notification))
}

type respondRequest struct {
	Accepted *bool `json:"accepted" binding:"required"`
}

func (h *Handler) respond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "accepted is required", nil)
		return
	}
	expertID := middleware.UserIDFromContext(c)
	notification, err := h.Svc.Respond(c.Request.Context(), expertID, c.Param("id"), *req.Accepted)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toResponse(notification))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "notification not found", nil)
	case errors.Is(err, ErrAlreadyResponded):
		respond.Error(c, http.StatusConflict, "already_responded", "notification was already responded", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update notification", nil)
	}
}
