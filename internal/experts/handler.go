package experts

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"diagnostico-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the expert directory service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches expert routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/experts", h.register)
	rg.GET("/experts", h.list)
	rg.GET("/experts/:id", h.get)
}

type registerRequest struct {
	Name       string   `json:"nombre" binding:"required"`
	Email      string   `json:"email" binding:"required"`
	Industries []string `json:"industrias"`
	Categories []string `json:"categorias"`
}

type expertResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"nombre"`
	Email      string    `json:"email"`
	Industries []string  `json:"industrias"`
	Categories []string  `json:"categorias"`
	Active     bool      `json:"activo"`
	CreatedAt  time.Time `json:"fechaCreacion"`
}

func toResponse(expert Expert) expertResponse {
	return expertResponse{
		ID:         expert.ID,
		Name:       expert.Name,
		Email:      expert.Email,
		Industries: expert.Industries,
		Categories: expert.Categories,
		Active:     expert.Active,
		CreatedAt:  expert.CreatedAt,
	}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "nombre and email are required", nil)
		return
	}
	expert, err := h.Svc.Register(c.Request.Context(), RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Industries: req.Industries,
		Categories: req.Categories,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid expert payload", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register expert", nil)
		return
	}
	respond.Created(c, toResponse(expert))
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.ListActive(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list experts", nil)
		return
	}
	out := make([]expertResponse, 0, len(list))
	for _, expert := range list {
		out = append(out, toResponse(expert))
	}
	respond.OK(c, gin.H{"experts": out})
}

func (h *Handler) get(c *gin.Context) {
	expert, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusNotFound, "not_found", "expert not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load expert", nil)
		return
	}
	respond.OK(c, toResponse(expert))
}
