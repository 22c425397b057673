package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"diagnostico-backend/internal/diagnostics"
	"diagnostico-backend/internal/experts"
	"diagnostico-backend/internal/notifications"
	"diagnostico-backend/internal/projects"
	"diagnostico-backend/internal/shared/config"
	"diagnostico-backend/internal/shared/metrics"
	"diagnostico-backend/internal/shared/server/middleware"
	"diagnostico-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config              config.Config
	DiagnosticsHandler  *diagnostics.Handler
	ProjectsHandler     *projects.Handler
	ExpertsHandler      *experts.Handler
	NotificationHandler *notifications.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	authed := api.Group("")
	authed.Use(middleware.Identity(), middleware.APIRateLimit())
	registerMeRoutes(authed)
	deps.DiagnosticsHandler.RegisterRoutes(authed)
	deps.ProjectsHandler.RegisterRoutes(authed)
	deps.ExpertsHandler.RegisterRoutes(authed)
	deps.NotificationHandler.RegisterRoutes(authed)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
