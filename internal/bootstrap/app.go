// Package bootstrap wires configuration, storage, services, and the
// HTTP router into a runnable application.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"diagnostico-backend/internal/analyses"
	"diagnostico-backend/internal/assistant"
	"diagnostico-backend/internal/assistant/chat"
	"diagnostico-backend/internal/assistant/threads"
	"diagnostico-backend/internal/diagnostics"
	"diagnostico-backend/internal/experts"
	"diagnostico-backend/internal/matching"
	"diagnostico-backend/internal/notifications"
	"diagnostico-backend/internal/projects"
	"diagnostico-backend/internal/shared/config"
	"diagnostico-backend/internal/shared/server"
	"diagnostico-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	AnalysesRepo     analyses.Repo
	ProjectsRepo     projects.Repo
	ExpertsRepo      experts.Repo
	MatchesRepo      matching.Repo
	NotificationRepo notifications.Repo

	AssistantClient     assistant.Client
	AnalysesService     *analyses.Service
	ProjectsService     *projects.Service
	ExpertsService      *experts.Service
	NotificationService *notifications.Service
	DiagnosticsService  *diagnostics.Service
	MatchEmitter        *matching.Emitter
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              cfg,
		DiagnosticsHandler:  diagnostics.NewHandler(app.DiagnosticsService),
		ProjectsHandler:     projects.NewHandler(app.ProjectsService),
		ExpertsHandler:      experts.NewHandler(app.ExpertsService),
		NotificationHandler: notifications.NewHandler(app.NotificationService),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildServices(app *App) error {
	cfg := app.Config

	if app.DB != nil {
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
		app.ProjectsRepo = &projects.PGRepo{DB: app.DB}
		app.ExpertsRepo = &experts.PGRepo{DB: app.DB}
		app.MatchesRepo = &matching.PGRepo{DB: app.DB}
		app.NotificationRepo = &notifications.PGRepo{DB: app.DB}
	} else {
		app.AnalysesRepo = analyses.NewMemoryRepo()
		app.ProjectsRepo = projects.NewMemoryRepo()
		app.ExpertsRepo = experts.NewMemoryRepo()
		app.MatchesRepo = matching.NewMemoryRepo()
		app.NotificationRepo = notifications.NewMemoryRepo()
	}

	assistantClient, err := buildAssistant(cfg)
	if err != nil {
		return err
	}
	app.AssistantClient = assistant.NewLimited(assistantClient, cfg.AssistantMaxInFlight)

	weights := matching.Weights{
		Industry: cfg.MatchIndustryWeight,
		Category: cfg.MatchCategoryWeight,
		MinScore: cfg.MatchMinScore,
	}
	app.MatchEmitter = matching.NewEmitter(app.ExpertsRepo, app.MatchesRepo, app.NotificationRepo, weights, cfg.MatchParallelism)

	emitter := projects.MatchEmitterFunc(func(ctx context.Context, project projects.Project) (int, error) {
		matches, err := app.MatchEmitter.EmitMatches(ctx, project)
		return len(matches), err
	})

	app.ProjectsService = projects.NewService(app.ProjectsRepo, emitter)
	app.AnalysesService = analyses.NewService(app.AnalysesRepo, app.ProjectsRepo, cfg.RetentionKeep)
	app.ExpertsService = experts.NewService(app.ExpertsRepo)
	app.NotificationService = notifications.NewService(app.NotificationRepo)
	app.DiagnosticsService = diagnostics.NewService(app.AssistantClient, app.AnalysesService, cfg.AssistantTimeout)
	return nil
}

func buildAssistant(cfg config.Config) (assistant.Client, error) {
	switch cfg.AssistantProvider {
	case "chat":
		return chat.New(cfg.AssistantAPIKey, cfg.AssistantModel)
	default:
		client, err := threads.New(cfg.AssistantBaseURL, cfg.AssistantAPIKey, cfg.AssistantModel)
		if err != nil {
			return nil, err
		}
		if cfg.AssistantMaxAttempts > 0 {
			client.MaxAttempts = cfg.AssistantMaxAttempts
		}
		if cfg.AssistantBaseDelay > 0 {
			client.BaseDelay = cfg.AssistantBaseDelay
		}
		return client, nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
