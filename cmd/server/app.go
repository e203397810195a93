package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bloom/internal/config"
	"github.com/phrazzld/bloom/internal/platform/metrics"
	"github.com/phrazzld/bloom/internal/platform/postgres"
	"github.com/phrazzld/bloom/internal/service"
	"github.com/phrazzld/bloom/internal/service/auth"
)

// application holds the long-lived dependencies of the server.
type application struct {
	config          *config.Config
	logger          *slog.Logger
	db              *sql.DB
	metrics         *metrics.Metrics
	jwtService      auth.JWTService
	userService     service.UserService
	catalogService  service.CatalogService
	progressService service.ProgressService
}

// newApplication wires stores and services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	m := metrics.New()

	userStore := postgres.NewPostgresUserStore(db, logger)
	catalogStore := postgres.NewPostgresCatalogStore(db, logger)
	progressStore := postgres.NewPostgresProgressStore(db, logger)

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)

	return &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		metrics:         m,
		jwtService:      jwtService,
		userService:     service.NewUserService(userStore, jwtService, hasher, cfg.Energy.Initial, logger),
		catalogService:  service.NewCatalogService(catalogStore, logger),
		progressService: service.NewProgressService(db, progressStore, userStore, m, logger),
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

func (app *application) setupRouter() *chiRouter {
	return newRouter(routerDeps{
		logger:   app.logger,
		metrics:  app.metrics,
		jwt:      app.jwtService,
		users:    app.userService,
		catalog:  app.catalogService,
		progress: app.progressService,
	})
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
