package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bili-app/bili-api/internal/config"
	"github.com/bili-app/bili-api/internal/content"
	"github.com/bili-app/bili-api/internal/platform/postgres"
	"github.com/bili-app/bili-api/internal/service/auth"
	"github.com/bili-app/bili-api/internal/service/practice"
	"github.com/bili-app/bili-api/internal/service/progress"
	"github.com/bili-app/bili-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore     store.UserStore
	profileStore  store.ProfileStore
	progressStore store.ProgressStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	tracker          progress.Tracker
	practiceManager  *practice.Manager

	// Static vocabulary content
	catalog *content.Catalog
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts the core dependencies that must be established
// before application wiring: configuration, logger, and database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.profileStore = postgres.NewPostgresProfileStore(db, logger)
	app.progressStore = postgres.NewPostgresProgressStore(db, logger)

	app.catalog, err = content.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary catalog: %w", err)
	}

	app.tracker = progress.NewTracker(app.progressStore, logger)
	app.practiceManager = practice.NewManager(app.tracker, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
