package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/migrations"
	"github.com/supervisormatch/supervisormatch/pkg/audit"
	"github.com/supervisormatch/supervisormatch/pkg/auth"
	"github.com/supervisormatch/supervisormatch/pkg/config"
	"github.com/supervisormatch/supervisormatch/pkg/database"
	"github.com/supervisormatch/supervisormatch/pkg/handlers"
	"github.com/supervisormatch/supervisormatch/pkg/logging"
	"github.com/supervisormatch/supervisormatch/pkg/middleware"
	"github.com/supervisormatch/supervisormatch/pkg/pure"
	"github.com/supervisormatch/supervisormatch/pkg/repositories"
	"github.com/supervisormatch/supervisormatch/pkg/retry"
	"github.com/supervisormatch/supervisormatch/pkg/scoring"
	"github.com/supervisormatch/supervisormatch/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("redis_host", cfg.Redis.Host),
		zap.String("scoring_backend", cfg.Scoring.BackendURL),
		zap.String("pure_base_url", cfg.Pure.BaseURL),
		zap.Int("top_n", cfg.Scoring.TopN))

	connStr := cfg.Database.ConnectionString()

	retryCfg := retry.DefaultConfig()
	retryCfg.OnRetry = func(attempt int, err error) {
		logger.Warn("Database not ready, retrying", zap.Int("attempt", attempt), zap.String("error", logging.SanitizeError(err)))
	}
	db, err := retry.DoWithResult(ctx, retryCfg, func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            connStr,
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %s", logging.SanitizeError(err))
	}
	defer db.Close()

	if err := migrate(connStr, logger); err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient == nil {
		logger.Info("Redis not configured, drafts are disabled")
	} else {
		defer func() { _ = redisClient.Close() }()
	}

	jwksClient, err := auth.NewJWKSClient(ctx, &auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise JWKS client: %w", err)
	}
	defer jwksClient.Close()
	authMiddleware := auth.NewMiddleware(
		auth.NewAuthService(jwksClient, cfg.Auth.SessionCookie, logger.Named("auth")),
		logger.Named("auth"))

	// Repositories
	studentRepo := repositories.NewStudentRepository(db)
	suggestionRepo := repositories.NewSuggestionRepository(db)
	topicRepo := repositories.NewTopicRepository(db)
	supervisorRepo := repositories.NewSupervisorRepository(db)
	draftRepo := repositories.NewDraftRepository(redisClient)

	// External clients
	directory := pure.NewClient(&cfg.Pure, logger)
	scorer := scoring.NewClient(&cfg.Scoring, logger)

	// Services
	topicService := services.NewTopicService(topicRepo, logger)
	settingsService := services.NewSettingsService(studentRepo, supervisorRepo, logger)
	requestService := services.NewSuggestionRequestService(
		suggestionRepo, studentRepo, draftRepo, scorer, cfg.Scoring.TopN, logger)
	suggestionService := services.NewSuggestionService(
		suggestionRepo, directory, cfg.Pure.MaxConcurrency, logger)

	if cfg.TopicsFile != "" {
		n, err := topicService.SeedFile(ctx, cfg.TopicsFile)
		if err != nil {
			return fmt.Errorf("failed to seed topics: %w", err)
		}
		logger.Info("Seeded topics", zap.Int("count", n), zap.String("file", cfg.TopicsFile))
	}

	auditor := audit.NewAuditor(logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewTopicsHandler(topicService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewSuggestionsHandler(requestService, suggestionService, auditor, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewSettingsHandler(settingsService, auditor, logger).RegisterRoutes(mux, authMiddleware)

	// Static UI files
	mux.Handle("/", http.FileServer(http.Dir(cfg.UIDir)))

	handler := middleware.RequestID()(middleware.RequestLogger(logger.Named("http"))(mux))

	srv := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Scoring.Timeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting supervisormatch",
			zap.String("addr", srv.Addr),
			zap.Bool("tls", cfg.TLSCertPath != ""))
		var err error
		if cfg.TLSCertPath != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// migrate applies the embedded schema over a short-lived database/sql handle.
func migrate(connStr string, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	if err := database.RunMigrations(sqlDB, migrations.FS, logger.Named("migrations")); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
