package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/labels"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/entities"
	http_controllers "github.com/mrlokans/catalog/internal/http"
	"github.com/mrlokans/catalog/internal/logging"
	"github.com/mrlokans/catalog/internal/metrics"
	"github.com/mrlokans/catalog/internal/scheduler"
	"github.com/mrlokans/catalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown")
	}

	log.Info().Msg("Server exiting")
}

func Run(cfg *config.Config, version string) {
	logging.Init(cfg.Log)
	log.Info().Str("version", version).Msg("Starting catalog")

	if cfg.Auth.Mode != config.AuthModeNone && cfg.Auth.Mode != config.AuthModeLocal {
		log.Fatal().Str("mode", string(cfg.Auth.Mode)).Msg("Unknown AUTH_MODE, expected none or local")
	}
	if cfg.LabelCleanup.Schedule != "" {
		if err := scheduler.ValidateSchedule(cfg.LabelCleanup.Schedule); err != nil {
			log.Fatal().Err(err).Msg("Invalid LABEL_CLEANUP_SCHEDULE")
		}
	}

	db, err := database.NewDatabase(cfg.Database.Path, database.WithLogLevel(logging.GormLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	labelRepo := labels.NewRepository(db.DB)
	catalogService := catalog.NewService(bookRepo, labelRepo, cfg.Catalog.PageSize)

	authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)

	var defaultUser *entities.User
	if cfg.Auth.Mode == config.AuthModeNone {
		log.Info().Msg("Authentication mode: none (every request acts as the default account)")
		defaultUser, err = authService.EnsureDefaultUser()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare default account")
		}
	} else {
		log.Info().Msg("Authentication mode: local")
		if accounts, err := authService.ListUsers(); err == nil && len(accounts) == 0 {
			log.Warn().Msg("No accounts found. Run 'catalog create-user -role admin' to create one.")
		}
	}

	// Sessions back both login and the home page visit counter
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get SQL DB for sessions")
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session manager")
	}
	defer sessionManager.Close()

	var csrfSecret []byte
	if cfg.Auth.Mode == config.AuthModeLocal {
		csrfSecret, err = resolveCSRFSecret(cfg.Auth.SessionSecret)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to generate CSRF secret")
		}
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing task client")
			}
		}()

		taskClient.Register(tasks.NewCleanupOrphanLabelsQueue(labelRepo))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		taskClient.Start(taskCtx)
	}

	// Scheduled orphan label cleanup goes through the queue when there is one
	cleanup := func() error {
		_, err := labelRepo.DeleteOrphanLabels()
		return err
	}
	if taskClient != nil {
		cleanup = func() error {
			_, err := taskClient.EnqueueLabelCleanup()
			return err
		}
	}
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	labelScheduler := scheduler.NewLabelCleanupScheduler(cfg.LabelCleanup.Schedule, cleanup)
	if err := labelScheduler.Start(schedCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start label cleanup scheduler")
	}

	prometheus.MustRegister(metrics.NewCatalogCollector(db))

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Catalog:        catalogService,
		LabelStore:     labelRepo,
		Database:       db,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthMiddleware: auth.NewMiddleware(authService, sessionManager, cfg.Auth, defaultUser),
		AuthHandlers:   auth.NewHandlers(authService, sessionManager),
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		LabelKind:      cfg.Catalog.LabelKind,
		TaskClient:     taskClient,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		labelScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// resolveCSRFSecret decodes a configured hex secret, falling back to the raw
// bytes, or generates a fresh one.
func resolveCSRFSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}

	secret, err := auth.GenerateSecret()
	if err != nil {
		return nil, err
	}
	log.Warn().Msg("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(secret)
}
