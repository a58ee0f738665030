package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstock/internal/audit"
	"github.com/mrlokans/bookstock/internal/config"
	"github.com/mrlokans/bookstock/internal/database"
	auditrepo "github.com/mrlokans/bookstock/internal/database/audit"
	"github.com/mrlokans/bookstock/internal/database/books"
	http_controllers "github.com/mrlokans/bookstock/internal/http"
	"github.com/mrlokans/bookstock/internal/logger"
	"github.com/mrlokans/bookstock/internal/scheduler"
	"github.com/mrlokans/bookstock/internal/services"
	"github.com/mrlokans/bookstock/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("addr", addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("listen")
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.WithField("timeout", timeout).Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server shutdown")
	}

	// Background work stops after the server so in-flight requests can still
	// enqueue audit events.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	logger.Log.Info("Server exiting")
}

func Run(cfg *config.Config, version string) {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Log.WithField("version", version).Info("Starting bookstock")

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Log.WithError(err).Error("Error closing database")
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate database")
	}

	bookService := services.NewBookService(books.NewRepository(db.DB), cfg.Pagination)

	routerCfg := http_controllers.RouterConfig{
		Books:              bookService,
		Database:           db,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		APITokenHash:       cfg.Auth.APITokenHash,
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		Version:            version,
	}

	var auditRepo *auditrepo.Repository
	var auditService *audit.Service
	if cfg.Audit.Enabled {
		auditRepo = auditrepo.NewRepository(db.DB)
		auditService = audit.NewService(auditRepo)
		bookService.SetEventRecorder(auditService)
		routerCfg.Audit = auditService
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Tasks.DatabasePath, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Log.WithError(err).Error("Error closing task client")
			}
		}()

		if auditService != nil {
			taskClient.Register(
				tasks.NewRecordAuditEventQueue(auditRepo),
				tasks.NewCleanupAuditEventsQueue(auditService),
			)
			auditService.SetEnqueuer(taskClient)
			routerCfg.Tasks = taskClient
		}

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var cleanupScheduler *scheduler.AuditCleanupScheduler
	if auditService != nil && cfg.Audit.CleanupSchedule != "" {
		var enqueuer scheduler.CleanupEnqueuer
		if taskClient != nil {
			enqueuer = taskClient
		}
		cleanupScheduler = scheduler.NewAuditCleanupScheduler(
			cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays, enqueuer, auditService)
		if err := cleanupScheduler.Start(context.Background()); err != nil {
			logger.Log.WithError(err).WithField("schedule", cfg.Audit.CleanupSchedule).
				Error("Audit cleanup scheduler disabled")
			cleanupScheduler = nil
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"driver":      cfg.Database.Driver,
		"audit":       cfg.Audit.Enabled,
		"tasks":       cfg.Tasks.Enabled,
		"write_guard": cfg.Auth.APITokenHash != "",
	}).Info("Services initialized")

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		if auditService != nil {
			auditService.Wait()
		}
	}

	Serve(router, cfg, onShutdown)
}
