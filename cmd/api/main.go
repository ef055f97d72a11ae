package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fermx3/companeros-en-ruta-api/docs"
	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/fermx3/companeros-en-ruta-api/internal/config"
	"github.com/fermx3/companeros-en-ruta-api/internal/database"
	"github.com/fermx3/companeros-en-ruta-api/internal/http/handler"
	"github.com/fermx3/companeros-en-ruta-api/internal/http/middleware"
	"github.com/fermx3/companeros-en-ruta-api/internal/http/router"
	"github.com/fermx3/companeros-en-ruta-api/internal/jobs"
	"github.com/fermx3/companeros-en-ruta-api/internal/logger"
	"github.com/fermx3/companeros-en-ruta-api/internal/repository"
	"github.com/fermx3/companeros-en-ruta-api/internal/service"
	"github.com/fermx3/companeros-en-ruta-api/internal/storage"
	"github.com/fermx3/companeros-en-ruta-api/internal/warehouse"
)

// @title Companeros en Ruta KPI API
// @version 1.0
// @description KPI computation and reporting API for brand dashboards, targets, and monthly reports

// @contact.name API Support
// @contact.email soporte@companerosenruta.mx

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "kpi-api-staging.companerosenruta.mx"
	case "production":
		docs.SwaggerInfo.Host = "api.companerosenruta.mx"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize report storage
	reportStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize warehouse mirror connection (optional, read-only).
	// The app serves detail breakdowns from local fact views when the
	// mirror is not configured or fails to connect.
	var warehouseClient *warehouse.Client
	if cfg.Warehouse.Enabled {
		warehouseClient, err = warehouse.NewClient(&cfg.Warehouse, log)
		if err != nil {
			log.Warn("Warehouse connection failed, serving facts from local views",
				zap.Error(err),
			)
		} else if warehouseClient != nil {
			log.Info("Warehouse mirror connected",
				zap.Int("max_open_conns", cfg.Warehouse.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.Warehouse.QueryTimeout),
			)
		}
	} else {
		log.Info("Warehouse mirror not configured, serving facts from local views")
	}

	// Initialize repositories
	brandRepo := repository.NewBrandRepository(db)
	definitionRepo := repository.NewKpiDefinitionRepository(db)
	targetRepo := repository.NewKpiTargetRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	productRepo := repository.NewProductRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	factViewRepo := repository.NewFactViewRepository(db)

	// Detail breakdowns prefer the warehouse mirror when it is up; the
	// local materialized views serve the same shapes otherwise.
	var factSource service.FactSource = factViewRepo
	if warehouseClient.IsEnabled() {
		factSource = warehouseClient
	}

	// Initialize services
	engine := service.NewKpiEngine(brandRepo, definitionRepo, orderRepo, visitRepo, membershipRepo, productRepo, assessmentRepo, log)
	detailService := service.NewKpiDetailService(brandRepo, targetRepo, factSource, log)
	settingsService := service.NewBrandSettingsService(brandRepo, definitionRepo, log)
	definitionService := service.NewKpiDefinitionService(definitionRepo, log)
	targetService := service.NewKpiTargetService(targetRepo, definitionRepo, log)
	reportService := service.NewReportService(detailService, brandRepo, reportStorage, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	kpiHandler := handler.NewKpiHandler(engine, detailService, reportService, log)
	brandHandler := handler.NewBrandSettingsHandler(settingsService, log)
	definitionHandler := handler.NewKpiDefinitionHandler(definitionService, log)
	targetHandler := handler.NewKpiTargetHandler(targetService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		warehouseClient,
		authMiddleware,
		rateLimiter,
		kpiHandler,
		brandHandler,
		definitionHandler,
		targetHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.FactViewRefreshEnabled || cfg.Jobs.ReportSnapshotEnabled {
		scheduler = jobs.NewScheduler(log)

		if cfg.Jobs.FactViewRefreshEnabled {
			refreshJob := jobs.NewFactViewRefreshJob(factViewRepo, repository.FactViewNames, log, 10*time.Minute)
			if err := scheduler.AddJob(jobs.FactViewRefreshJobName, cfg.Jobs.FactViewRefreshCron, refreshJob.Run); err != nil {
				log.Error("Failed to register fact view refresh job", zap.Error(err))
			}
		}

		if cfg.Jobs.ReportSnapshotEnabled {
			snapshotJob := jobs.NewReportSnapshotJob(reportService, log, 30*time.Minute)
			if err := scheduler.AddJob(jobs.ReportSnapshotJobName, cfg.Jobs.ReportSnapshotCron, snapshotJob.Run); err != nil {
				log.Error("Failed to register report snapshot job", zap.Error(err))
			}
		}

		scheduler.Start()
		log.Info("Scheduler started",
			zap.Strings("jobs", scheduler.Names()),
		)
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close warehouse connection if initialized
		if warehouseClient != nil {
			if err := warehouseClient.Close(); err != nil {
				log.Warn("Error closing warehouse connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
