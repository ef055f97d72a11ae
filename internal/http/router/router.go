package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/fermx3/companeros-en-ruta-api/internal/config"
	"github.com/fermx3/companeros-en-ruta-api/internal/database"
	"github.com/fermx3/companeros-en-ruta-api/internal/http/handler"
	"github.com/fermx3/companeros-en-ruta-api/internal/http/middleware"
	"github.com/fermx3/companeros-en-ruta-api/internal/warehouse"

	_ "github.com/fermx3/companeros-en-ruta-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	warehouse         *warehouse.Client
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	kpiHandler        *handler.KpiHandler
	brandHandler      *handler.BrandSettingsHandler
	definitionHandler *handler.KpiDefinitionHandler
	targetHandler     *handler.KpiTargetHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	warehouseClient *warehouse.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	kpiHandler *handler.KpiHandler,
	brandHandler *handler.BrandSettingsHandler,
	definitionHandler *handler.KpiDefinitionHandler,
	targetHandler *handler.KpiTargetHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		warehouse:         warehouseClient,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		kpiHandler:        kpiHandler,
		brandHandler:      brandHandler,
		definitionHandler: definitionHandler,
		targetHandler:     targetHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats":   stats,
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		// Check database
		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		// Check warehouse mirror when configured. The mirror is an optional
		// read path, so a degraded mirror does not fail readiness.
		if rt.warehouse.IsEnabled() {
			checks["warehouse"] = rt.warehouse.HealthCheck(r.Context())
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)

		// KPI catalog administration
		r.Route("/kpi-definitions", func(r chi.Router) {
			r.Get("/", rt.definitionHandler.List)
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireKpiManager)
				r.Post("/", rt.definitionHandler.Create)
				r.Patch("/{id}", rt.definitionHandler.Update)
			})
		})

		// Brand-scoped routes
		r.Route("/brands/{brandId}", func(r chi.Router) {
			r.Use(middleware.BrandScope(rt.logger))

			r.Route("/kpis", func(r chi.Router) {
				r.Get("/", rt.kpiHandler.GetSummary)
				r.Get("/details", rt.kpiHandler.GetDetails)
				r.Get("/export", rt.kpiHandler.Export)
			})

			r.Route("/settings/dashboard-metrics", func(r chi.Router) {
				r.Get("/", rt.brandHandler.GetDashboardMetrics)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireKpiManager)
					r.Put("/", rt.brandHandler.UpdateDashboardMetrics)
				})
			})

			r.Route("/targets", func(r chi.Router) {
				r.Get("/", rt.targetHandler.List)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireKpiManager)
					r.Put("/", rt.targetHandler.Upsert)
					r.Delete("/{id}", rt.targetHandler.Delete)
				})
			})
		})
	})

	return r
}
