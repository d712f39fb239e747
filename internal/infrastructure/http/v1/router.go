// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"sieve/internal/domain/filter"
	"sieve/internal/domain/resource"
	"sieve/internal/infrastructure/http/v1/handlers"
	"sieve/internal/infrastructure/http/v1/middleware"
	"sieve/internal/infrastructure/storage/postgres"
	"sieve/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Registry holds the declared resources
	Registry *resource.Registry

	// Engine resolves request filters into scope transformations
	Engine *filter.Engine

	// Adapter builds base scopes for resources
	Adapter filter.Adapter

	// Executor runs resolved scopes against the database
	Executor *postgres.Executor

	// Pool is used for health checks; nil disables the readiness DB check
	Pool *postgres.Pool

	// JWTValidator for token validation; nil makes all requests anonymous
	JWTValidator middleware.JWTValidator

	// Audit records executed queries; nil disables auditing
	Audit *postgres.QueryAudit
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	queryHandler := handlers.NewQueryHandler(cfg.Registry, cfg.Engine, cfg.Adapter, cfg.Executor, cfg.Audit)
	resourcesHandler := handlers.NewResourcesHandler(cfg.Registry, cfg.Audit)

	// API v1. Auth is optional: guards decide per filter what an
	// anonymous caller may use.
	api := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		api.Use(middleware.OptionalAuth(cfg.JWTValidator))
	}
	{
		api.GET("/resources", resourcesHandler.List)
		api.GET("/resources/:name", resourcesHandler.Get)
		api.GET("/resources/:name/history", resourcesHandler.History)
		api.GET("/:resource", queryHandler.List)
	}

	return router
}
