package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/launchlens/pdpaudit/api/handler"
	"github.com/launchlens/pdpaudit/api/middleware"
	"github.com/launchlens/pdpaudit/audit"
	"github.com/launchlens/pdpaudit/capture"
	"github.com/launchlens/pdpaudit/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(engine *capture.Engine, runner *audit.Runner, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health, no auth required.
	v1.GET("/health", handler.Health(engine, startTime))

	// Protected group: auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Audit
	protected.POST("/audit", handler.Audit(runner))

	return r
}
