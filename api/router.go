package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/solvetrack/api/handler"
	"github.com/use-agent/solvetrack/api/middleware"
	"github.com/use-agent/solvetrack/cache"
	"github.com/use-agent/solvetrack/config"
)

// Deps are the services the HTTP surface drives.
type Deps struct {
	Runner  handler.Runner
	Fetcher handler.Fetcher
	Store   handler.Pinger
	Cache   *cache.Cache
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health stays outside auth so monitoring probes always work. Run and fetch
// share one gate, so at most one browser is alive per process.
func NewRouter(ctx context.Context, deps Deps, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	gate := &handler.Gate{}
	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(deps.Store, gate, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(ctx, cfg.RateLimit))

	protected.POST("/run", handler.Run(deps.Runner, gate))
	protected.POST("/fetch", handler.Fetch(deps.Fetcher, gate, deps.Cache))

	return r
}
