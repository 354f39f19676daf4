package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"talentboard/internal/domain/filter"
	"talentboard/internal/infrastructure/http/v1/handlers"
	"talentboard/internal/infrastructure/http/v1/middleware"
	"talentboard/internal/infrastructure/storage/postgres"
	"talentboard/internal/metrics"
	"talentboard/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Mode is the gin mode (debug, release, test). Defaults to release.
	Mode string

	// Logger for request logging
	Logger *logger.Logger

	// Pool is the database pool for health checks; nil with the memory store.
	Pool *postgres.Pool

	// Driver names the store in health output.
	Driver string

	Version string

	// QueryTimeout bounds the store work of every API request.
	QueryTimeout time.Duration

	// Registry is the frozen filter registry.
	Registry *filter.Registry

	// Entities are mounted under /api/v1/<entity name>.
	Entities []EntityRouteHandler

	// MetricsPath exposes prometheus metrics when non-empty.
	MetricsPath string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	mode := cfg.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	// Recovery sits inside ErrorHandler so a recovered panic still gets a JSON body.
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	if cfg.MetricsPath != "" {
		router.Use(metrics.Middleware())
	}
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Driver, cfg.Version)
	router.GET("/health", healthHandler.Live)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	if cfg.MetricsPath != "" {
		router.GET(cfg.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api/v1")
	api.Use(middleware.QueryTimeout(cfg.QueryTimeout))
	{
		registerMetaRoutes(api, cfg)
		registerEntityRoutes(api, cfg)
	}

	return router
}

// registerEntityRoutes mounts every entity under its registered name.
func registerEntityRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	for _, h := range cfg.Entities {
		RegisterEntityRoutes(rg.Group("/"+h.EntityName(), middleware.Entity(h.EntityName())), h)
	}
}

// registerMetaRoutes registers metadata/schema endpoints.
func registerMetaRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Registry == nil {
		return
	}

	softDelete := make(map[string]bool, len(cfg.Entities))
	for _, h := range cfg.Entities {
		softDelete[h.EntityName()] = h.SupportsArchive()
	}

	handler := handlers.NewMetadataHandler(handlers.NewBaseHandler(), cfg.Registry, softDelete)
	meta := rg.Group("/meta")
	{
		meta.GET("", handler.ListEntities)
		meta.GET("/:name", handler.GetEntity)
	}
}
