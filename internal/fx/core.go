package fx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lpdss/internal/cache"
	"lpdss/internal/config"
	"lpdss/internal/logger"
	"lpdss/internal/middleware"
	"lpdss/internal/shared"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// CoreModule provides core application dependencies.
var CoreModule = fx.Module("core",
	fx.Provide(
		// Configuration
		config.Load,

		// Logger (must be early)
		NewLogger,

		// Gin router
		NewGinRouter,

		// Process-wide last-solve cache and its optional Redis mirror
		cache.NewHandle,
		config.NewRedisClient,
		cache.NewRedisMirror,
		NewCacheJanitor,

		// Middlewares
		middleware.NewCORS,
	),
)

// NewLogger creates a new zap logger based on config
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Logger initialized",
		zap.String("level", cfg.Logging.Level),
		zap.String("format", cfg.Logging.Format),
	)

	return log, nil
}

// NewCacheJanitor builds and starts the last-solve cache's health-log
// janitor, stopping it when fx shuts the app down.
func NewCacheJanitor(lc fx.Lifecycle, handle *cache.Handle, cfg *config.Config, log *zap.Logger) *cache.Janitor {
	j := cache.NewJanitor(handle, log, cfg.Cache.SnapshotIntervalSeconds)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			j.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			j.Stop()
			return nil
		},
	})
	return j
}

// NewGinRouter creates a new Gin router with basic configuration
func NewGinRouter(cfg *config.Config, log *zap.Logger) *gin.Engine {
	// Set Gin mode based on config
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Apply logger middleware first so it's available in all subsequent middleware
	r.Use(middleware.LoggerMiddleware(log))

	// Apply recovery middleware
	r.Use(middleware.RecoveryMiddleware())

	// Apply error handler middleware
	r.Use(middleware.ErrorHandlerMiddleware())

	// Apply CORS middleware
	corsMiddleware := middleware.NewCORS(cfg.CORS.Origins)
	r.Use(corsMiddleware)

	// Apply rate limiting middleware (global IP-based rate limiting)
	// Allow 100 requests per second with burst of 200
	rateLimiter := middleware.IPRateLimiter(100, 200)
	r.Use(rateLimiter)

	// Request logging middleware (only in debug mode)
	if config.IsDevelopment() {
		r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("[%s] %s %s %d %s \"%s\" %s\n",
				param.TimeStamp.Format("2006/01/02 - 15:04:05"),
				param.ClientIP,
				param.Method,
				param.StatusCode,
				param.Latency,
				param.Path,
				param.ErrorMessage,
			)
		}))
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		shared.RespondWithSuccess(c, http.StatusOK, "Service is healthy", gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Serve Swagger 2.0 spec files at separate path to avoid route conflict
	r.StaticFile("/openapi/swagger.yaml", "./docs/swagger.yaml")
	r.StaticFile("/openapi/swagger.json", "./docs/swagger.json")

	// Swagger UI pointing to Swagger 2.0 YAML file
	url := ginSwagger.URL("/openapi/swagger.yaml") // Point to Swagger 2.0 YAML file
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler, url,
		ginSwagger.PersistAuthorization(true), // Persist authorization across page refresh
		ginSwagger.DocExpansion("list"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	)

	// Support both /swagger and /swagger-ui paths
	r.GET("/swagger/*any", swaggerHandler)
	r.GET("/swagger-ui/*any", swaggerHandler)

	return r
}
