package fx

import (
	"context"
	"net/http"
	"time"

	"lpdss/internal/config"
	solverHandler "lpdss/internal/module/solver/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// AppModule provides the main application dependencies
var AppModule = fx.Module("app",
	fx.Invoke(
		// Register routes
		RegisterRoutes,

		// Start server
		StartServer,
	),
)

// RegisterRoutes registers all API routes
func RegisterRoutes(
	router *gin.Engine,
	solverH *solverHandler.Handler,
	logger *zap.Logger,
) {
	logger.Info("=== Route Registration Phase ===")

	logger.Info("Registering solver routes...")
	solverH.RegisterRoutes(router)

	logger.Info("All routes registered successfully")
}

// StartServer starts the HTTP server with graceful shutdown
func StartServer(lc fx.Lifecycle, router *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("Starting HTTP server",
					zap.String("addr", server.Addr),
					zap.Duration("read_timeout", 15*time.Second),
					zap.Duration("write_timeout", 15*time.Second),
					zap.Duration("idle_timeout", 60*time.Second),
				)
				logger.Info("Server URLs",
					zap.String("base", "http://"+cfg.Server.Host+":"+cfg.Server.Port),
					zap.String("swagger", "http://"+cfg.Server.Host+":"+cfg.Server.Port+"/swagger/index.html"),
					zap.String("health", "http://"+cfg.Server.Host+":"+cfg.Server.Port+"/health"),
				)

				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("Failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server forced to shutdown", zap.Error(err))
				return err
			}

			logger.Info("Server gracefully stopped")
			return nil
		},
	})
}
