// Package server provides the server CLI command.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/adbeam/adbeam/internal/infrastructure/config"
	"github.com/adbeam/adbeam/internal/infrastructure/database"
	"github.com/adbeam/adbeam/internal/infrastructure/migration"
	"github.com/adbeam/adbeam/internal/infrastructure/tasks"
	httpRouter "github.com/adbeam/adbeam/internal/interfaces/http"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the delivery engine HTTP server with WebSocket and SSE endpoints.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	ginMode := mapEnvToGinMode(env)

	cfg, err := config.Load(ginMode)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Info("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(cfg); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		if cfg.Server.Mode == "release" {
			log.Warn("auto-migration is enabled in release mode, this is not recommended")
		}
		manager := migration.NewManager(cfg.Server.Mode)
		if err := manager.Migrate(database.Get()); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		log.Info("auto-migration completed")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		// The ingest limiter fails open, so a missing Redis degrades
		// rate limiting instead of blocking startup.
		log.Warn("redis unreachable, ingest rate limiting degraded", "error", err)
	}
	pingCancel()

	executor, err := tasks.NewExecutor(cfg.Tasks.PoolSize)
	if err != nil {
		return fmt.Errorf("failed to create task executor: %w", err)
	}
	defer executor.Release()

	router := httpRouter.NewRouter(database.Get(), redisClient, executor, cfg, log)
	router.SetupRoutes()
	defer router.Shutdown()

	// WriteTimeout stays unset: the dashboard SSE stream and overlay
	// websockets are long-lived responses, and a server-wide write
	// deadline would sever them mid-stream. Handlers set their own write
	// deadlines where one applies.
	srv := &http.Server{
		Addr:        cfg.Server.GetAddr(),
		Handler:     router.GetEngine(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return err
	}

	log.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
