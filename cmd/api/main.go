// Package main is the entry point for the recurring transaction API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/recurring/config"
	"github.com/finance-tracker/recurring/internal/infra/cache"
	"github.com/finance-tracker/recurring/internal/infra/db"
	"github.com/finance-tracker/recurring/internal/infra/dependency"
	"github.com/finance-tracker/recurring/internal/integration/persistence"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting recurring transaction API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	// Run database migrations
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(persistence.Models()...); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed successfully")
	}

	// Initialize redis; processing still works without it
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			slog.Warn("Redis connection failed, running without processing locks", "error", err)
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					slog.Error("Failed to close redis connection", "error", err)
				}
			}()
		}
	}

	injector := dependency.NewInjector(cfg, database.DB(), redisClient, nil)
	engine := injector.Router.Setup(cfg.Server.Environment)

	// Start the scheduler: timers from persisted cursors, then the sweep loop
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	var schedulerWG sync.WaitGroup
	if cfg.Scheduler.Enabled {
		if _, err := injector.Rearm.Execute(schedulerCtx); err != nil {
			slog.Error("Failed to re-arm recurring timers", "error", err)
		}

		schedulerWG.Add(1)
		go func() {
			defer schedulerWG.Done()
			injector.Sweeper.Start(schedulerCtx)
		}()
	} else {
		slog.Warn("Recurring scheduler disabled")
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	stopScheduler()
	schedulerWG.Wait()
	injector.Timers.Stop()

	slog.Info("Server exited properly")
}
