// Package main runs the organization directory HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/orgs-directory/backend/config"
	"github.com/orgs-directory/backend/internal/activities"
	"github.com/orgs-directory/backend/internal/auth"
	"github.com/orgs-directory/backend/internal/buildings"
	"github.com/orgs-directory/backend/internal/middleware"
	"github.com/orgs-directory/backend/internal/organizations"
	"github.com/orgs-directory/backend/internal/server"
	"github.com/orgs-directory/backend/pkg/database"
	"github.com/orgs-directory/backend/pkg/logging"
	"github.com/orgs-directory/backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Fatal("load config", zap.Error(err))
	}
	logger := logging.New(cfg.Log.Level)
	defer logger.Sync()

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), database.PoolOptions{
		MaxConns:         int32(cfg.Database.MaxConns),
		StatementTimeout: time.Duration(cfg.Database.StatementTimeoutMs) * time.Millisecond,
		ApplicationName:  "orgs-directory",
	}, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Rate limiting is optional; without Redis every request passes.
	var limiter middleware.Counter
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		limiter = redis.NewFixedWindow(rdb.Client, "ratelimit", time.Minute)
	} else if cfg.RateLimit.PerMinute > 0 {
		logger.Warn("rate limit configured without REDIS_ADDR, disabled")
	}

	tokens := auth.NewTokenService(cfg.Auth.APIKey, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	activityRepo := activities.NewRepository(pool)
	resolver := activities.NewResolver(activityRepo)
	buildingRepo := buildings.NewRepository(pool)
	orgRepo := organizations.NewRepository(pool)
	orgService := organizations.NewService(orgRepo, activityRepo, resolver, cfg.Search.MaxLimit, logger)

	router := server.NewRouter(cfg, server.Handlers{
		Organizations: organizations.NewHandler(orgService, cfg.Search.DefaultLimit, logger),
		Activities:    activities.NewHandler(activityRepo, resolver, logger),
		Buildings:     buildings.NewHandler(buildingRepo, logger),
		Auth:          auth.NewHandler(tokens, logger),
	}, tokens, limiter, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("prefix", cfg.Server.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
