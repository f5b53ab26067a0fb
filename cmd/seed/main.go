// Package main migrates the database and loads the reference dataset when it is empty.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/orgs-directory/backend/config"
	"github.com/orgs-directory/backend/internal/seed"
	"github.com/orgs-directory/backend/pkg/database"
	"github.com/orgs-directory/backend/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Fatal("load config", zap.Error(err))
	}
	logger := logging.New(cfg.Log.Level)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), database.PoolOptions{
		MaxConns:         int32(cfg.Database.MaxConns),
		StatementTimeout: time.Duration(cfg.Database.StatementTimeoutMs) * time.Millisecond,
		ApplicationName:  "orgs-directory-seed",
	}, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	inserted, err := seed.Run(ctx, pool, seed.Reference, logger)
	if err != nil {
		logger.Fatal("seed", zap.Error(err))
	}
	logger.Info("seed finished", zap.Bool("inserted", inserted))
}
