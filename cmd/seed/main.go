package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/auth"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/config"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/observability"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/persistence"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/repository"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name+"-seed")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}
	if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	created, err := seed.Admins(ctx, repository.NewUserRepository(pool), auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		cfg.Seed.AdminPassword, seed.DefaultAdmins, logger)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seeding finished", zap.Int("created", created))
}
