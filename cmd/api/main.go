package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/davydocsurg/techinnover-ecommerce-api/internal/api/http"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/api/http/handlers"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/auth"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/config"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/events"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/observability"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/persistence"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/repository"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/service"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable; rate limiter will fail open until it recovers", zap.Error(err))
	}
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL())
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     userRepo,
		Hasher:       auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		TokenManager: tokenManager,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	productService := service.NewProductService(service.ProductDependencies{
		ProductRepo: productRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	authMiddleware := auth.NewAuthMiddleware(auth.NewIdentityResolver(authService.TokenManager(), userRepo))
	cookies := auth.NewCookieWriter(cfg.App.IsProduction(), tokenManager.AccessTTL(), tokenManager.RefreshTTL())
	metrics := observability.NewMetrics(cfg.App.Name)

	var (
		rateLimiter *httptransport.RateLimiter
		redisPinger handlers.Pinger
	)
	if redis.Client != nil {
		rateLimiter = httptransport.NewRateLimiter(cfg.RateLimit, redis.Client, logger)
		redisPinger = redis
	}

	app := httptransport.NewServer(httptransport.ServerOptions{
		AppName:        cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
		Routes: httptransport.RouteConfig{
			APIPrefix:      cfg.App.APIPrefix,
			Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger),
			Auth:           handlers.NewAuthHandler(authService, cookies),
			Products:       handlers.NewProductsHandler(productService),
			Users:          handlers.NewUsersHandler(accountService),
			AuthMiddleware: authMiddleware,
			RateLimiter:    rateLimiter,
		},
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
