package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/school-auth-service/internal/api/http"
	"github.com/spec-kit/school-auth-service/internal/api/http/handlers"
	"github.com/spec-kit/school-auth-service/internal/auth"
	"github.com/spec-kit/school-auth-service/internal/config"
	"github.com/spec-kit/school-auth-service/internal/dispatch"
	"github.com/spec-kit/school-auth-service/internal/events"
	"github.com/spec-kit/school-auth-service/internal/observability"
	"github.com/spec-kit/school-auth-service/internal/persistence"
	"github.com/spec-kit/school-auth-service/internal/repository"
	"github.com/spec-kit/school-auth-service/internal/service"
	"github.com/spec-kit/school-auth-service/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		userRepo   repository.UserRepository
		pgPinger   handlers.Pinger
		limitStore fiber.Storage
	)
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
		pgPinger = pg
	} else {
		logger.Warn("using in-memory user repository")
		userRepo = repository.NewMemoryUserRepository()
	}
	if redis.Available() {
		limitStore = persistence.NewLimiterStorage(redis.Client)
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartAuditWorker(dispatcher, logger)

	tokens := auth.NewTokenManager(cfg.Auth, logger)
	registry := dispatch.NewRegistry()
	service.RegisterOperations(registry,
		service.NewTokenService(tokens.Issuer, dispatcher, logger),
		service.NewUserService(cfg.Auth, userRepo, tokens.Issuer, dispatcher, logger),
	)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:        cfg.App.RequestTimeout(),
		RateLimitMax:   cfg.RateLimit.Max,
		RateLimitEvery: cfg.RateLimit.Window(),
		LimiterStorage: limitStore,
		StaticDir:      cfg.App.StaticDir,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pgPinger, redis, metrics),
		API:    handlers.NewAPIHandler(registry, auth.NewInjector(tokens.Verifier), dispatcher, logger),
	})

	for _, op := range registry.Operations() {
		logger.Debug("operation registered", zap.String("operation", op.Name()), zap.Bool("exposed", op.Exposed))
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
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
