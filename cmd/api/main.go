package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/rewear-service/internal/api/http"
	"github.com/spec-kit/rewear-service/internal/api/http/handlers"
	"github.com/spec-kit/rewear-service/internal/auth"
	"github.com/spec-kit/rewear-service/internal/config"
	"github.com/spec-kit/rewear-service/internal/events"
	"github.com/spec-kit/rewear-service/internal/observability"
	"github.com/spec-kit/rewear-service/internal/persistence"
	"github.com/spec-kit/rewear-service/internal/repository"
	"github.com/spec-kit/rewear-service/internal/service"
	"github.com/spec-kit/rewear-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	itemRepo := repository.NewItemRepository(pool)
	swapRepo := repository.NewSwapRepository(pool)
	modLogRepo := repository.NewModerationLogRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
	})
	itemService := service.NewItemService(cfg.Points, service.ItemDependencies{
		ItemRepo:   itemRepo,
		SwapRepo:   swapRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	swapService := service.NewSwapService(cfg.Points, service.SwapDependencies{
		SwapRepo:   swapRepo,
		ItemRepo:   itemRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	adminService := service.NewAdminService(cfg.Points, service.AdminDependencies{
		ItemRepo:   itemRepo,
		UserRepo:   userRepo,
		SwapRepo:   swapRepo,
		ModLogRepo: modLogRepo,
		Dispatcher: dispatcher,
		Cache:      redis.ClientHandle(),
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Items:          handlers.NewItemsHandler(itemService),
		Swaps:          handlers.NewSwapsHandler(swapService),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
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
