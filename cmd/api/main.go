package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/groupcart/order-collector/internal/api/http"
	"github.com/groupcart/order-collector/internal/api/http/handlers"
	"github.com/groupcart/order-collector/internal/auth"
	"github.com/groupcart/order-collector/internal/catalog"
	"github.com/groupcart/order-collector/internal/config"
	"github.com/groupcart/order-collector/internal/events"
	"github.com/groupcart/order-collector/internal/observability"
	"github.com/groupcart/order-collector/internal/persistence"
	"github.com/groupcart/order-collector/internal/service"
	"github.com/groupcart/order-collector/internal/store"
	"github.com/groupcart/order-collector/internal/worker"
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

	var (
		backend store.Backend
		pg      *persistence.Postgres
	)
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		backend = persistence.NewPostgresBackend(pg)
	default:
		fileBackend, err := persistence.NewFileBackend(cfg.Store.FilePath)
		if err != nil {
			logger.Fatal("failed to prepare store file", zap.Error(err))
		}
		backend = fileBackend
	}

	st, err := store.Load(ctx, backend, logger)
	if err != nil {
		logger.Fatal("failed to load store", zap.Error(err))
	}

	var redis *persistence.Redis
	if cfg.Catalog.FeedURL != "" {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
	}

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	orderService := service.NewOrderService(service.OrderDependencies{
		Store:      st,
		Dispatcher: dispatcher,
	})
	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		Store:             st,
		Tokens:            tokens,
		Dispatcher:        dispatcher,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		Logger:            logger,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		Store:      st,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	adminService.EnsureInitialAdmins(cfg.Store.OwnerIDs)

	var sender service.Sender
	if ws := service.NewWebhookSender(cfg.Notification); ws != nil {
		sender = ws
	}
	notificationService := service.NewNotificationService(st, sender, logger)
	notificationService.RegisterHandlers(dispatcher)

	var feed *catalog.Feed
	if redis != nil {
		feed = catalog.NewFeed(cfg.Catalog, redis.Client, logger)
	} else {
		feed = catalog.NewFeed(cfg.Catalog, nil, logger)
	}

	authMiddleware := auth.NewAuthMiddleware(tokens, st)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, st, pg, redis),
		Auth:           handlers.NewAuthHandler(registrationService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Admin:          handlers.NewAdminHandler(orderService, adminService),
		Gateway:        handlers.NewGatewayHandler(orderService),
		Catalog:        handlers.NewCatalogHandler(feed),
		AuthMiddleware: authMiddleware,
	})

	autosave := worker.NewAutosaveWorker(st, backend, cfg.Store.AutosaveInterval(), logger)
	autosave.Start(ctx)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	autosave.Wait()

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer flushCancel()
	if err := st.Flush(flushCtx, backend); err != nil {
		logger.Error("final flush failed", zap.Error(err))
	} else {
		logger.Info("store flushed on shutdown")
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
