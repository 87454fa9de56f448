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

	"github.com/spec-kit/coaching-service/internal/advisor"
	httptransport "github.com/spec-kit/coaching-service/internal/api/http"
	"github.com/spec-kit/coaching-service/internal/api/http/handlers"
	"github.com/spec-kit/coaching-service/internal/auth"
	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/flow"
	"github.com/spec-kit/coaching-service/internal/llm"
	"github.com/spec-kit/coaching-service/internal/mailer"
	"github.com/spec-kit/coaching-service/internal/observability"
	"github.com/spec-kit/coaching-service/internal/payment"
	"github.com/spec-kit/coaching-service/internal/persistence"
	"github.com/spec-kit/coaching-service/internal/repository"
	"github.com/spec-kit/coaching-service/internal/repository/memory"
	"github.com/spec-kit/coaching-service/internal/service"
	"github.com/spec-kit/coaching-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	metrics := observability.NewMetrics()

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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	offeringRepo := repository.NewOfferingRepository(pool)
	clientServiceRepo := repository.NewClientServiceRepository(pool)
	updateRequestRepo := repository.NewUpdateRequestRepository(pool)
	gatewayRepo := repository.NewGatewayRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	catalogCache := persistence.NewCatalogCache(redis, cfg.Catalog.CacheTTL())
	denylist := persistence.NewTokenDenylist(redis)

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, mailer.New(cfg.Notification, logger), logger, cfg.Notification)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Denylist:   denylist,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		OfferingRepo:      offeringRepo,
		ClientServiceRepo: clientServiceRepo,
		Cache:             catalogCache,
		Dispatcher:        dispatcher,
		Logger:            logger,
	}, cfg.Payment.DeliveryLeadDays)
	portalService := service.NewClientPortalService(service.ClientPortalDependencies{
		UserRepo:          userRepo,
		ClientServiceRepo: clientServiceRepo,
		UpdateRequestRepo: updateRequestRepo,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:          userRepo,
		ClientServiceRepo: clientServiceRepo,
		OfferingRepo:      offeringRepo,
		GatewayRepo:       gatewayRepo,
		ReportRepo:        reportRepo,
		Cache:             catalogCache,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})

	provider := llm.NewOllamaProvider(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.Timeout())
	advisorService := advisor.NewService(provider, memory.NewChatHistoryRepository(cfg.Flow.SessionTTL()), logger)

	background := worker.Start(cfg.Flow, notificationService, logger)

	sessions := memory.NewFlowSessionRepository(cfg.Flow.SessionTTL())
	flowService := service.NewFlowService(service.FlowDependencies{
		Sessions:   sessions,
		Users:      userRepo,
		Auth:       authService,
		Catalog:    catalogService,
		Portal:     portalService,
		Admin:      adminService,
		Advisor:    advisorService,
		Payments:   payment.NewDefaultRegistry(cfg.Payment),
		Runner:     background.Checkouts,
		Recorder:   metrics,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	sessions.OnEvicted(func(session *flow.Session) {
		flowService.Release(session)
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.AllowedOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Services:       handlers.NewServicesHandler(catalogService),
		Clients:        handlers.NewClientsHandler(portalService),
		Admin:          handlers.NewAdminHandler(adminService),
		Flow:           handlers.NewFlowHandler(flowService),
		Tools:          handlers.NewToolsHandler(flowService, advisorService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo, denylist),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("coaching service started", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))

	waitForShutdown(logger)

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	_ = background.Stop(shutdownCtx)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
