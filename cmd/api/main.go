package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/flowbit/flowbit-api/internal/api/http"
	"github.com/flowbit/flowbit-api/internal/api/http/handlers"
	"github.com/flowbit/flowbit-api/internal/auth"
	"github.com/flowbit/flowbit-api/internal/config"
	"github.com/flowbit/flowbit-api/internal/observability"
	"github.com/flowbit/flowbit-api/internal/persistence"
	"github.com/flowbit/flowbit-api/internal/realtime"
	"github.com/flowbit/flowbit-api/internal/repository"
	"github.com/flowbit/flowbit-api/internal/service"
	"github.com/flowbit/flowbit-api/internal/workflow"
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
	ticketRepo := repository.NewTicketRepository(pool)

	authService := service.NewAuthService(*cfg, userRepo)
	authMiddleware := auth.NewMiddleware(authService.TokenManager())

	notifier := workflow.NewHTTPNotifier(cfg.Workflow, logger)
	publisher := realtime.NewRedisPublisher(redis.Client)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Notifier:   notifier,
		Publisher:  publisher,
		Logger:     logger,
	})

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.CORS, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Webhooks:       handlers.NewWebhooksHandler(ticketService),
		AuthMiddleware: authMiddleware,
		CallbackSecret: cfg.Workflow.CallbackSecret,
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
