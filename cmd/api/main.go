package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/btime-solutions/chamados-service/internal/api/http"
	"github.com/btime-solutions/chamados-service/internal/api/http/handlers"
	"github.com/btime-solutions/chamados-service/internal/config"
	"github.com/btime-solutions/chamados-service/internal/events"
	"github.com/btime-solutions/chamados-service/internal/observability"
	"github.com/btime-solutions/chamados-service/internal/persistence"
	"github.com/btime-solutions/chamados-service/internal/repository"
	"github.com/btime-solutions/chamados-service/internal/service"
	"github.com/btime-solutions/chamados-service/internal/worker"
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

	ticketRepo := repository.NewTicketRepository(pg.PoolHandle())

	var cache repository.BoardCache
	if cfg.Redis.DisableCache {
		cache = repository.NewNoopBoardCache()
	} else {
		cache = repository.NewRedisBoardCache(redis.Client, cfg.Redis.BoardTTL(), logger)
	}

	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Cache:      cache,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	reportService := service.NewReportService(ticketService, cfg.SLA)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:  handlers.NewTicketsHandler(ticketService),
		Projects: handlers.NewProjectsHandler(ticketService, reportService),
		Imports:  handlers.NewImportsHandler(ticketService, logger),
		Reports:  handlers.NewReportsHandler(reportService),
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
