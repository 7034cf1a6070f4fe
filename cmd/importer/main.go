// Command importer loads one CSV batch into the ticket store and recomputes
// every touched project group, sharing the service wiring with the API.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/btime-solutions/chamados-service/internal/config"
	"github.com/btime-solutions/chamados-service/internal/events"
	"github.com/btime-solutions/chamados-service/internal/importer"
	"github.com/btime-solutions/chamados-service/internal/observability"
	"github.com/btime-solutions/chamados-service/internal/persistence"
	"github.com/btime-solutions/chamados-service/internal/repository"
	"github.com/btime-solutions/chamados-service/internal/service"
)

func main() {
	var (
		file  = flag.String("file", "", "path to the CSV batch")
		actor = flag.String("actor", "importador", "actor recorded in audit lines")
	)
	flag.Parse()
	if *file == "" {
		log.Fatal("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("failed to open batch file", zap.Error(err))
	}
	defer f.Close()

	rows, err := importer.ReadTickets(f, logger)
	if err != nil {
		logger.Fatal("failed to parse batch", zap.Error(err))
	}
	if len(rows) == 0 {
		logger.Warn("batch has no importable rows")
		return
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(pg.PoolHandle()),
		Cache:      repository.NewRedisBoardCache(redis.Client, cfg.Redis.BoardTTL(), logger),
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     logger,
	})

	result, err := ticketService.ImportBatch(ctx, rows, *actor)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	logger.Info("import finished",
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed),
		zap.Int("projects", result.Projects))
	for _, rowErr := range result.Errors {
		logger.Warn("row failed",
			zap.Int("index", rowErr.Index),
			zap.String("ticket_number", rowErr.TicketNumber),
			zap.String("reason", rowErr.Message))
	}
}
