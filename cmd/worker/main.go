package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhuszti/conversions-ms-go/internal/config"
	"github.com/fhuszti/conversions-ms-go/internal/db"
	workerHandler "github.com/fhuszti/conversions-ms-go/internal/handler/worker"
	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/conversions-ms-go/internal/task"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	if cfg.RedisAddr == "" || cfg.MariaDBDSN == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR and MARIADB_DSN must be set to run the worker")
		os.Exit(1)
	}

	database := initDb(ctx, cfg)
	repo := mariadb.NewHistoryRepository(database.DB)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeRecordConversion, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseRecordConversionPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.RecordConversionHandler(ctx, p, repo)
	})

	runWorker(ctx, mux, cfg, database)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	dsn, err := db.NormaliseDSN(cfg.MariaDBDSN, false)
	if err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		os.Exit(1)
	}
	database, err := db.New(dsn, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		Concurrency: cfg.Workers,
		Queues:      map[string]int{task.QueueHistory: 1},
	})

	if err := srv.Start(mux); err != nil {
		logger.Errorf(ctx, "❌  Worker failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stop accepting new tasks, finish in-flight ones
	srv.Shutdown()

	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
