package testutil

import (
	"context"
	"database/sql"

	workerHandler "github.com/fhuszti/conversions-ms-go/internal/handler/worker"
	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/conversions-ms-go/internal/task"
	"github.com/hibiken/asynq"
)

// StartWorker starts an asynq worker recording conversion history into db.
// It returns a function to gracefully shut down the worker.
func StartWorker(db *sql.DB, redisAddr string) func() {
	repo := mariadb.NewHistoryRepository(db)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeRecordConversion, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseRecordConversionPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.RecordConversionHandler(ctx, p, repo)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{task.QueueHistory: 1},
	})
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "worker stopped: %v", err)
		}
	}()

	return func() {
		srv.Shutdown()
	}
}
