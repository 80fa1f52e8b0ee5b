package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/config"
	"github.com/fhuszti/conversions-ms-go/internal/db"
	"github.com/fhuszti/conversions-ms-go/internal/handler/api"
	"github.com/fhuszti/conversions-ms-go/internal/logger"
	cMiddleware "github.com/fhuszti/conversions-ms-go/internal/middleware"
	"github.com/fhuszti/conversions-ms-go/internal/migration"
	"github.com/fhuszti/conversions-ms-go/internal/optimiser"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/fhuszti/conversions-ms-go/internal/quota"
	"github.com/fhuszti/conversions-ms-go/internal/ratelimit"
	"github.com/fhuszti/conversions-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/conversions-ms-go/internal/repository/memory"
	"github.com/fhuszti/conversions-ms-go/internal/repository/redisstore"
	"github.com/fhuszti/conversions-ms-go/internal/storage"
	"github.com/fhuszti/conversions-ms-go/internal/task"
	"github.com/fhuszti/conversions-ms-go/internal/transform"
	"github.com/fhuszti/conversions-ms-go/internal/usecase/conversion"
	"github.com/fhuszti/conversions-ms-go/internal/workerpool"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const pruneInterval = time.Minute

type stores struct {
	usage port.UsageStore
	rate  port.RateStore
	// set only for in-process state
	prune func(now time.Time) int
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)
	st := initStores(ctx, cfg)

	var plans port.PlanRepository = quota.StaticPlans{}
	var history port.HistoryRepository
	var dispatcher port.TaskDispatcher = task.NewNoopDispatcher()
	if database != nil {
		plans = mariadb.NewPlanRepository(database.DB)
		history = mariadb.NewHistoryRepository(database.DB)
		if cfg.RedisAddr != "" {
			d := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
			defer func() { _ = d.Close() }()
			dispatcher = d
		} else {
			dispatcher = task.NewInlineDispatcher(history)
			logger.Warn(ctx, "⚠️  Redis not configured, history is written inline")
		}
	} else {
		logger.Warn(ctx, "⚠️  MariaDB not configured, every identity is on the free plan and history is disabled")
	}

	var results port.ResultStore
	if cfg.MinioEndpoint != "" {
		results = initStorage(ctx, cfg)
	}

	tracker := quota.NewTracker(st.usage, plans)
	limiter := ratelimit.NewLimiter(st.rate, cfg.RateLimitPerMinute)

	codec := optimiser.NewDefaultOptimiser()
	validator := conversion.NewValidator(conversion.Limits{
		MaxUploadBytes: cfg.MaxUploadBytes,
		MaxDimension:   cfg.MaxDimension,
	}, codec)
	executor := conversion.NewExecutor(codec, transform.NewPipeline(cfg.PreviewDimension), workerpool.New(cfg.Workers), conversion.ExecutorConfig{
		Timeout:      cfg.ProcessingTimeout,
		TempDir:      cfg.TempDir,
		MaxDimension: cfg.MaxDimension,
	})
	deps := conversion.Deps{
		Validator:  validator,
		Executor:   executor,
		Quota:      tracker,
		Dispatcher: dispatcher,
		Results:    results,
		URLExpiry:  cfg.DownloadURLExpiry,
	}

	usage := conversion.NewUsageReader(tracker)

	r := initRouter(ctx, cfg.JWTPublicKey)
	r.Group(func(r chi.Router) {
		r.Use(cMiddleware.WithRateLimit(limiter))
		r.Post("/conversions", api.ConvertHandler(conversion.NewConverter(deps), cfg.MaxUploadBytes))
		r.Post("/conversions/batch", api.BatchConvertHandler(conversion.NewBatchConverter(deps), usage, cfg.MaxUploadBytes))
	})
	r.Get("/usage", api.UsageHandler(usage))
	if history != nil {
		r.Get("/conversions/history", api.HistoryHandler(conversion.NewHistoryLister(history)))
	}

	listenRouter(ctx, r, cfg, database, st)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	if cfg.MariaDBDSN == "" {
		return nil
	}
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

	if cfg.MigrateOnStart {
		migrationDSN, _ := db.NormaliseDSN(cfg.MariaDBDSN, true)
		mdb, err := db.New(migrationDSN, 1, 1, time.Minute)
		if err != nil {
			logger.Errorf(ctx, "❌  Failed to connect to db for migrations: %v", err)
			os.Exit(1)
		}
		if err := migration.MigrateUp(mdb.DB); err != nil {
			logger.Errorf(ctx, "❌  Migration up failed: %v", err)
			os.Exit(1)
		}
		_ = mdb.Close()
	}

	return database
}

func initStores(ctx context.Context, cfg *config.Settings) stores {
	if cfg.RedisAddr != "" {
		client := redisstore.NewClient(cfg.RedisAddr, cfg.RedisPassword)
		logger.Info(ctx, "✅  Redis usage and rate stores enabled")
		return stores{
			usage: redisstore.NewUsageStore(client),
			rate:  redisstore.NewRateStore(client),
		}
	}

	logger.Warn(ctx, "⚠️  Redis not configured, usage and rate state is kept in memory")
	usage := memory.NewUsageStore()
	rate := memory.NewRateStore()
	return stores{
		usage: usage,
		rate:  rate,
		prune: func(now time.Time) int {
			return usage.Prune(now) + rate.Prune(now)
		},
	}
}

func initRouter(ctx context.Context, jwtKey string) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(cMiddleware.Metrics)
	r.Use(cMiddleware.WithDSTAuth(jwtKey, "conversions"))
	r.Use(cMiddleware.WithIdentity())

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initStorage(ctx context.Context, cfg *config.Settings) port.ResultStore {
	strg, err := storage.NewStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
		cfg.MinioBucket,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}
	if err := strg.InitBucket(ctx); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.MinioBucket, err)
		os.Exit(1)
	}

	return strg
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database, st stores) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if st.prune != nil {
		g.Go(func() error {
			ticker := time.NewTicker(pruneInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case now := <-ticker.C:
					if n := st.prune(now); n > 0 {
						logger.Debugf(ctx, "pruned %d expired usage records and rate windows", n)
					}
				}
			}
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

		// graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf(ctx, "❌  Server stopped with error: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if database != nil {
		if err := database.Close(); err != nil {
			logger.Errorf(ctx, "DB close error: %v", err)
			os.Exit(1)
		}
	}
}
