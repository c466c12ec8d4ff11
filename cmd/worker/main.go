package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/vettore-hr/vettore/internal/app"
	"github.com/vettore-hr/vettore/internal/audit"
	"github.com/vettore-hr/vettore/internal/auth"
	jobmetrics "github.com/vettore-hr/vettore/internal/jobs"
	"github.com/vettore-hr/vettore/internal/platform/db"
	"github.com/vettore-hr/vettore/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := jobmetrics.NewMetrics(nil)
	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Purge:     jobs.NewPurgeSessionsHandler(auth.NewRepository(pool), logger, metrics),
		Retention: jobs.NewAuditRetentionHandler(audit.NewRecorder(pool, logger), cfg.AuditRetention, logger, metrics),
		Cron: []jobs.CronRegistration{
			{Spec: "17 * * * *", Task: jobs.NewPurgeSessionsTask()},
			{Spec: "42 3 * * *", Task: jobs.NewAuditRetentionTask()},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
