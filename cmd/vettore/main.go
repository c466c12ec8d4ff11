package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vettore-hr/vettore/internal/app"
	"github.com/vettore-hr/vettore/internal/audit"
	"github.com/vettore-hr/vettore/internal/auth"
	"github.com/vettore-hr/vettore/internal/authz"
	"github.com/vettore-hr/vettore/internal/companies"
	"github.com/vettore-hr/vettore/internal/consultingfirm"
	"github.com/vettore-hr/vettore/internal/departments"
	"github.com/vettore-hr/vettore/internal/directory"
	"github.com/vettore-hr/vettore/internal/employees"
	"github.com/vettore-hr/vettore/internal/evaluations"
	"github.com/vettore-hr/vettore/internal/feedbacks"
	"github.com/vettore-hr/vettore/internal/observability"
	"github.com/vettore-hr/vettore/internal/occurrences"
	"github.com/vettore-hr/vettore/internal/pdis"
	"github.com/vettore-hr/vettore/internal/platform/cache"
	"github.com/vettore-hr/vettore/internal/platform/db"
	"github.com/vettore-hr/vettore/internal/trainings"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens, err := authz.NewTokenService(authz.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	if err != nil {
		logger.Error("init token service", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	dir := directory.New(pool)
	az := &authz.Middleware{
		Tokens:      tokens,
		Matrix:      authz.DefaultMatrix(),
		Scope:       authz.NewScopeResolver(dir),
		Ownership:   authz.NewOwnershipChecker(dir),
		Limiter:     authz.NewSlidingWindowLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow),
		Logger:      logger,
		Metrics:     metrics,
		Audit:       audit.NewRecorder(pool, logger),
		Revocations: auth.NewRevocationList(redisClient),
	}

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokens, auth.NewRevocationList(redisClient), cfg.AccessTokenTTL)

	router := app.NewRouter(app.RouterParams{
		Logger:  logger,
		Config:  cfg,
		Pool:    pool,
		Metrics: metrics,
		Authz:   az,

		AuthHandler:           auth.NewHandler(logger, authService),
		CompaniesHandler:      companies.NewHandler(logger, companies.NewService(companies.NewRepository(pool)), az),
		EmployeesHandler:      employees.NewHandler(logger, employees.NewService(employees.NewRepository(pool)), az),
		DepartmentsHandler:    departments.NewHandler(logger, departments.NewRepository(pool), az),
		OccurrencesHandler:    occurrences.NewHandler(logger, occurrences.NewRepository(pool), az),
		FeedbacksHandler:      feedbacks.NewHandler(logger, feedbacks.NewRepository(pool), az),
		TrainingsHandler:      trainings.NewHandler(logger, trainings.NewRepository(pool), az),
		EvaluationsHandler:    evaluations.NewHandler(logger, evaluations.NewRepository(pool), az),
		PDIsHandler:           pdis.NewHandler(logger, pdis.NewRepository(pool), az),
		ConsultingFirmHandler: consultingfirm.NewHandler(logger, consultingfirm.NewRepository(pool), az),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
