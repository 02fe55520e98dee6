package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opportunity_automation/internal/email"
	apphttp "opportunity_automation/internal/http"
	"opportunity_automation/internal/http/router"
	"opportunity_automation/internal/opportunity"
	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/internal/scheduler"
	"opportunity_automation/platform/config"
	"opportunity_automation/platform/db"
	"opportunity_automation/platform/logger"
	"opportunity_automation/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if cfg.GetPlatformJWTSecret() == "" {
		panic("PLATFORM_JWT_SECRET is required")
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if cfg.GetRunMigrations() {
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, pool)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	}

	notifier, closeNotifier := initNotifier(cfg, log)
	defer closeNotifier()

	val := validator.New()
	opportunityModule := opportunity.NewModule(pool, notifier, val, log)

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  pool,
		Modules: []apphttp.Module{opportunityModule},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

// initNotifier picks queued delivery, direct SMTP or a no-op sender.
func initNotifier(cfg *config.Config, log *logger.Logger) (automation.Notifier, func()) {
	if cfg.GetNotificationAsync() {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize notification queue client", "error", err)
			panic("failed to initialize notification queue client: " + err.Error())
		}
		log.Info("deletion notifications queued through asynq", "queue", cfg.GetAsynqQueueName())
		return client, func() { _ = client.Close() }
	}

	if cfg.GetEmailEnabled() {
		log.Info("deletion notifications sent over SMTP", "host", cfg.GetSMTPHost())
		return email.NewSMTPSender(cfg, cfg), func() {}
	}

	log.Warn("email disabled; deletion notifications will be dropped")
	return email.NewNoopSender(log), func() {}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
