package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"opportunity_automation/internal/email"
	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/internal/scheduler"
	"opportunity_automation/platform/config"
	"opportunity_automation/platform/logger"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sender automation.Notifier
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg, cfg)
	} else {
		log.Warn("email disabled; queued notifications will be dropped")
		sender = email.NewNoopSender(log)
	}

	worker, err := scheduler.NewWorker(cfg, sender, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("scheduler stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("scheduler stopped")
}
