// Command trigger-replay runs one captured trigger invocation against the
// database inside a transaction, printing the resulting records and
// rejections. Writes are rolled back unless -commit is set.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"opportunity_automation/internal/email"
	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/internal/opportunity/repository"
	"opportunity_automation/internal/opportunity/transport"
	"opportunity_automation/platform/config"
	"opportunity_automation/platform/db"
	"opportunity_automation/platform/logger"
	"opportunity_automation/platform/validator"
)

// printingNotifier writes messages to stderr instead of delivering them.
type printingNotifier struct{}

func (printingNotifier) Send(_ context.Context, messages []automation.Message) error {
	for _, m := range messages {
		fmt.Fprintf(os.Stderr, "notification to=%v subject=%q body=%q\n", m.To, m.Subject, m.Body)
	}
	return nil
}

func main() {
	fixturePath := flag.String("fixture", "", "path to the YAML fixture")
	commit := flag.Bool("commit", false, "commit writes and deliver notifications")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: trigger-replay -fixture <file.yaml> [-commit]")
		os.Exit(2)
	}

	if err := run(*fixturePath, *commit); err != nil {
		fmt.Fprintln(os.Stderr, "trigger-replay:", err)
		os.Exit(1)
	}
}

func run(fixturePath string, commit bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	file, err := os.Open(fixturePath)
	if err != nil {
		return err
	}
	defer file.Close()

	batch, err := loadFixture(file, validator.New())
	if err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var notifier automation.Notifier = printingNotifier{}
	if commit && cfg.GetEmailEnabled() {
		notifier = email.NewSMTPSender(cfg, cfg)
	}

	dispatcher := automation.NewDispatcher(repository.New(pool).WithTx(tx), notifier, log)
	if err := dispatcher.Handle(ctx, batch); err != nil {
		return err
	}

	if commit {
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		log.Info("replay committed", "phase", batch.Phase.String())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(transport.NewTriggerResponse(batch))
}
