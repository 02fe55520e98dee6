package scheduler

import (
	"context"
	"fmt"

	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/platform/config"
	"opportunity_automation/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker delivers queued notifications through the configured sender.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender automation.Notifier
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender automation.Notifier, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskNotificationEmailSend, w.handleNotificationEmailSend)

	return w, nil
}

func (w *Worker) handleNotificationEmailSend(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseNotificationEmailPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if len(payload.To) == 0 {
		w.log.Warn("dropping notification without recipients", "subject", payload.Subject)
		return nil
	}

	if err := w.sender.Send(ctx, []automation.Message{payload.Message()}); err != nil {
		w.log.NotificationFailed(TaskNotificationEmailSend, 1, err)
		return err
	}
	return nil
}

func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	if err := w.server.Start(w.mux); err != nil {
		w.log.Error("scheduler worker failed to start", "error", err)
		return err
	}

	<-ctx.Done()
	w.server.Shutdown()
	w.log.Info("scheduler worker stopped")
	return nil
}
