package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const notificationMaxRetry = 5

// Client enqueues notification deliveries for the worker.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

// Compile-time check that Client implements automation.Notifier.
var _ automation.Notifier = (*Client)(nil)

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Send enqueues one task per message. Every message is attempted; the
// returned error joins the failures.
func (c *Client) Send(ctx context.Context, messages []automation.Message) error {
	if c == nil || c.client == nil {
		return nil
	}

	var errs []error
	for _, msg := range messages {
		task, err := NewNotificationEmailTask(msg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(notificationMaxRetry)); err != nil {
			errs = append(errs, fmt.Errorf("enqueue %q: %w", msg.Subject, err))
		}
	}
	return errors.Join(errs...)
}

func queueName(cfg config.SchedulerConfig) string {
	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	return queue
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
