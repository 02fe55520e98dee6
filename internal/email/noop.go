package email

import (
	"context"

	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/platform/logger"
)

// NoopSender drops messages when email delivery is disabled.
type NoopSender struct {
	log *logger.Logger
}

func NewNoopSender(log *logger.Logger) *NoopSender {
	return &NoopSender{log: log}
}

func (n *NoopSender) Send(ctx context.Context, messages []automation.Message) error {
	if n.log != nil {
		n.log.WithContext(ctx).Debug("email disabled, dropping notifications", "messages", len(messages))
	}
	return nil
}
