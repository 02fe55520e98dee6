package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
	"golang.org/x/time/rate"

	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/platform/config"
)

const notificationTemplate = "notification.html"

// SMTPSender delivers notification batches over one SMTP connection,
// pacing individual messages with a token bucket.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
	limiter   *rate.Limiter
}

// NewSMTPSender creates a new SMTPSender from email and pacing settings.
func NewSMTPSender(cfg config.EmailConfig, pacing config.NotificationConfig) *SMTPSender {
	limit := rate.Inf
	if perSecond := pacing.GetNotificationRatePerSecond(); perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	burst := pacing.GetNotificationBurst()
	if burst < 1 {
		burst = 1
	}

	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		limiter:   rate.NewLimiter(limit, burst),
	}
}

// Compile-time check that SMTPSender implements automation.Notifier.
var _ automation.Notifier = (*SMTPSender)(nil)

// Send delivers every message in one SMTP session.
func (s *SMTPSender) Send(ctx context.Context, messages []automation.Message) error {
	if len(messages) == 0 {
		return nil
	}

	msgs := make([]*gomail.Msg, 0, len(messages))
	for _, m := range messages {
		msg, err := s.buildMessage(m)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	client, err := s.newClient()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer func() { _ = client.Close() }()

	for i, msg := range msgs {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("smtp pacing: %w", err)
		}
		if err := client.Send(msg); err != nil {
			return fmt.Errorf("smtp send message %d of %d: %w", i+1, len(msgs), err)
		}
	}
	return nil
}

func (s *SMTPSender) buildMessage(m automation.Message) (*gomail.Msg, error) {
	if len(m.To) == 0 {
		return nil, fmt.Errorf("smtp to: no recipients for %q", m.Subject)
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(m.To...); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Body)

	html, err := renderEmailTemplate(notificationTemplate, notificationEmailData{
		baseEmailData: baseEmailData{Title: m.Subject, Heading: m.Subject},
		Body:          m.Body,
	})
	if err != nil {
		return nil, err
	}
	msg.AddAlternativeString(gomail.TypeTextHTML, html)
	return msg, nil
}

func (s *SMTPSender) newClient() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}
	return gomail.NewClient(s.host, opts...)
}
