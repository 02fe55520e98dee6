package email

import (
	"context"
	"strings"
	"testing"

	gomail "github.com/wneessen/go-mail"

	"opportunity_automation/internal/opportunity/automation"
)

type testEmailConfig struct{}

func (testEmailConfig) GetEmailEnabled() bool       { return true }
func (testEmailConfig) GetSMTPHost() string         { return "smtp.example.com" }
func (testEmailConfig) GetSMTPPort() int            { return 587 }
func (testEmailConfig) GetSMTPUsername() string     { return "" }
func (testEmailConfig) GetSMTPPassword() string     { return "" }
func (testEmailConfig) GetEmailFromName() string    { return "Opportunity Automation" }
func (testEmailConfig) GetEmailFromAddress() string { return "noreply@example.com" }

type testPacing struct{}

func (testPacing) GetNotificationRatePerSecond() float64 { return 0 }
func (testPacing) GetNotificationBurst() int             { return 0 }
func (testPacing) GetNotificationAsync() bool            { return false }

func TestBuildMessageSetsRecipientsAndSubject(t *testing.T) {
	sender := NewSMTPSender(testEmailConfig{}, testPacing{})
	msg, err := sender.buildMessage(automation.Message{
		To:      []string{"alice@example.com", "carol@example.com"},
		Subject: "Opportunity Deleted : Acme renewal",
		Body:    "Your Opportunity: Acme renewal has been deleted.",
	})
	if err != nil {
		t.Fatalf("buildMessage returned error: %v", err)
	}

	recipients, err := msg.GetRecipients()
	if err != nil {
		t.Fatalf("GetRecipients returned error: %v", err)
	}
	if len(recipients) != 2 {
		t.Fatalf("expected 2 recipients, got %v", recipients)
	}
	subject := msg.GetGenHeader(gomail.HeaderSubject)
	if len(subject) != 1 || subject[0] != "Opportunity Deleted : Acme renewal" {
		t.Fatalf("unexpected subject header %v", subject)
	}
}

func TestBuildMessageRequiresRecipients(t *testing.T) {
	sender := NewSMTPSender(testEmailConfig{}, testPacing{})
	if _, err := sender.buildMessage(automation.Message{Subject: "x"}); err == nil {
		t.Fatal("expected a message without recipients to be rejected")
	}
}

func TestRenderNotificationEscapesBody(t *testing.T) {
	html, err := renderEmailTemplate(notificationTemplate, notificationEmailData{
		baseEmailData: baseEmailData{Title: "Opportunity Deleted : <b>Acme</b>", Heading: "Opportunity Deleted"},
		Body:          "Your Opportunity: <script>Acme</script> has been deleted.",
	})
	if err != nil {
		t.Fatalf("renderEmailTemplate returned error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("expected body to be HTML escaped")
	}
	if !strings.Contains(html, "has been deleted.") {
		t.Fatal("expected body text in rendered HTML")
	}
}

func TestSendWithoutMessagesDoesNotDial(t *testing.T) {
	sender := NewSMTPSender(testEmailConfig{}, testPacing{})
	if err := sender.Send(context.Background(), nil); err != nil {
		t.Fatalf("expected empty send to succeed without dialing, got %v", err)
	}
}

func TestNoopSenderAcceptsEverything(t *testing.T) {
	if err := NewNoopSender(nil).Send(context.Background(), []automation.Message{{To: []string{"a@example.com"}}}); err != nil {
		t.Fatalf("expected noop sender to succeed, got %v", err)
	}
}
