// Package automation runs the opportunity lifecycle rules for one phase and
// one batch at a time.
package automation

import (
	"context"

	"opportunity_automation/internal/opportunity/domain"

	"github.com/google/uuid"
)

// Store is the persistence collaborator. Every method is a single batched
// call; implementations must not fan out per record.
type Store interface {
	AccountsByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Account, error)
	// ContactsByAccountsAndTitle returns contacts ordered by account then ascending name.
	ContactsByAccountsAndTitle(ctx context.Context, accountIDs []uuid.UUID, title string) ([]domain.Contact, error)
	UsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	InsertTasks(ctx context.Context, tasks []domain.Task) error
	UpdatePrimaryContacts(ctx context.Context, updates []domain.PrimaryContactUpdate) error
}

// Message is one outbound notification.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Notifier submits a list of messages in one call.
type Notifier interface {
	Send(ctx context.Context, messages []Message) error
}
