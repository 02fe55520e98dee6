// Package domain provides the records and business constants for the
// opportunity automation bounded context.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Opportunity is the record under automation.
type Opportunity struct {
	ID               uuid.UUID
	Name             string
	AccountID        *uuid.UUID
	AmountCents      int64
	StageName        string
	Type             *string
	PrimaryContactID *uuid.UUID
	Description      string
	OwnerID          uuid.UUID
}

// IsClosed reports whether the opportunity sits in a closed stage.
func (o Opportunity) IsClosed() bool {
	return IsClosedStage(o.StageName)
}

// Account is read-only to the automation.
type Account struct {
	ID       uuid.UUID
	Name     string
	Industry string
}

// Contact is read-only to the automation. Title doubles as the role classifier.
type Contact struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Name      string
	Title     string
	Email     string
}

// User resolves opportunity owners to notification recipients.
type User struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Task is created by the automation and never read back.
type Task struct {
	ID            uuid.UUID
	Subject       string
	OpportunityID uuid.UUID
	ContactID     *uuid.UUID
	OwnerID       uuid.UUID
	DueDate       time.Time
	CreatedAt     time.Time
}

// PrimaryContactUpdate is one row of a batched primary-contact write.
type PrimaryContactUpdate struct {
	OpportunityID uuid.UUID
	ContactID     uuid.UUID
}
