// Package repository provides the Postgres implementation of the
// automation store.
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/internal/opportunity/domain"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Repo implements automation.Store on Postgres.
type Repo struct {
	db DBTX
}

// New creates a new opportunity repository.
func New(db DBTX) *Repo {
	return &Repo{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repo) WithTx(tx pgx.Tx) *Repo {
	return &Repo{db: tx}
}

// Compile-time check that Repo implements automation.Store.
var _ automation.Store = (*Repo)(nil)

// AccountsByIDs loads accounts in one query.
func (r *Repo) AccountsByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Account, error) {
	query := `
		SELECT id, name, industry
		FROM accounts
		WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query accounts by ids: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, len(ids))
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Industry); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate accounts by ids: %w", rows.Err())
	}

	return accounts, nil
}

// ContactsByAccountsAndTitle loads every contact with the exact title on the
// given accounts, ordered by account then ascending name.
func (r *Repo) ContactsByAccountsAndTitle(ctx context.Context, accountIDs []uuid.UUID, title string) ([]domain.Contact, error) {
	query := `
		SELECT id, account_id, name, title, email
		FROM contacts
		WHERE account_id = ANY($1) AND title = $2
		ORDER BY account_id, name, id`

	rows, err := r.db.Query(ctx, query, accountIDs, title)
	if err != nil {
		return nil, fmt.Errorf("query contacts by accounts: %w", err)
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Name, &c.Title, &c.Email); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate contacts by accounts: %w", rows.Err())
	}

	return contacts, nil
}

// UsersByIDs loads users in one query.
func (r *Repo) UsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	query := `
		SELECT id, name, email
		FROM users
		WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query users by ids: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, len(ids))
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate users by ids: %w", rows.Err())
	}

	return users, nil
}

var taskColumns = []string{"id", "subject", "opportunity_id", "contact_id", "owner_id", "due_date", "created_at"}

// InsertTasks writes all tasks with a single COPY.
func (r *Repo) InsertTasks(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []any{t.ID, t.Subject, t.OpportunityID, t.ContactID, t.OwnerID, t.DueDate, t.CreatedAt})
	}

	copied, err := r.db.CopyFrom(ctx, pgx.Identifier{"tasks"}, taskColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy tasks: %w", err)
	}
	if copied != int64(len(tasks)) {
		return fmt.Errorf("copy tasks: expected %d rows, copied %d", len(tasks), copied)
	}
	return nil
}

// UpdatePrimaryContacts sets primary contacts in one statement. Rows that
// gained a primary contact in the meantime are left as they are.
func (r *Repo) UpdatePrimaryContacts(ctx context.Context, updates []domain.PrimaryContactUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	opportunityIDs := make([]uuid.UUID, 0, len(updates))
	contactIDs := make([]uuid.UUID, 0, len(updates))
	for _, u := range updates {
		opportunityIDs = append(opportunityIDs, u.OpportunityID)
		contactIDs = append(contactIDs, u.ContactID)
	}

	query := `
		UPDATE opportunities o
		SET primary_contact_id = u.contact_id,
			updated_at = now()
		FROM unnest($1::uuid[], $2::uuid[]) AS u(opportunity_id, contact_id)
		WHERE o.id = u.opportunity_id AND o.primary_contact_id IS NULL`

	if _, err := r.db.Exec(ctx, query, opportunityIDs, contactIDs); err != nil {
		return fmt.Errorf("update primary contacts: %w", err)
	}
	return nil
}
