package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"opportunity_automation/internal/opportunity/domain"
)

type recordingDB struct {
	execSQL   []string
	execArgs  [][]any
	copyTable pgx.Identifier
	copyCols  []string
	copyRows  [][]any
	copyCalls int
}

func (db *recordingDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.execSQL = append(db.execSQL, sql)
	db.execArgs = append(db.execArgs, args)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (db *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not used")
}

func (db *recordingDB) CopyFrom(_ context.Context, table pgx.Identifier, cols []string, src pgx.CopyFromSource) (int64, error) {
	db.copyCalls++
	db.copyTable = table
	db.copyCols = cols
	var n int64
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return n, err
		}
		db.copyRows = append(db.copyRows, values)
		n++
	}
	return n, src.Err()
}

func TestInsertTasksUsesSingleCopy(t *testing.T) {
	db := &recordingDB{}
	repo := New(db)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	contactID := uuid.New()

	tasks := []domain.Task{
		{ID: uuid.New(), Subject: "Call Primary Contact", OpportunityID: uuid.New(), ContactID: &contactID, OwnerID: uuid.New(), DueDate: now, CreatedAt: now},
		{ID: uuid.New(), Subject: "Call Primary Contact", OpportunityID: uuid.New(), OwnerID: uuid.New(), DueDate: now, CreatedAt: now},
	}

	if err := repo.InsertTasks(context.Background(), tasks); err != nil {
		t.Fatalf("InsertTasks returned error: %v", err)
	}
	if db.copyCalls != 1 {
		t.Fatalf("expected 1 copy, got %d", db.copyCalls)
	}
	if len(db.copyTable) != 1 || db.copyTable[0] != "tasks" {
		t.Fatalf("unexpected copy table %v", db.copyTable)
	}
	if len(db.copyRows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(db.copyRows))
	}
	if len(db.copyRows[0]) != len(db.copyCols) {
		t.Fatalf("row width %d does not match %d columns", len(db.copyRows[0]), len(db.copyCols))
	}
	if db.copyRows[0][2] != tasks[0].OpportunityID {
		t.Fatalf("expected opportunity id in third column")
	}
}

func TestInsertTasksSkipsEmptyInput(t *testing.T) {
	db := &recordingDB{}
	if err := New(db).InsertTasks(context.Background(), nil); err != nil {
		t.Fatalf("InsertTasks returned error: %v", err)
	}
	if db.copyCalls != 0 {
		t.Fatalf("expected no copy, got %d", db.copyCalls)
	}
}

func TestUpdatePrimaryContactsUsesSingleStatement(t *testing.T) {
	db := &recordingDB{}
	updates := []domain.PrimaryContactUpdate{
		{OpportunityID: uuid.New(), ContactID: uuid.New()},
		{OpportunityID: uuid.New(), ContactID: uuid.New()},
		{OpportunityID: uuid.New(), ContactID: uuid.New()},
	}

	if err := New(db).UpdatePrimaryContacts(context.Background(), updates); err != nil {
		t.Fatalf("UpdatePrimaryContacts returned error: %v", err)
	}
	if len(db.execSQL) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(db.execSQL))
	}
	if !strings.Contains(db.execSQL[0], "unnest") || !strings.Contains(db.execSQL[0], "primary_contact_id IS NULL") {
		t.Fatalf("unexpected statement %q", db.execSQL[0])
	}
	opportunityIDs, ok := db.execArgs[0][0].([]uuid.UUID)
	if !ok || len(opportunityIDs) != 3 {
		t.Fatalf("expected 3 opportunity ids, got %v", db.execArgs[0][0])
	}
	contactIDs := db.execArgs[0][1].([]uuid.UUID)
	for i, u := range updates {
		if opportunityIDs[i] != u.OpportunityID || contactIDs[i] != u.ContactID {
			t.Fatalf("update %d not aligned across arrays", i)
		}
	}
}
