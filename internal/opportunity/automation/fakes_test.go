package automation

import (
	"context"
	"errors"
	"time"

	"opportunity_automation/internal/opportunity/domain"
	"opportunity_automation/platform/logger"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fakeStore struct {
	accounts []domain.Account
	contacts []domain.Contact
	users    []domain.User

	accountCalls int
	contactCalls int
	userCalls    int
	taskCalls    int
	updateCalls  int

	lastAccountIDs []uuid.UUID
	lastTitle      string
	insertedTasks  []domain.Task
	updates        []domain.PrimaryContactUpdate

	failAccounts bool
	failInsert   bool
}

func (s *fakeStore) AccountsByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Account, error) {
	s.accountCalls++
	s.lastAccountIDs = ids
	if s.failAccounts {
		return nil, errors.New("connection reset")
	}
	wanted := toSet(ids)
	var out []domain.Account
	for _, a := range s.accounts {
		if _, ok := wanted[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) ContactsByAccountsAndTitle(_ context.Context, accountIDs []uuid.UUID, title string) ([]domain.Contact, error) {
	s.contactCalls++
	s.lastTitle = title
	wanted := toSet(accountIDs)
	var out []domain.Contact
	for _, c := range s.contacts {
		if _, ok := wanted[c.AccountID]; ok && c.Title == title {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) UsersByIDs(_ context.Context, ids []uuid.UUID) ([]domain.User, error) {
	s.userCalls++
	wanted := toSet(ids)
	var out []domain.User
	for _, u := range s.users {
		if _, ok := wanted[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertTasks(_ context.Context, tasks []domain.Task) error {
	s.taskCalls++
	if s.failInsert {
		return errors.New("insert failed")
	}
	s.insertedTasks = append(s.insertedTasks, tasks...)
	return nil
}

func (s *fakeStore) UpdatePrimaryContacts(_ context.Context, updates []domain.PrimaryContactUpdate) error {
	s.updateCalls++
	s.updates = append(s.updates, updates...)
	return nil
}

func (s *fakeStore) totalCalls() int {
	return s.accountCalls + s.contactCalls + s.userCalls + s.taskCalls + s.updateCalls
}

type fakeNotifier struct {
	calls    int
	messages []Message
	err      error
}

func (n *fakeNotifier) Send(_ context.Context, messages []Message) error {
	n.calls++
	n.messages = append(n.messages, messages...)
	return n.err
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func newTestDispatcher(store *fakeStore, notifier *fakeNotifier) *Dispatcher {
	return NewDispatcher(store, notifier, logger.New("test"), WithClock(func() time.Time { return testNow }))
}

func ptr[T any](v T) *T {
	return &v
}
