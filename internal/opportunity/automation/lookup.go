package automation

import (
	"bytes"
	"context"
	"sort"

	"opportunity_automation/internal/opportunity/domain"
	"opportunity_automation/platform/apperr"

	"github.com/google/uuid"
)

// lookup builds the related-entity caches for one phase invocation. Keys are
// collected across the items before each call, and a later call fetches only
// keys no earlier call requested, so one rule over the live set costs a
// single query per entity type (and contact role).
type lookup struct {
	store    Store
	accounts *keyedCache[domain.Account]
	owners   *keyedCache[domain.User]
	contacts map[string]*keyedCache[domain.Contact]
}

func newLookup(store Store) *lookup {
	return &lookup{
		store:    store,
		accounts: newKeyedCache[domain.Account](),
		owners:   newKeyedCache[domain.User](),
		contacts: make(map[string]*keyedCache[domain.Contact]),
	}
}

// keyedCache holds fetched entities by key along with every key already
// requested, found or not.
type keyedCache[T any] struct {
	requested map[uuid.UUID]struct{}
	byKey     map[uuid.UUID]T
}

func newKeyedCache[T any]() *keyedCache[T] {
	return &keyedCache[T]{
		requested: make(map[uuid.UUID]struct{}),
		byKey:     make(map[uuid.UUID]T),
	}
}

func (c *keyedCache[T]) missing(keys []uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	for _, k := range keys {
		if _, ok := c.requested[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

func (c *keyedCache[T]) markRequested(keys []uuid.UUID) {
	for _, k := range keys {
		c.requested[k] = struct{}{}
	}
}

// Accounts returns the accounts referenced by the items, keyed by id.
func (l *lookup) Accounts(ctx context.Context, items []*Item) (map[uuid.UUID]domain.Account, error) {
	ids := l.accounts.missing(collectKeys(items, accountKey))
	if len(ids) == 0 {
		return l.accounts.byKey, nil
	}

	accounts, err := l.store.AccountsByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "account lookup failed", err)
	}
	l.accounts.markRequested(ids)
	for _, a := range accounts {
		l.accounts.byKey[a.ID] = a
	}
	return l.accounts.byKey, nil
}

// ContactsByRole returns at most one contact per account holding the given
// title. Ties resolve to the contact whose name sorts first.
func (l *lookup) ContactsByRole(ctx context.Context, items []*Item, role string) (map[uuid.UUID]domain.Contact, error) {
	cache, ok := l.contacts[role]
	if !ok {
		cache = newKeyedCache[domain.Contact]()
		l.contacts[role] = cache
	}

	ids := cache.missing(collectKeys(items, accountKey))
	if len(ids) == 0 {
		return cache.byKey, nil
	}

	contacts, err := l.store.ContactsByAccountsAndTitle(ctx, ids, role)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "contact lookup failed", err)
	}
	cache.markRequested(ids)

	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].Name < contacts[j].Name
	})
	for _, c := range contacts {
		if c.Title != role {
			continue
		}
		if _, taken := cache.byKey[c.AccountID]; !taken {
			cache.byKey[c.AccountID] = c
		}
	}
	return cache.byKey, nil
}

// Owners returns the users owning the items, keyed by id.
func (l *lookup) Owners(ctx context.Context, items []*Item) (map[uuid.UUID]domain.User, error) {
	ids := l.owners.missing(collectKeys(items, ownerKey))
	if len(ids) == 0 {
		return l.owners.byKey, nil
	}

	users, err := l.store.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "owner lookup failed", err)
	}
	l.owners.markRequested(ids)
	for _, u := range users {
		l.owners.byKey[u.ID] = u
	}
	return l.owners.byKey, nil
}

func accountKey(o *domain.Opportunity) *uuid.UUID {
	return o.AccountID
}

func ownerKey(o *domain.Opportunity) *uuid.UUID {
	if o.OwnerID == uuid.Nil {
		return nil
	}
	id := o.OwnerID
	return &id
}

// collectKeys returns the distinct non-nil keys across the items, sorted.
func collectKeys(items []*Item, key func(*domain.Opportunity) *uuid.UUID) []uuid.UUID {
	set := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		if k := key(it.Record()); k != nil && *k != uuid.Nil {
			set[*k] = struct{}{}
		}
	}

	keys := make([]uuid.UUID, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sortIDs(keys)
	return keys
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}
