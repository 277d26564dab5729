// Package memory is a map-backed implementation of the repository ports.
// It is used when no document store is configured and as the backend of
// service-level tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

// Store holds users and entries behind a single mutex. Transactions are
// serialized by txMu and undo only their own writes when fn fails.
type Store struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	users      map[string]*domain.User // by ID
	byUsername map[string]string       // username -> ID
	entries    map[string]*domain.JournalEntry
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]*domain.User),
		byUsername: make(map[string]string),
		entries:    make(map[string]*domain.JournalEntry),
	}
}

// Users returns the UserRepository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Entries returns the EntryRepository view of the store.
func (s *Store) Entries() *EntryRepository { return &EntryRepository{s: s} }

type txKey struct{}

// undoLog collects the inverse of every write made inside one transaction.
type undoLog struct {
	ops []func()
}

// record appends undo to the log carried by ctx. Writes outside a
// transaction have no log and are never undone. Must be called with s.mu held.
func record(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(txKey{}).(*undoLog); ok {
		log.ops = append(log.ops, undo)
	}
}

// WithinTransaction implements ports.Transactor.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &undoLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		s.rollback(log)
		return err
	}
	return nil
}

func (s *Store) rollback(log *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(log.ops) - 1; i >= 0; i-- {
		log.ops[i]()
	}
}

// ── Users ─────────────────────────────────────────────────────────────────────

type UserRepository struct {
	s *Store
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.byUsername[user.Username]; taken {
		return nil, domain.ErrUserExists
	}
	u := cloneUser(user)
	u.ID = uuid.NewString()
	if u.EntryIDs == nil {
		u.EntryIDs = []string{}
	}
	r.s.users[u.ID] = u
	r.s.byUsername[u.Username] = u.ID

	record(ctx, func() {
		if stored, ok := r.s.users[u.ID]; ok {
			delete(r.s.byUsername, stored.Username)
			delete(r.s.users, u.ID)
		}
	})
	return cloneUser(u), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.lookup(username)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if user.Username != stored.Username {
		if _, taken := r.s.byUsername[user.Username]; taken {
			return domain.ErrUserExists
		}
	}

	prev := cloneUser(stored)
	if user.Username != stored.Username {
		delete(r.s.byUsername, stored.Username)
		r.s.byUsername[user.Username] = stored.ID
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.Roles = append(domain.RoleSet(nil), user.Roles...)
	stored.UpdatedAt = user.UpdatedAt

	record(ctx, func() {
		cur, ok := r.s.users[prev.ID]
		if !ok {
			return
		}
		if cur.Username != prev.Username {
			delete(r.s.byUsername, cur.Username)
			r.s.byUsername[prev.Username] = prev.ID
		}
		cur.Username = prev.Username
		cur.Email = prev.Email
		cur.PasswordHash = prev.PasswordHash
		cur.Roles = prev.Roles
		cur.UpdatedAt = prev.UpdatedAt
	})
	return nil
}

func (r *UserRepository) DeleteByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.lookup(username)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.s.users, u.ID)
	delete(r.s.byUsername, username)

	record(ctx, func() {
		r.s.users[u.ID] = u
		r.s.byUsername[u.Username] = u.ID
	})
	return cloneUser(u), nil
}

func (r *UserRepository) AddEntry(ctx context.Context, username, entryID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.lookup(username)
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.OwnsEntry(entryID) {
		return nil
	}
	u.EntryIDs = append(u.EntryIDs, entryID)

	record(ctx, func() {
		if cur, ok := r.s.users[u.ID]; ok {
			cur.EntryIDs = without(cur.EntryIDs, entryID)
		}
	})
	return nil
}

func (r *UserRepository) RemoveEntry(ctx context.Context, username, entryID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.lookup(username)
	if !ok {
		return domain.ErrUserNotFound
	}
	if !u.OwnsEntry(entryID) {
		return nil
	}
	u.EntryIDs = without(u.EntryIDs, entryID)

	record(ctx, func() {
		if cur, ok := r.s.users[u.ID]; ok && !cur.OwnsEntry(entryID) {
			cur.EntryIDs = append(cur.EntryIDs, entryID)
		}
	})
	return nil
}

func (r *UserRepository) List(_ context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if filter.Email != "" && u.Email != filter.Email {
			continue
		}
		if filter.HasEmail && u.Email == "" {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// lookup must be called with r.s.mu held.
func (r *UserRepository) lookup(username string) (*domain.User, bool) {
	id, ok := r.s.byUsername[username]
	if !ok {
		return nil, false
	}
	u, ok := r.s.users[id]
	return u, ok
}

// ── Entries ───────────────────────────────────────────────────────────────────

type EntryRepository struct {
	s *Store
}

var _ ports.EntryRepository = (*EntryRepository)(nil)

func (r *EntryRepository) Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e := cloneEntry(entry)
	e.ID = uuid.NewString()
	r.s.entries[e.ID] = e

	record(ctx, func() { delete(r.s.entries, e.ID) })
	return cloneEntry(e), nil
}

func (r *EntryRepository) FindByID(_ context.Context, id string) (*domain.JournalEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return cloneEntry(e), nil
}

func (r *EntryRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.JournalEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.JournalEntry, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.s.entries[id]; ok {
			out = append(out, cloneEntry(e))
		}
	}
	return out, nil
}

func (r *EntryRepository) Update(ctx context.Context, entry *domain.JournalEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.entries[entry.ID]
	if !ok {
		return domain.ErrEntryNotFound
	}
	r.s.entries[entry.ID] = cloneEntry(entry)

	record(ctx, func() { r.s.entries[prev.ID] = prev })
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	delete(r.s.entries, id)

	record(ctx, func() { r.s.entries[id] = prev })
	return nil
}

func (r *EntryRepository) DeleteMany(ctx context.Context, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	removed := make([]*domain.JournalEntry, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.s.entries[id]; ok {
			removed = append(removed, e)
			delete(r.s.entries, id)
		}
	}

	record(ctx, func() {
		for _, e := range removed {
			r.s.entries[e.ID] = e
		}
	})
	return nil
}

func without(ids []string, drop string) []string {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			kept = append(kept, id)
		}
	}
	return kept
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append(domain.RoleSet(nil), u.Roles...)
	c.EntryIDs = append([]string{}, u.EntryIDs...)
	return &c
}

func cloneEntry(e *domain.JournalEntry) *domain.JournalEntry {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
