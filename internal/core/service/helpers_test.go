package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
	"github.com/ms19/journal-system/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Mail
}

func (n *recordingNotifier) Send(_ context.Context, m domain.Mail) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, m)
}

func (n *recordingNotifier) mails() []domain.Mail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Mail(nil), n.sent...)
}

// flakyUsers fails AddEntry or RemoveEntry on demand.
type flakyUsers struct {
	ports.UserRepository
	addErr    error
	removeErr error
}

func (u *flakyUsers) AddEntry(ctx context.Context, username, entryID string) error {
	if u.addErr != nil {
		return u.addErr
	}
	return u.UserRepository.AddEntry(ctx, username, entryID)
}

func (u *flakyUsers) RemoveEntry(ctx context.Context, username, entryID string) error {
	if u.removeErr != nil {
		return u.removeErr
	}
	return u.UserRepository.RemoveEntry(ctx, username, entryID)
}

// trackingEntries remembers the ids it handed out.
type trackingEntries struct {
	ports.EntryRepository
	created []string
}

func (e *trackingEntries) Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	out, err := e.EntryRepository.Create(ctx, entry)
	if err == nil {
		e.created = append(e.created, out.ID)
	}
	return out, err
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type fixture struct {
	store    *memory.Store
	entries  *EntryService
	users    *UserService
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	return &fixture{
		store:    store,
		entries:  NewEntryService(store.Users(), store.Entries(), store, zerolog.Nop()),
		users:    NewUserService(store.Users(), store.Entries(), store, notifier, bcrypt.MinCost, zerolog.Nop()),
		notifier: notifier,
	}
}

func (f *fixture) register(t *testing.T, username, password, email string) domain.Principal {
	t.Helper()
	u, err := f.users.RegisterUser(context.Background(), ports.RegisterInput{Username: username, Password: password, Email: email})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return domain.Principal{Username: u.Username, Roles: u.Roles}
}

func strPtr(s string) *string { return &s }
