package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

func TestUserRepository_CreateRejectsDuplicateUsername(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Users().Create(ctx, &domain.User{Username: "alice"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := s.Users().Create(ctx, &domain.User{Username: "alice"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	created, _ := s.Users().Create(ctx, &domain.User{Username: "alice"})
	created.EntryIDs = append(created.EntryIDs, "bogus")

	got, err := s.Users().FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.EntryIDs) != 0 {
		t.Fatalf("stored user was mutated through returned pointer: %v", got.EntryIDs)
	}
}

func TestUserRepository_AddRemoveEntryKeepsSetSemantics(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	users := s.Users()

	_, _ = users.Create(ctx, &domain.User{Username: "alice"})
	_ = users.AddEntry(ctx, "alice", "e1")
	_ = users.AddEntry(ctx, "alice", "e1")
	_ = users.AddEntry(ctx, "alice", "e2")

	u, _ := users.FindByUsername(ctx, "alice")
	if len(u.EntryIDs) != 2 {
		t.Fatalf("expected 2 ids, got %v", u.EntryIDs)
	}

	_ = users.RemoveEntry(ctx, "alice", "e1")
	u, _ = users.FindByUsername(ctx, "alice")
	if len(u.EntryIDs) != 1 || u.EntryIDs[0] != "e2" {
		t.Fatalf("expected [e2], got %v", u.EntryIDs)
	}

	if err := users.AddEntry(ctx, "ghost", "e3"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_UpdateRenames(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	users := s.Users()

	alice, _ := users.Create(ctx, &domain.User{Username: "alice"})
	_, _ = users.Create(ctx, &domain.User{Username: "bob"})

	alice.Username = "bob"
	if err := users.Update(ctx, alice); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	alice.Username = "alicia"
	if err := users.Update(ctx, alice); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := users.FindByUsername(ctx, "alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("old name still resolves: %v", err)
	}
	if _, err := users.FindByUsername(ctx, "alicia"); err != nil {
		t.Fatalf("new name: %v", err)
	}
}

func TestUserRepository_ListFilters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	users := s.Users()

	_, _ = users.Create(ctx, &domain.User{Username: "carol", Email: "c@example.com"})
	_, _ = users.Create(ctx, &domain.User{Username: "alice", Email: "a@example.com"})
	_, _ = users.Create(ctx, &domain.User{Username: "bob"})

	all, _ := users.List(ctx, ports.UserFilter{})
	if len(all) != 3 || all[0].Username != "alice" {
		t.Fatalf("unexpected list: %d users, first %q", len(all), all[0].Username)
	}

	withEmail, _ := users.List(ctx, ports.UserFilter{HasEmail: true})
	if len(withEmail) != 2 {
		t.Fatalf("expected 2 users with email, got %d", len(withEmail))
	}

	byEmail, _ := users.List(ctx, ports.UserFilter{Email: "c@example.com"})
	if len(byEmail) != 1 || byEmail[0].Username != "carol" {
		t.Fatalf("unexpected email filter result: %+v", byEmail)
	}
}

func TestEntryRepository_FindByIDsKeepsOrderAndSkipsMissing(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	entries := s.Entries()

	a, _ := entries.Create(ctx, &domain.JournalEntry{Title: "a"})
	b, _ := entries.Create(ctx, &domain.JournalEntry{Title: "b"})

	got, err := entries.FindByIDs(ctx, []string{b.ID, "missing", a.ID})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 2 || got[0].Title != "b" || got[1].Title != "a" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestEntryRepository_DeleteMissing(t *testing.T) {
	s := NewStore()
	if err := s.Entries().Delete(context.Background(), "nope"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestStore_TransactionRollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, _ = s.Users().Create(ctx, &domain.User{Username: "alice"})

	boom := errors.New("boom")
	var entryID string
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		e, err := s.Entries().Create(ctx, &domain.JournalEntry{Title: "t"})
		if err != nil {
			return err
		}
		entryID = e.ID
		if err := s.Users().AddEntry(ctx, "alice", e.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := s.Entries().FindByID(ctx, entryID); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("entry survived rollback: %v", err)
	}
	u, _ := s.Users().FindByUsername(ctx, "alice")
	if len(u.EntryIDs) != 0 {
		t.Fatalf("reference survived rollback: %v", u.EntryIDs)
	}
}

func TestStore_TransactionCommits(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.Users().Create(ctx, &domain.User{Username: "alice"})
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	if _, err := s.Users().FindByUsername(ctx, "alice"); err != nil {
		t.Fatalf("committed user missing: %v", err)
	}
}

func TestStore_RollbackKeepsWritesMadeOutsideTheTransaction(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, _ = s.Users().Create(ctx, &domain.User{Username: "alice"})

	inTx := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.WithinTransaction(ctx, func(ctx context.Context) error {
			if _, err := s.Entries().Create(ctx, &domain.JournalEntry{Title: "doomed"}); err != nil {
				return err
			}
			close(inTx)
			<-release
			return domain.ErrEntryNotFound
		})
	}()

	<-inTx
	bob, err := s.Users().Create(ctx, &domain.User{Username: "bob"})
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	kept, _ := s.Entries().Create(ctx, &domain.JournalEntry{Title: "kept"})
	_ = s.Users().AddEntry(ctx, "alice", kept.ID)
	close(release)

	if err := <-done; !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if got, err := s.Users().FindByUsername(ctx, "bob"); err != nil || got.ID != bob.ID {
		t.Fatalf("committed user lost by rollback: %v", err)
	}
	if _, err := s.Entries().FindByID(ctx, kept.ID); err != nil {
		t.Fatalf("committed entry lost by rollback: %v", err)
	}
	if u, _ := s.Users().FindByUsername(ctx, "alice"); !u.OwnsEntry(kept.ID) {
		t.Fatalf("committed reference lost by rollback: %v", u.EntryIDs)
	}
}

func TestStore_ConcurrentCreatesSurviveFailingTransactions(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	const n = 200

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			_ = s.WithinTransaction(ctx, func(ctx context.Context) error {
				_, _ = s.Entries().Create(ctx, &domain.JournalEntry{Title: "x"})
				return domain.ErrEntryNotFound
			})
		}
	}()

	for i := 0; i < n; i++ {
		if _, err := s.Users().Create(ctx, &domain.User{Username: fmt.Sprintf("user-%03d", i)}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	close(stop)
	wg.Wait()

	users, _ := s.Users().List(ctx, ports.UserFilter{})
	if len(users) != n {
		t.Fatalf("expected %d users, got %d", n, len(users))
	}
}

func TestStore_RollbackRestoresUpdatesAndDeletes(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	alice, _ := s.Users().Create(ctx, &domain.User{Username: "alice", Email: "a@example.com"})
	e, _ := s.Entries().Create(ctx, &domain.JournalEntry{Title: "t"})
	_ = s.Users().AddEntry(ctx, "alice", e.ID)

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		renamed := *alice
		renamed.Username = "alicia"
		renamed.Email = "new@example.com"
		if err := s.Users().Update(ctx, &renamed); err != nil {
			return err
		}
		if err := s.Users().RemoveEntry(ctx, "alicia", e.ID); err != nil {
			return err
		}
		if err := s.Entries().DeleteMany(ctx, []string{e.ID}); err != nil {
			return err
		}
		if _, err := s.Users().DeleteByUsername(ctx, "alicia"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	u, err := s.Users().FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("user not restored: %v", err)
	}
	if u.Email != "a@example.com" || !u.OwnsEntry(e.ID) {
		t.Fatalf("user state not restored: %+v", u)
	}
	if _, err := s.Users().FindByUsername(ctx, "alicia"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("rename survived rollback: %v", err)
	}
	if _, err := s.Entries().FindByID(ctx, e.ID); err != nil {
		t.Fatalf("entry not restored: %v", err)
	}
}

func TestDenylist_Expiry(t *testing.T) {
	d := NewDenylist()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	ctx := context.Background()

	_ = d.Revoke(ctx, "jti-1", now.Add(time.Minute))
	if revoked, _ := d.IsRevoked(ctx, "jti-1"); !revoked {
		t.Fatal("expected jti-1 revoked")
	}
	if revoked, _ := d.IsRevoked(ctx, "jti-2"); revoked {
		t.Fatal("unexpected revocation of jti-2")
	}

	now = now.Add(2 * time.Minute)
	if revoked, _ := d.IsRevoked(ctx, "jti-1"); revoked {
		t.Fatal("expected revocation to lapse with the token")
	}
}

func TestStateStore_ConsumeOnce(t *testing.T) {
	s := NewStateStore()
	ctx := context.Background()

	_ = s.Save(ctx, "state-1", time.Minute)
	if ok, _ := s.Consume(ctx, "state-1"); !ok {
		t.Fatal("expected first consume to succeed")
	}
	if ok, _ := s.Consume(ctx, "state-1"); ok {
		t.Fatal("expected second consume to fail")
	}
}

func TestStateStore_Expired(t *testing.T) {
	s := NewStateStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Save(ctx, "state-1", time.Minute)
	now = now.Add(time.Hour)
	if ok, _ := s.Consume(ctx, "state-1"); ok {
		t.Fatal("expected expired state to be rejected")
	}
}
