package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

func TestUserDocumentRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	u := &domain.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Roles:        domain.AdminRoles(),
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	doc := toUserDocument(u)
	if doc.EntryIDs == nil {
		t.Fatal("entry_ids must be stored as an empty array, not null")
	}
	doc.ID = primitive.NewObjectID()

	got := doc.toDomain()
	if got.ID != doc.ID.Hex() {
		t.Fatalf("id: got %q want %q", got.ID, doc.ID.Hex())
	}
	if !got.Roles.Has(domain.RoleAdmin) || !got.Roles.Has(domain.RoleUser) {
		t.Fatalf("roles lost: %v", got.Roles)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at: got %v want %v", got.CreatedAt, created)
	}
}

func TestUserListFilter(t *testing.T) {
	if f := userListFilter(ports.UserFilter{}); len(f) != 0 {
		t.Fatalf("expected empty filter, got %v", f)
	}
	if f := userListFilter(ports.UserFilter{Email: "a@example.com"}); f["email"] != "a@example.com" {
		t.Fatalf("unexpected email filter: %v", f)
	}
	f := userListFilter(ports.UserFilter{HasEmail: true})
	if _, ok := f["email"].(bson.M); !ok {
		t.Fatalf("expected operator filter, got %v", f)
	}
}

func TestObjectIDsDropsMalformed(t *testing.T) {
	good := primitive.NewObjectID().Hex()
	got := objectIDs([]string{"not-an-id", good, ""})
	if len(got) != 1 || got[0].Hex() != good {
		t.Fatalf("unexpected ids: %v", got)
	}
}

func TestOrderEntriesFollowsReferenceOrder(t *testing.T) {
	a := entryDocument{ID: primitive.NewObjectID(), Title: "a"}
	b := entryDocument{ID: primitive.NewObjectID(), Title: "b"}

	got := orderEntries([]string{b.ID.Hex(), "missing", a.ID.Hex()}, []entryDocument{a, b})
	if len(got) != 2 || got[0].Title != "b" || got[1].Title != "a" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestUnixToTimeZero(t *testing.T) {
	if !unixToTime(0).IsZero() {
		t.Fatal("expected zero time for 0")
	}
}
