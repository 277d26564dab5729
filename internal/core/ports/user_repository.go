package ports

import (
	"context"

	"github.com/ms19/journal-system/internal/core/domain"
)

// UserFilter narrows ListUsers. Zero value lists everyone.
type UserFilter struct {
	Email    string // exact match when non-empty
	HasEmail bool   // only users with a non-empty email
}

// UserRepository persists User aggregates. Username uniqueness is enforced by the store.
type UserRepository interface {
	// Create inserts the user and returns it with its generated ID.
	// Returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Update replaces username, email, password hash and roles of the user with user.ID.
	Update(ctx context.Context, user *domain.User) error
	// DeleteByUsername removes the user and returns the deleted snapshot.
	DeleteByUsername(ctx context.Context, username string) (*domain.User, error)
	// AddEntry appends entryID to the user's reference set.
	AddEntry(ctx context.Context, username, entryID string) error
	// RemoveEntry pulls entryID from the user's reference set. Absent ids are a no-op.
	RemoveEntry(ctx context.Context, username, entryID string) error
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
}
