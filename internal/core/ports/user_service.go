package ports

import (
	"context"

	"github.com/ms19/journal-system/internal/core/domain"
)

// RegisterInput carries the data needed to open an account.
type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// UserService manages the account lifecycle.
type UserService interface {
	RegisterUser(ctx context.Context, input RegisterInput) (*domain.User, error)
	RegisterAdmin(ctx context.Context, input RegisterInput) (*domain.User, error)
	UpdateProfile(ctx context.Context, username string, patch domain.ProfilePatch) (*domain.User, error)
	DeleteByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]*domain.User, error)
}
