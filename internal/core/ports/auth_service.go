package ports

import (
	"context"
	"time"

	"github.com/ms19/journal-system/internal/core/domain"
)

// CredentialVerifier turns a request credential into a Principal.
type CredentialVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.Principal, error)
	VerifyBasic(ctx context.Context, username, password string) (*domain.Principal, error)
}

type AuthService interface {
	CredentialVerifier
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	OAuthLoginURL(ctx context.Context) (string, error)
	OAuthCallback(ctx context.Context, state, code string) (string, *domain.User, error)
}

// TokenDenylist remembers revoked token ids until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// StateStore holds single-use OAuth2 state values.
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	// Consume reports whether state was present and removes it.
	Consume(ctx context.Context, state string) (bool, error)
}
