package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
	"github.com/ms19/journal-system/internal/pkg/metrics"
)

const oauthStateTTL = 10 * time.Minute

// tokenClaims is the payload of every access token we issue.
type tokenClaims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// AuthService issues and verifies credentials.
type AuthService struct {
	users     ports.UserRepository
	denylist  ports.TokenDenylist
	states    ports.StateStore
	idp       ports.IdentityProvider
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService builds the service. idp may be nil when OAuth2 login is not configured.
func NewAuthService(
	users ports.UserRepository,
	denylist ports.TokenDenylist,
	states ports.StateStore,
	idp ports.IdentityProvider,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		denylist:  denylist,
		states:    states,
		idp:       idp,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Login checks the password and returns a signed token. Unknown users and bad
// passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("accepted").Inc()
	s.logger.Info().Str("username", user.Username).Msg("login succeeded")
	return token, user, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info().Str("username", claims.Subject).Msg("token revoked")
	return nil
}

// VerifyToken validates signature, algorithm, expiry and revocation status.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("username", claims.Subject).Msg("revocation check failed")
		return nil, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	return &domain.Principal{
		Username: claims.Subject,
		Roles:    domain.ParseRoleSet(claims.Roles),
	}, nil
}

// VerifyBasic authenticates an HTTP Basic pair against the stored hash.
func (s *AuthService) VerifyBasic(ctx context.Context, username, password string) (*domain.Principal, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return &domain.Principal{Username: user.Username, Roles: user.Roles}, nil
}

// OAuthLoginURL stores a fresh state value and returns the provider redirect.
func (s *AuthService) OAuthLoginURL(ctx context.Context) (string, error) {
	if s.idp == nil {
		return "", fmt.Errorf("%w: oauth2 login", domain.ErrNotConfigured)
	}
	state := uuid.NewString()
	if err := s.states.Save(ctx, state, oauthStateTTL); err != nil {
		return "", fmt.Errorf("save oauth state: %w", err)
	}
	return s.idp.AuthCodeURL(state), nil
}

// OAuthCallback finishes the authorization-code flow. The external identity is
// mapped to a local account, created on first login with the default roles.
func (s *AuthService) OAuthCallback(ctx context.Context, state, code string) (string, *domain.User, error) {
	if s.idp == nil {
		return "", nil, fmt.Errorf("%w: oauth2 login", domain.ErrNotConfigured)
	}

	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return "", nil, fmt.Errorf("consume oauth state: %w", err)
	}
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}

	identity, err := s.idp.Exchange(ctx, code)
	if err != nil {
		return "", nil, err
	}

	user, err := s.users.FindByUsername(ctx, identity.LocalUsername())
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.provision(ctx, identity)
	}
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("oauth2").Inc()
	s.logger.Info().Str("username", user.Username).Str("provider", identity.Provider).Msg("oauth2 login succeeded")
	return token, user, nil
}

// provision creates a local account for an external identity. The password is
// random and never disclosed, so the account can only log in through the provider.
func (s *AuthService) provision(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Username:     identity.LocalUsername(),
		Email:        identity.Email,
		PasswordHash: string(hash),
		Roles:        domain.DefaultRoles(),
		EntryIDs:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.WithLabelValues(string(domain.RoleUser)).Inc()
	s.logger.Info().Str("username", user.Username).Msg("user provisioned from identity provider")
	return user, nil
}

func (s *AuthService) authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Roles: user.Roles.Strings(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
