package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
	"github.com/ms19/journal-system/internal/pkg/metrics"
)

// UserService implements account registration, profile changes and deletion.
type UserService struct {
	users      ports.UserRepository
	entries    ports.EntryRepository
	tx         ports.Transactor
	notifier   ports.Notifier
	bcryptCost int
	logger     zerolog.Logger
}

// NewUserService wires the account service. notifier may be nil, in which
// case no welcome mail is sent. A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewUserService(
	users ports.UserRepository,
	entries ports.EntryRepository,
	tx ports.Transactor,
	notifier ports.Notifier,
	bcryptCost int,
	logger zerolog.Logger,
) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:      users,
		entries:    entries,
		tx:         tx,
		notifier:   notifier,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *UserService) RegisterUser(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.register(ctx, input, domain.DefaultRoles())
}

func (s *UserService) RegisterAdmin(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.register(ctx, input, domain.AdminRoles())
}

func (s *UserService) register(ctx context.Context, input ports.RegisterInput, roles domain.RoleSet) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Roles:        roles,
		EntryIDs:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if roles.Has(domain.RoleAdmin) {
		role = domain.RoleAdmin
	}
	metrics.UsersRegisteredTotal.WithLabelValues(string(role)).Inc()
	s.logger.Info().Str("username", created.Username).Strs("roles", roles.Strings()).Msg("user registered")

	if created.Email != "" && s.notifier != nil {
		s.notifier.Send(ctx, domain.Mail{
			To:      created.Email,
			Subject: "Welcome to your journal",
			Body:    fmt.Sprintf("Hi %s, your journal account is ready.", created.Username),
		})
	}
	return created, nil
}

// UpdateProfile overwrites the fields present in patch. A new password is re-hashed.
func (s *UserService) UpdateProfile(ctx context.Context, username string, patch domain.ProfilePatch) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		name := strings.TrimSpace(*patch.Username)
		if name == "" {
			return nil, fmt.Errorf("%w: username cannot be blank", domain.ErrValidation)
		}
		user.Username = name
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be blank", domain.ErrValidation)
		}
		hash, err := s.hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Str("new_username", user.Username).Msg("profile updated")
	return user, nil
}

// DeleteByUsername removes the account together with every entry it owns.
func (s *UserService) DeleteByUsername(ctx context.Context, username string) (*domain.User, error) {
	var deleted *domain.User

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.DeleteByUsername(ctx, username)
		if err != nil {
			return err
		}
		if len(user.EntryIDs) > 0 {
			if err := s.entries.DeleteMany(ctx, user.EntryIDs); err != nil {
				return fmt.Errorf("cascade delete entries: %w", err)
			}
		}
		deleted = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Int("entries_removed", len(deleted.EntryIDs)).Msg("user deleted")
	return deleted, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

func (s *UserService) ListUsers(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password longer than 72 bytes", domain.ErrValidation)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
