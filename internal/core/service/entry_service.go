package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
	"github.com/ms19/journal-system/internal/pkg/metrics"
)

// EntryService enforces that every entry operation is scoped to the
// principal's reference set and keeps that set consistent with the entry store.
type EntryService struct {
	users   ports.UserRepository
	entries ports.EntryRepository
	tx      ports.Transactor
	logger  zerolog.Logger
}

func NewEntryService(users ports.UserRepository, entries ports.EntryRepository, tx ports.Transactor, logger zerolog.Logger) *EntryService {
	return &EntryService{users: users, entries: entries, tx: tx, logger: logger}
}

// CreateEntry stores the entry and appends it to the owner's set in one transaction.
func (s *EntryService) CreateEntry(ctx context.Context, input ports.CreateEntryInput, principal domain.Principal) (*domain.JournalEntry, error) {
	var created *domain.JournalEntry

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByUsername(ctx, principal.Username); err != nil {
			return err
		}

		now := time.Now().UTC()
		entry, err := s.entries.Create(ctx, &domain.JournalEntry{
			Title:     input.Title,
			Content:   input.Content,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("create entry: %w", err)
		}

		if err := s.users.AddEntry(ctx, principal.Username, entry.ID); err != nil {
			return fmt.Errorf("link entry to user: %w", err)
		}
		created = entry
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Str("username", principal.Username).Msg("failed to create entry")
		}
		return nil, err
	}

	metrics.EntriesCreatedTotal.Inc()
	s.logger.Info().Str("entry_id", created.ID).Str("username", principal.Username).Msg("entry created")
	return created, nil
}

// ListEntries resolves the principal's reference set. Dangling ids are skipped.
func (s *EntryService) ListEntries(ctx context.Context, principal domain.Principal) ([]*domain.JournalEntry, error) {
	user, err := s.users.FindByUsername(ctx, principal.Username)
	if err != nil {
		return nil, err
	}
	if len(user.EntryIDs) == 0 {
		return []*domain.JournalEntry{}, nil
	}

	entries, err := s.entries.FindByIDs(ctx, user.EntryIDs)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if entries == nil {
		entries = []*domain.JournalEntry{}
	}
	return entries, nil
}

// GetEntry returns the entry only when it belongs to the principal.
// An entry owned by someone else is reported exactly like a missing one.
func (s *EntryService) GetEntry(ctx context.Context, id string, principal domain.Principal) (*domain.JournalEntry, error) {
	if _, err := s.ownedBy(ctx, id, principal); err != nil {
		return nil, err
	}
	return s.entries.FindByID(ctx, id)
}

// UpdateEntry merges patch into an owned entry. Blank and absent fields are kept.
func (s *EntryService) UpdateEntry(ctx context.Context, id string, patch domain.EntryPatch, principal domain.Principal) (*domain.JournalEntry, error) {
	if _, err := s.ownedBy(ctx, id, principal); err != nil {
		return nil, err
	}

	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Apply(entry) {
		entry.UpdatedAt = time.Now().UTC()
		if err := s.entries.Update(ctx, entry); err != nil {
			return nil, fmt.Errorf("update entry: %w", err)
		}
	}
	return entry, nil
}

// DeleteEntry removes an owned entry and pulls it from the owner's set.
// A second call for the same id yields domain.ErrEntryNotFound.
func (s *EntryService) DeleteEntry(ctx context.Context, id string, principal domain.Principal) (*domain.JournalEntry, error) {
	var deleted *domain.JournalEntry

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByUsername(ctx, principal.Username)
		if err != nil {
			return err
		}

		entry, err := s.entries.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrEntryNotFound) {
				// Self-heal a dangling reference left behind by an earlier failure.
				if user.OwnsEntry(id) {
					return s.users.RemoveEntry(ctx, principal.Username, id)
				}
			}
			return err
		}
		if !user.OwnsEntry(id) {
			return domain.ErrEntryNotFound
		}

		if err := s.entries.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		if err := s.users.RemoveEntry(ctx, principal.Username, id); err != nil {
			return fmt.Errorf("unlink entry from user: %w", err)
		}
		deleted = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, domain.ErrEntryNotFound
	}

	metrics.EntriesDeletedTotal.Inc()
	s.logger.Info().Str("entry_id", id).Str("username", principal.Username).Msg("entry deleted")
	return deleted, nil
}

// FindEntryByID fetches any entry regardless of owner.
func (s *EntryService) FindEntryByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return s.entries.FindByID(ctx, id)
}

func (s *EntryService) ownedBy(ctx context.Context, id string, principal domain.Principal) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, principal.Username)
	if err != nil {
		return nil, err
	}
	if !user.OwnsEntry(id) {
		return nil, domain.ErrEntryNotFound
	}
	return user, nil
}
