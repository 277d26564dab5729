package ports

import (
	"context"

	"github.com/ms19/journal-system/internal/core/domain"
)

// EntryRepository persists journal entries. It knows nothing about ownership.
type EntryRepository interface {
	// Create inserts the entry and returns it with its generated ID.
	Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error)
	FindByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	// FindByIDs resolves ids in order, silently skipping the ones that no longer exist.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.JournalEntry, error)
	Update(ctx context.Context, entry *domain.JournalEntry) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}

// Transactor runs fn so that every repository call made with the ctx it
// receives commits or rolls back together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
