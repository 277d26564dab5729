package ports

import (
	"context"

	"github.com/ms19/journal-system/internal/core/domain"
)

// CreateEntryInput is the DTO passed from the transport layer to EntryService.
type CreateEntryInput struct {
	Title   string
	Content string
}

// EntryService exposes journal entries scoped to the requesting principal.
type EntryService interface {
	CreateEntry(ctx context.Context, input CreateEntryInput, principal domain.Principal) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, principal domain.Principal) ([]*domain.JournalEntry, error)
	GetEntry(ctx context.Context, id string, principal domain.Principal) (*domain.JournalEntry, error)
	UpdateEntry(ctx context.Context, id string, patch domain.EntryPatch, principal domain.Principal) (*domain.JournalEntry, error)
	DeleteEntry(ctx context.Context, id string, principal domain.Principal) (*domain.JournalEntry, error)
	// FindEntryByID bypasses ownership. Only admin routes may call it.
	FindEntryByID(ctx context.Context, id string) (*domain.JournalEntry, error)
}
