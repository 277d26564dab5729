package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrEntryNotFound = errors.New("entry not found")

// JournalEntry is a single journal record owned by exactly one user.
type JournalEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryPatch is a partial update. Nil and blank fields leave the stored value alone.
type EntryPatch struct {
	Title   *string
	Content *string
}

// Apply merges the patch into e and reports whether anything changed.
func (p EntryPatch) Apply(e *JournalEntry) bool {
	changed := false
	if v, ok := nonBlank(p.Title); ok && v != e.Title {
		e.Title = v
		changed = true
	}
	if v, ok := nonBlank(p.Content); ok && v != e.Content {
		e.Content = v
		changed = true
	}
	return changed
}

func nonBlank(s *string) (string, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", false
	}
	return *s, true
}
