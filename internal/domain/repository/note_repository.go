package repository

import (
	"context"

	"notesapi/internal/domain/entity"
)

// NoteStats summarizes a user's notes.
type NoteStats struct {
	Total  int64
	Recent int64 // created within the trailing 7 days
}

// NoteRepository defines owner-scoped note operations. Mutations filter by
// (id, owner_id) in a single statement; a note owned by someone else is
// indistinguishable from an absent one (ErrNotFound either way).
type NoteRepository interface {
	Create(ctx context.Context, n *entity.Note) error
	// ListByOwner returns the owner's notes ordered by updated_at descending.
	// A non-empty query additionally requires a case-insensitive substring
	// match on title or content.
	ListByOwner(ctx context.Context, ownerID, query string, limit, offset int) ([]entity.Note, error)
	GetByID(ctx context.Context, ownerID, noteID string) (*entity.Note, error)
	// Update applies the non-nil fields and refreshes updated_at atomically.
	Update(ctx context.Context, ownerID, noteID string, title, content *string) (*entity.Note, error)
	Delete(ctx context.Context, ownerID, noteID string) error
	Stats(ctx context.Context, ownerID string) (NoteStats, error)
}
