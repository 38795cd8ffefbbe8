package repository

import (
	"context"

	"notesapi/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Emails are expected to arrive already normalized (lowercased).
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
