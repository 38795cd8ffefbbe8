package entity

import (
	"time"
)

// Note is a short text document owned by exactly one user.
// Ownership never transfers; every store operation filters by OwnerID.
type Note struct {
	ID        string
	OwnerID   string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
