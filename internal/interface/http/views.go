package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"notesapi/internal/domain/entity"
)

// Public representations. Password hashes and owner ids never leave the
// boundary; timestamps are RFC3339 UTC.

func publicUser(u *entity.User) gin.H {
	return gin.H{
		"user_id":    u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"created_at": u.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func publicNote(n *entity.Note) gin.H {
	return gin.H{
		"note_id":    n.ID,
		"title":      n.Title,
		"content":    n.Content,
		"created_at": n.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": n.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func publicNotes(notes []entity.Note) []gin.H {
	out := make([]gin.H, 0, len(notes))
	for i := range notes {
		out = append(out, publicNote(&notes[i]))
	}
	return out
}

// storeFailureStatus maps an unexpected store error to a response code:
// timeouts and cancellations surface as 503, everything else as 500.
func storeFailureStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
