package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"notesapi/pkg/helpers"
)

// Event is a best-effort activity record published to the events queue.
// Losing one is acceptable; blocking a request on the broker is not.
type Event struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id"`
	NoteID string    `json:"note_id,omitempty"`
	At     time.Time `json:"at"`
}

func publishEvent(ctx context.Context, pub *helpers.RabbitPublisher, logger *logrus.Logger, eventType, userID, noteID string) {
	ev := Event{Type: eventType, UserID: userID, NoteID: noteID, At: time.Now().UTC()}
	if err := pub.PublishJSON(ctx, ev); err != nil && logger != nil {
		logger.WithError(err).WithField("type", eventType).Warn("event publish failed")
	}
}
