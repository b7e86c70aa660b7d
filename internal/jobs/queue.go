package jobs

import (
	"errors"

	"github.com/vytor/pixelplay/internal/models"
)

var ErrQueueClosed = errors.New("job queue closed")

// JobQueue hands finished sessions to background recording.
type JobQueue interface {
	EnqueueGame(record models.GameRecord) error
	EnqueueFocus(session models.FocusSession) error
}
