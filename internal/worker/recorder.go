package worker

import (
	"context"

	"github.com/vytor/pixelplay/internal/models"
)

// Recorder persists finished sessions and folds them into the profile.
// It is declared here so the worker package does not import services.
type Recorder interface {
	RecordGame(ctx context.Context, record models.GameRecord) error
	RecordFocus(ctx context.Context, session models.FocusSession) error
}
