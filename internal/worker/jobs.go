package worker

import (
	"context"

	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
)

// RecordGameJob stores a finished game and updates statistics.
type RecordGameJob struct {
	Recorder Recorder
	Record   models.GameRecord
}

func (j *RecordGameJob) Name() string { return "record_game" }

func (j *RecordGameJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"game_id": j.Record.ID,
		"state":   j.Record.State.String(),
	})
	log.Debug("recording game with score %d", j.Record.Score)
	return j.Recorder.RecordGame(ctx, j.Record)
}

// RecordFocusJob stores a finalized focus session and updates statistics.
type RecordFocusJob struct {
	Recorder Recorder
	Session  models.FocusSession
}

func (j *RecordFocusJob) Name() string { return "record_focus" }

func (j *RecordFocusJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id": j.Session.ID,
		"completed":  j.Session.Completed,
	})
	log.Debug("recording focus session of %v", j.Session.Duration)
	return j.Recorder.RecordFocus(ctx, j.Session)
}
