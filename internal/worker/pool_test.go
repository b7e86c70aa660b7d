package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/pixelplay/internal/models"
)

type fakeRecorder struct {
	mu     sync.Mutex
	games  []models.GameRecord
	focus  []models.FocusSession
	gameFn func(models.GameRecord) error
}

func (r *fakeRecorder) RecordGame(_ context.Context, rec models.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games = append(r.games, rec)
	if r.gameFn != nil {
		return r.gameFn(rec)
	}
	return nil
}

func (r *fakeRecorder) RecordFocus(_ context.Context, s models.FocusSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focus = append(r.focus, s)
	return nil
}

func TestPoolDrainsQueuedJobsOnStop(t *testing.T) {
	rec := &fakeRecorder{}
	p := NewPool(2, 8)
	p.Start(context.Background())

	for i := 0; i < 5; i++ {
		require.True(t, p.Submit(&RecordGameJob{Recorder: rec, Record: models.GameRecord{Score: i}}))
	}
	require.True(t, p.Submit(&RecordFocusJob{Recorder: rec, Session: models.FocusSession{ID: "f1"}}))
	p.Stop()

	assert.Len(t, rec.games, 5)
	require.Len(t, rec.focus, 1)
	assert.Equal(t, "f1", rec.focus[0].ID)
}

func TestPoolSurvivesFailingAndPanickingJobs(t *testing.T) {
	calls := 0
	rec := &fakeRecorder{gameFn: func(models.GameRecord) error {
		calls++
		if calls == 1 {
			return errors.New("disk full")
		}
		if calls == 2 {
			panic("boom")
		}
		return nil
	}}
	p := NewPool(1, 4)
	p.Start(context.Background())

	for i := 0; i < 3; i++ {
		p.Submit(&RecordGameJob{Recorder: rec})
	}
	p.Stop()

	assert.Equal(t, 3, calls)
}

func TestPoolSubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1)
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	assert.False(t, p.Submit(&RecordFocusJob{Recorder: &fakeRecorder{}}))
	assert.Equal(t, 0, p.QueueSize())
}

func TestJobNames(t *testing.T) {
	assert.Equal(t, "record_game", (&RecordGameJob{}).Name())
	assert.Equal(t, "record_focus", (&RecordFocusJob{}).Name())
}
