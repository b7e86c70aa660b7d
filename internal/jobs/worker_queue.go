package jobs

import (
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/worker"
)

// WorkerQueue implements JobQueue on a worker pool.
type WorkerQueue struct {
	pool     *worker.Pool
	recorder worker.Recorder
}

func NewWorkerQueue(pool *worker.Pool, recorder worker.Recorder) JobQueue {
	return &WorkerQueue{pool: pool, recorder: recorder}
}

func (q *WorkerQueue) EnqueueGame(record models.GameRecord) error {
	if !q.pool.Submit(&worker.RecordGameJob{Recorder: q.recorder, Record: record}) {
		return ErrQueueClosed
	}
	return nil
}

func (q *WorkerQueue) EnqueueFocus(session models.FocusSession) error {
	if !q.pool.Submit(&worker.RecordFocusJob{Recorder: q.recorder, Session: session}) {
		return ErrQueueClosed
	}
	return nil
}
