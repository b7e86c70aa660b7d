// Package notify schedules one-shot user notifications.
package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/pixelplay/internal/logger"
)

var ErrClosed = errors.New("notifier closed")

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Notifier interface {
	// ScheduleOneShot delivers n once after the delay and returns an id for
	// Cancel.
	ScheduleOneShot(after time.Duration, n Notification) (string, error)
	// Cancel drops a pending notification. Unknown ids are ignored.
	Cancel(id string)
}

// Delivery receives notifications when they fall due.
type Delivery func(id string, n Notification)

// TimerNotifier schedules notifications on runtime timers and hands them to
// a Delivery when due. The default delivery writes them to the log.
type TimerNotifier struct {
	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
	deliver Delivery
	log     *logger.Logger
}

func NewTimerNotifier(deliver Delivery) *TimerNotifier {
	log := logger.Default().WithPrefix("notify")
	if deliver == nil {
		deliver = func(id string, n Notification) {
			log.WithField("notification_id", id).Info("%s: %s", n.Title, n.Body)
		}
	}
	return &TimerNotifier{
		pending: make(map[string]*time.Timer),
		deliver: deliver,
		log:     log,
	}
}

func (t *TimerNotifier) ScheduleOneShot(after time.Duration, n Notification) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return "", ErrClosed
	}

	id := uuid.NewString()
	t.pending[id] = time.AfterFunc(max(0, after), func() {
		t.mu.Lock()
		_, ok := t.pending[id]
		delete(t.pending, id)
		t.mu.Unlock()
		if ok {
			t.deliver(id, n)
		}
	})
	t.log.Debug("scheduled %q in %v (%s)", n.Title, after, id)
	return id, nil
}

func (t *TimerNotifier) Cancel(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.pending[id]; ok {
		timer.Stop()
		delete(t.pending, id)
		t.log.Debug("cancelled %s", id)
	}
}

// Pending reports how many notifications are waiting to fire.
func (t *TimerNotifier) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Close cancels everything pending and rejects new schedules.
func (t *TimerNotifier) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for id, timer := range t.pending {
		timer.Stop()
		delete(t.pending, id)
	}
}

// Nop discards every notification.
type Nop struct{}

func (Nop) ScheduleOneShot(time.Duration, Notification) (string, error) { return "", nil }
func (Nop) Cancel(string)                                                {}
