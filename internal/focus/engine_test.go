package focus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/notify"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testStart = time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

type scheduled struct {
	id    string
	after time.Duration
	note  notify.Notification
}

type recordingNotifier struct {
	mu        sync.Mutex
	next      int
	scheduled []scheduled
	cancelled []string
}

func (r *recordingNotifier) ScheduleOneShot(after time.Duration, n notify.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := string(rune('a' + r.next - 1))
	r.scheduled = append(r.scheduled, scheduled{id: id, after: after, note: n})
	return id, nil
}

func (r *recordingNotifier) Cancel(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, id)
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *clock.Fake, *recordingNotifier) {
	t.Helper()
	fake := clock.NewFake(testStart)
	n := &recordingNotifier{}
	base := []Option{WithClock(fake), WithNotifier(n), WithLogger(logger.Discard())}
	e := New(append(base, opts...)...)
	t.Cleanup(e.Close)
	return e, fake, n
}

func dur(d time.Duration) *time.Duration { return &d }

func TestResolveDuration(t *testing.T) {
	custom := 600 * time.Second
	assert.Equal(t, 300*time.Second, ResolveDuration(models.FocusShortBreak, nil, custom))
	assert.Equal(t, 900*time.Second, ResolveDuration(models.FocusLongBreak, nil, custom))
	assert.Equal(t, 1200*time.Second, ResolveDuration(models.FocusGameSession, nil, custom))
	assert.Equal(t, 600*time.Second, ResolveDuration(models.FocusCustom, nil, custom))
	assert.Equal(t, 60*time.Second, ResolveDuration(models.FocusCustom, dur(5*time.Second), custom))
	assert.Equal(t, 7200*time.Second, ResolveDuration(models.FocusCustom, dur(3*time.Hour), custom))
	assert.Equal(t, 120*time.Second, ResolveDuration(models.FocusShortBreak, dur(2*time.Minute), custom))
}

func TestStopImmediatelyLogsZero(t *testing.T) {
	e, _, n := newTestEngine(t)
	e.Start(models.FocusShortBreak, nil)
	e.Stop()

	s := e.Snapshot()
	assert.Equal(t, StateStopped, s.State)
	require.NotNil(t, s.LastSession)
	assert.Equal(t, time.Duration(0), s.LastSession.Duration)
	assert.False(t, s.LastSession.Completed)
	require.NotNil(t, s.LastSession.EndTime)
	assert.Equal(t, testStart, *s.LastSession.EndTime)

	require.Len(t, n.scheduled, 1)
	assert.Equal(t, []string{n.scheduled[0].id}, n.cancelled)
}

func TestCompletionLogsRequestedDuration(t *testing.T) {
	var events []Event
	e, fake, n := newTestEngine(t,
		WithBreakReminders(true, 20*time.Minute),
		WithListener(func(ev Event) { events = append(events, ev) }),
	)
	e.Start(models.FocusCustom, dur(90*time.Second))

	fake.Advance(30 * time.Second)
	e.Pause()
	fake.Advance(time.Hour)
	e.Resume()
	fake.Advance(60 * time.Second)

	s := e.Snapshot()
	require.Equal(t, StateCompleted, s.State)
	require.NotNil(t, s.LastSession)
	assert.True(t, s.LastSession.Completed)
	assert.Equal(t, 90*time.Second, s.LastSession.Duration)
	assert.Equal(t, testStart.Add(time.Hour+90*time.Second), *s.LastSession.EndTime)
	assert.Equal(t, 0, fake.Tickers())

	// start notice, rescheduled notice, break reminder
	require.Len(t, n.scheduled, 3)
	assert.Equal(t, 90*time.Second, n.scheduled[0].after)
	assert.Equal(t, 60*time.Second, n.scheduled[1].after)
	assert.Equal(t, 20*time.Minute, n.scheduled[2].after)
	assert.Equal(t, "Time for a Break!", n.scheduled[2].note.Title)
	assert.Equal(t, []string{n.scheduled[0].id}, n.cancelled)

	last := events[len(events)-1]
	assert.Equal(t, EventCompleted, last.Kind)
	require.NotNil(t, last.Session)
	assert.Equal(t, s.LastSession.ID, last.Session.ID)
}

func TestPauseStopsCountdown(t *testing.T) {
	e, fake, _ := newTestEngine(t)
	e.Start(models.FocusShortBreak, nil)
	fake.Advance(10 * time.Second)
	e.Pause()
	fake.Advance(10 * time.Minute)

	s := e.Snapshot()
	assert.Equal(t, StatePaused, s.State)
	assert.Equal(t, 290*time.Second, s.Remaining)
	assert.InDelta(t, 10.0/300.0, s.Progress(), 1e-9)
}

func TestStopIncludesPausedTime(t *testing.T) {
	e, fake, _ := newTestEngine(t)
	e.Start(models.FocusLongBreak, nil)
	fake.Advance(10 * time.Second)
	e.Pause()
	fake.Advance(50 * time.Second)
	e.Stop()

	s := e.Snapshot()
	assert.Equal(t, 60*time.Second, s.LastSession.Duration)
	assert.Equal(t, models.FocusLongBreak, s.LastSession.Type)
}

func TestNoBreakReminderWhenDisabled(t *testing.T) {
	e, fake, n := newTestEngine(t, WithBreakReminders(false, 0))
	e.Start(models.FocusCustom, dur(time.Minute))
	fake.Advance(time.Minute)

	assert.Equal(t, StateCompleted, e.Snapshot().State)
	assert.Len(t, n.scheduled, 1)
}

func TestInvalidStateCallsAreIgnored(t *testing.T) {
	e, fake, _ := newTestEngine(t)
	e.Pause()
	e.Resume()
	e.Stop()
	fake.Advance(5 * time.Second)
	assert.Equal(t, StateIdle, e.Snapshot().State)
	assert.Empty(t, e.History())

	e.Start(models.FocusShortBreak, nil)
	e.Start(models.FocusLongBreak, nil)
	s := e.Snapshot()
	assert.Equal(t, models.FocusShortBreak, s.Type)

	e.Resume()
	assert.Equal(t, StateRunning, e.Snapshot().State)
}

func TestRestartAfterFinish(t *testing.T) {
	e, fake, n := newTestEngine(t, WithCustomDuration(2*time.Minute))
	e.Start(models.FocusCustom, nil)
	fake.Advance(2 * time.Minute)
	require.Equal(t, StateCompleted, e.Snapshot().State)

	e.Start(models.FocusShortBreak, nil)
	s := e.Snapshot()
	assert.Equal(t, StateRunning, s.State)
	assert.Equal(t, 300*time.Second, s.Remaining)

	// the break reminder from the first session is dropped
	assert.Contains(t, n.cancelled, n.scheduled[1].id)

	e.Stop()
	history := e.History()
	require.Len(t, history, 2)
	assert.True(t, history[0].Completed)
	assert.Equal(t, 2*time.Minute, history[0].Duration)
	assert.False(t, history[1].Completed)
}

func TestCloseAbandonsSession(t *testing.T) {
	e, fake, n := newTestEngine(t)
	e.Start(models.FocusShortBreak, nil)
	fake.Advance(3 * time.Second)
	e.Close()

	e.Stop()
	s := e.Snapshot()
	assert.Equal(t, StateRunning, s.State)
	assert.Nil(t, s.LastSession)
	assert.Equal(t, []string{n.scheduled[0].id}, n.cancelled)
	assert.Equal(t, 0, fake.Tickers())
}
