// Package focus runs focus-timer sessions.
package focus

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/notify"
	"github.com/vytor/pixelplay/internal/worker"
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateCompleted
	StateStopped
)

var stateNames = [...]string{
	StateIdle:      "idle",
	StateRunning:   "running",
	StatePaused:    "paused",
	StateCompleted: "completed",
	StateStopped:   "stopped",
}

func (s State) String() string {
	if s < StateIdle || s > StateStopped {
		return "unknown"
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Active reports whether a session is in progress.
func (s State) Active() bool { return s == StateRunning || s == StatePaused }

type EventKind int

const (
	EventStarted EventKind = iota
	EventPaused
	EventResumed
	EventCompleted
	EventStopped
)

// Event reports a state transition. Session is set when a session was
// finalized.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	Session  *models.FocusSession
}

type Snapshot struct {
	State       State                `json:"state"`
	SessionID   string               `json:"session_id,omitempty"`
	Type        models.FocusType     `json:"type"`
	StartTime   *time.Time           `json:"start_time"`
	Duration    time.Duration        `json:"duration"`
	Remaining   time.Duration        `json:"remaining"`
	PlannedEnd  *time.Time           `json:"planned_end"`
	LastSession *models.FocusSession `json:"last_session"`
}

// Progress is the elapsed fraction of the countdown.
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return 1 - float64(s.Remaining)/float64(s.Duration)
}

type Option func(*Engine)

func WithClock(c clock.Clock) Option { return func(e *Engine) { e.clock = c } }

func WithNotifier(n notify.Notifier) Option { return func(e *Engine) { e.notifier = n } }

// WithBreakReminders schedules a reminder this long after a session
// completes normally.
func WithBreakReminders(enabled bool, interval time.Duration) Option {
	return func(e *Engine) {
		e.breakReminders = enabled
		if interval > 0 {
			e.breakInterval = interval
		}
	}
}

// WithCustomDuration sets the length used for custom sessions started
// without an explicit duration.
func WithCustomDuration(d time.Duration) Option {
	return func(e *Engine) { e.customDuration = models.ClampFocusDuration(d) }
}

// WithListener registers fn for every Event. It runs on the engine goroutine
// and must not call back into the engine.
func WithListener(fn func(Event)) Option { return func(e *Engine) { e.listener = fn } }

func WithLogger(l *logger.Logger) Option { return func(e *Engine) { e.log = l } }

// Engine runs one focus session at a time. A new session may start once the
// previous one has finished.
type Engine struct {
	clock          clock.Clock
	notifier       notify.Notifier
	listener       func(Event)
	log            *logger.Logger
	loop           *worker.Loop
	breakReminders bool
	breakInterval  time.Duration
	customDuration time.Duration

	state       State
	sessionID   string
	typ         models.FocusType
	startTime   time.Time
	duration    time.Duration
	remaining   time.Duration
	noticeID    string
	reminderID  string
	history     []models.FocusSession
	lastSession *models.FocusSession

	final Snapshot
}

func New(opts ...Option) *Engine {
	e := &Engine{
		clock:          clock.Real(),
		notifier:       notify.Nop{},
		log:            logger.Default(),
		breakReminders: true,
		breakInterval:  models.DefaultBreakReminderInterval,
		customDuration: models.DefaultCustomFocusDuration,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithPrefix("focus")
	e.loop = worker.NewLoop(e.clock, e.log)
	return e
}

// ResolveDuration picks the session length: a supplied duration is clamped
// to [1 min, 2 h], otherwise the type's preset applies.
func ResolveDuration(t models.FocusType, requested *time.Duration, custom time.Duration) time.Duration {
	if requested != nil {
		return models.ClampFocusDuration(*requested)
	}
	if t == models.FocusCustom {
		return models.ClampFocusDuration(custom)
	}
	return t.DefaultDuration()
}

func (e *Engine) Start(t models.FocusType, duration *time.Duration) {
	e.loop.Do(func() {
		if e.state.Active() {
			return
		}
		if !t.Valid() {
			t = models.FocusCustom
		}
		e.cancelReminder()

		e.sessionID = uuid.NewString()
		e.typ = t
		e.startTime = e.clock.Now()
		e.duration = ResolveDuration(t, duration, e.customDuration)
		e.remaining = e.duration
		e.state = StateRunning
		e.loop.StartTicker(time.Second, e.tick)
		e.scheduleCompletionNotice()

		e.log.Info("%s session started for %v", t, e.duration)
		e.emit(EventStarted, nil)
	})
}

func (e *Engine) Pause() {
	e.loop.Do(func() {
		if e.state != StateRunning {
			return
		}
		e.loop.StopTicker()
		e.cancelNotice()
		e.state = StatePaused
		e.log.Debug("paused with %v left", e.remaining)
		e.emit(EventPaused, nil)
	})
}

func (e *Engine) Resume() {
	e.loop.Do(func() {
		if e.state != StatePaused {
			return
		}
		e.state = StateRunning
		e.loop.StartTicker(time.Second, e.tick)
		e.scheduleCompletionNotice()
		e.log.Debug("resumed with %v left", e.remaining)
		e.emit(EventResumed, nil)
	})
}

// Stop ends the session early. The logged duration is the wall time since
// start, pauses included.
func (e *Engine) Stop() {
	e.loop.Do(func() {
		if !e.state.Active() {
			return
		}
		now := e.clock.Now()
		elapsed := max(0, now.Sub(e.startTime))
		e.finish(StateStopped, elapsed, now)
		e.log.Info("session stopped early after %v", elapsed)
	})
}

func (e *Engine) Snapshot() Snapshot {
	var s Snapshot
	if !e.loop.Do(func() { s = e.snapshot() }) {
		return e.final
	}
	return s
}

// History returns the sessions finalized by this engine, oldest first.
func (e *Engine) History() []models.FocusSession {
	var out []models.FocusSession
	e.loop.Do(func() { out = append(out, e.history...) })
	return out
}

// Close abandons any active session without logging it and cancels pending
// notifications.
func (e *Engine) Close() {
	e.loop.Do(func() {
		e.loop.StopTicker()
		e.cancelNotice()
		e.cancelReminder()
		e.final = e.snapshot()
	})
	e.loop.Close()
}

func (e *Engine) tick(time.Time) {
	if e.state != StateRunning {
		return
	}
	e.remaining -= time.Second
	if e.remaining <= 0 {
		e.remaining = 0
		e.finish(StateCompleted, e.duration, e.clock.Now())
		e.log.Info("%s session completed", e.typ)
		e.scheduleBreakReminder()
	}
}

func (e *Engine) finish(state State, duration time.Duration, end time.Time) {
	e.loop.StopTicker()
	if state == StateStopped {
		e.cancelNotice()
	}
	e.noticeID = ""

	session := models.FocusSession{
		ID:        e.sessionID,
		Type:      e.typ,
		StartTime: e.startTime,
		Duration:  duration,
		Completed: state == StateCompleted,
		EndTime:   &end,
	}
	e.history = append(e.history, session)
	e.lastSession = &session
	e.state = state
	if state == StateStopped {
		e.remaining = 0
	}

	kind := EventStopped
	if state == StateCompleted {
		kind = EventCompleted
	}
	s := session
	e.emit(kind, &s)
}

func (e *Engine) scheduleCompletionNotice() {
	id, err := e.notifier.ScheduleOneShot(e.remaining, notify.Notification{
		Title: "Focus Session Complete!",
		Body:  fmt.Sprintf("Great job! Your %s session is finished.", strings.ToLower(e.typ.Title())),
	})
	if err != nil {
		e.log.Warn("failed to schedule completion notice: %v", err)
		return
	}
	e.noticeID = id
}

func (e *Engine) scheduleBreakReminder() {
	if !e.breakReminders {
		return
	}
	id, err := e.notifier.ScheduleOneShot(e.breakInterval, notify.Notification{
		Title: "Time for a Break!",
		Body:  "You've been focused for a while. Consider taking a short break.",
	})
	if err != nil {
		e.log.Warn("failed to schedule break reminder: %v", err)
		return
	}
	e.reminderID = id
}

func (e *Engine) cancelNotice() {
	if e.noticeID != "" {
		e.notifier.Cancel(e.noticeID)
		e.noticeID = ""
	}
}

func (e *Engine) cancelReminder() {
	if e.reminderID != "" {
		e.notifier.Cancel(e.reminderID)
		e.reminderID = ""
	}
}

func (e *Engine) emit(kind EventKind, session *models.FocusSession) {
	if e.listener == nil {
		return
	}
	e.listener(Event{Kind: kind, Snapshot: e.snapshot(), Session: session})
}

func (e *Engine) snapshot() Snapshot {
	s := Snapshot{
		State:     e.state,
		SessionID: e.sessionID,
		Type:      e.typ,
		Duration:  e.duration,
		Remaining: e.remaining,
	}
	if e.state != StateIdle {
		start := e.startTime
		end := start.Add(e.duration)
		s.StartTime = &start
		s.PlannedEnd = &end
	}
	if e.lastSession != nil {
		last := *e.lastSession
		s.LastSession = &last
	}
	return s
}
