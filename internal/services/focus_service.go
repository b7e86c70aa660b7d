package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/errors"
	"github.com/vytor/pixelplay/internal/focus"
	"github.com/vytor/pixelplay/internal/jobs"
	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/notify"
	"github.com/vytor/pixelplay/internal/repository"
	"github.com/vytor/pixelplay/internal/stats"
)

// FocusService drives the focus timer and reports focus goals
type FocusService interface {
	// StartSession starts a session unless one is already active. A nil
	// duration uses the type's preset, or the profile's custom length for
	// custom sessions.
	StartSession(ctx context.Context, t models.FocusType, duration *time.Duration) (*focus.Snapshot, error)
	CurrentSession(ctx context.Context) (*focus.Snapshot, error)
	PauseSession(ctx context.Context) (*focus.Snapshot, error)
	ResumeSession(ctx context.Context) (*focus.Snapshot, error)
	StopSession(ctx context.Context) (*focus.Snapshot, error)
	History(ctx context.Context, limit int) ([]models.FocusSession, error)
	Summary(ctx context.Context) (models.FocusSummary, error)
	Close()
}

type focusService struct {
	profileRepo repository.ProfileRepository
	focusRepo   repository.FocusRepository
	jobQueue    jobs.JobQueue
	clock       clock.Clock
	loc         *time.Location
	notifier    notify.Notifier
	log         *logger.Logger

	mu     sync.Mutex
	engine *focus.Engine
}

// NewFocusService creates a new FocusService. Calendar days for goals and
// streaks are judged in loc.
func NewFocusService(profileRepo repository.ProfileRepository, focusRepo repository.FocusRepository, jobQueue jobs.JobQueue, clk clock.Clock, loc *time.Location, notifier notify.Notifier) FocusService {
	if clk == nil {
		clk = clock.Real()
	}
	if loc == nil {
		loc = time.Local
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &focusService{
		profileRepo: profileRepo,
		focusRepo:   focusRepo,
		jobQueue:    jobQueue,
		clock:       clk,
		loc:         loc,
		notifier:    notifier,
		log:         logger.Default().WithPrefix("focus_service"),
	}
}

func (s *focusService) StartSession(ctx context.Context, t models.FocusType, duration *time.Duration) (*focus.Snapshot, error) {
	log := logger.FromContext(ctx)

	if !t.Valid() {
		return nil, errors.NewValidationError("type", "unknown focus type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine != nil {
		if s.engine.Snapshot().State.Active() {
			return nil, errors.NewConflictError("a focus session is already in progress")
		}
		// drops any pending break reminder from the previous session
		s.engine.Close()
		s.engine = nil
	}

	profile, err := loadProfile(ctx, s.profileRepo)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	settings := profile.Settings.Normalize()

	s.engine = focus.New(
		focus.WithClock(s.clock),
		focus.WithNotifier(s.notifier),
		focus.WithBreakReminders(settings.BreakReminders, settings.BreakReminderInterval),
		focus.WithCustomDuration(settings.CustomFocusDuration),
		focus.WithListener(s.onEvent),
		focus.WithLogger(s.log),
	)
	s.engine.Start(t, duration)

	snap := s.engine.Snapshot()
	log.Info("started %s focus session %s for %v", t, snap.SessionID, snap.Duration)
	return &snap, nil
}

// CurrentSession reports an idle snapshot when no session was ever started.
func (s *focusService) CurrentSession(ctx context.Context) (*focus.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return &focus.Snapshot{State: focus.StateIdle}, nil
	}
	snap := s.engine.Snapshot()
	return &snap, nil
}

func (s *focusService) PauseSession(ctx context.Context) (*focus.Snapshot, error) {
	return s.withSession(ctx, focus.StateRunning, "pause", (*focus.Engine).Pause)
}

func (s *focusService) ResumeSession(ctx context.Context) (*focus.Snapshot, error) {
	return s.withSession(ctx, focus.StatePaused, "resume", (*focus.Engine).Resume)
}

func (s *focusService) StopSession(ctx context.Context) (*focus.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil || !s.engine.Snapshot().State.Active() {
		return nil, errors.NewConflictError("no focus session in progress")
	}
	s.engine.Stop()
	snap := s.engine.Snapshot()
	return &snap, nil
}

func (s *focusService) withSession(ctx context.Context, want focus.State, verb string, fn func(*focus.Engine)) (*focus.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := focus.StateIdle
	if s.engine != nil {
		state = s.engine.Snapshot().State
	}
	if state != want {
		logger.FromContext(ctx).Debug("cannot %s focus session in state %s", verb, state)
		return nil, errors.NewConflictError(fmt.Sprintf("cannot %s a focus session that is %s", verb, state))
	}
	fn(s.engine)
	snap := s.engine.Snapshot()
	return &snap, nil
}

func (s *focusService) History(ctx context.Context, limit int) ([]models.FocusSession, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing focus history: limit=%d", limit)

	sessions, err := s.focusRepo.History(ctx, limit)
	if err != nil {
		log.Error("failed to list focus history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return sessions, nil
}

// Summary covers recorded sessions only; a session that just ended shows up
// once its background recording finishes.
func (s *focusService) Summary(ctx context.Context) (models.FocusSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("building focus summary")

	profile, err := loadProfile(ctx, s.profileRepo)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return models.FocusSummary{}, errors.NewInternalError(err)
	}
	sessions, err := s.focusRepo.Since(ctx, time.Time{})
	if err != nil {
		log.Error("failed to load focus sessions: %v", err)
		return models.FocusSummary{}, errors.NewInternalError(err)
	}
	return stats.FocusSummary(sessions, profile.Settings, s.clock.Now(), s.loc), nil
}

// Close abandons any active session and cancels its notifications.
func (s *focusService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil {
		s.engine.Close()
		s.engine = nil
	}
}

// onEvent runs on the engine goroutine.
func (s *focusService) onEvent(ev focus.Event) {
	if ev.Session == nil {
		return
	}
	if err := s.jobQueue.EnqueueFocus(*ev.Session); err != nil {
		s.log.Error("failed to queue focus session %s for recording: %v", ev.Session.ID, err)
	}
}
