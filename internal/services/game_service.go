package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vytor/pixelplay/internal/errors"
	"github.com/vytor/pixelplay/internal/game"
	"github.com/vytor/pixelplay/internal/jobs"
	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/repository"
)

// GameService drives the current puzzle session
type GameService interface {
	// StartGame abandons any current game and starts a new one. A nil
	// difficulty uses the profile's preferred difficulty.
	StartGame(ctx context.Context, difficulty *models.Difficulty) (*game.Snapshot, error)
	CurrentGame(ctx context.Context) (*game.Snapshot, error)
	PauseGame(ctx context.Context) (*game.Snapshot, error)
	ResumeGame(ctx context.Context) (*game.Snapshot, error)
	MakeMove(ctx context.Context, pos models.GridPosition, color models.TileColor) (*game.Snapshot, error)
	UsePowerUp(ctx context.Context, powerUp models.PowerUpType) (*game.Snapshot, error)
	// EndGame forfeits the current game.
	EndGame(ctx context.Context) (*game.Snapshot, error)
	History(ctx context.Context, limit int) ([]models.GameRecord, error)
	// Reset abandons the current game so the next one takes its streak from
	// the stored profile.
	Reset(ctx context.Context)
	Close()
}

type gameService struct {
	profileRepo repository.ProfileRepository
	gameRepo    repository.GameRepository
	jobQueue    jobs.JobQueue
	engineOpts  []game.Option
	log         *logger.Logger

	mu     sync.Mutex
	engine *game.Engine
}

// NewGameService creates a new GameService. engineOpts are applied to every
// engine it starts.
func NewGameService(profileRepo repository.ProfileRepository, gameRepo repository.GameRepository, jobQueue jobs.JobQueue, engineOpts ...game.Option) GameService {
	return &gameService{
		profileRepo: profileRepo,
		gameRepo:    gameRepo,
		jobQueue:    jobQueue,
		engineOpts:  engineOpts,
		log:         logger.Default().WithPrefix("game_service"),
	}
}

func (s *gameService) StartGame(ctx context.Context, difficulty *models.Difficulty) (*game.Snapshot, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := loadProfile(ctx, s.profileRepo)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	streak := profile.Statistics.CurrentStreak

	if s.engine != nil {
		prev := s.engine.Snapshot()
		streak = prev.CurrentStreak
		if !prev.State.Terminal() {
			log.Info("abandoning unfinished game %s", prev.ID)
		}
		s.engine.Close()
		s.engine = nil
	}

	d := profile.Settings.PreferredDifficulty
	if difficulty != nil {
		d = *difficulty
	}
	if !d.Valid() {
		return nil, errors.NewValidationError("difficulty", "unknown difficulty")
	}

	opts := append([]game.Option{game.WithLogger(s.log)}, s.engineOpts...)
	opts = append(opts, game.WithStreak(streak), game.WithListener(s.onEvent))
	s.engine = game.New(d, opts...)
	s.engine.Start()

	log.Info("started %s game %s with streak %d", d, s.engine.ID(), streak)
	snap := s.engine.Snapshot()
	return &snap, nil
}

func (s *gameService) CurrentGame(ctx context.Context) (*game.Snapshot, error) {
	return s.withGame(ctx, func(*game.Engine, game.Snapshot) error { return nil })
}

func (s *gameService) PauseGame(ctx context.Context) (*game.Snapshot, error) {
	return s.withGame(ctx, func(e *game.Engine, snap game.Snapshot) error {
		if snap.State != models.GamePlaying {
			return errors.NewConflictError(fmt.Sprintf("cannot pause a %s game", snap.State))
		}
		e.Pause()
		return nil
	})
}

func (s *gameService) ResumeGame(ctx context.Context) (*game.Snapshot, error) {
	return s.withGame(ctx, func(e *game.Engine, snap game.Snapshot) error {
		if snap.State != models.GamePaused {
			return errors.NewConflictError(fmt.Sprintf("cannot resume a %s game", snap.State))
		}
		e.Resume()
		return nil
	})
}

func (s *gameService) MakeMove(ctx context.Context, pos models.GridPosition, color models.TileColor) (*game.Snapshot, error) {
	if !color.Valid() {
		return nil, errors.NewValidationError("color", "unknown color")
	}
	return s.withGame(ctx, func(e *game.Engine, snap game.Snapshot) error {
		if snap.State != models.GamePlaying {
			return errors.NewConflictError(fmt.Sprintf("cannot move in a %s game", snap.State))
		}
		if !pos.InBounds(snap.Difficulty.GridSize()) {
			return errors.NewValidationError("position", fmt.Sprintf("(%d, %d) is outside the %dx%d grid", pos.Row, pos.Column, snap.Difficulty.GridSize(), snap.Difficulty.GridSize()))
		}
		e.MakeMove(pos, color)
		return nil
	})
}

func (s *gameService) UsePowerUp(ctx context.Context, powerUp models.PowerUpType) (*game.Snapshot, error) {
	if !powerUp.Valid() {
		return nil, errors.NewValidationError("power_up", "unknown power-up")
	}
	return s.withGame(ctx, func(e *game.Engine, snap game.Snapshot) error {
		if snap.State != models.GamePlaying {
			return errors.NewConflictError(fmt.Sprintf("cannot use power-ups in a %s game", snap.State))
		}
		if snap.PowerUps[powerUp] == 0 {
			return errors.NewConflictError(fmt.Sprintf("no %s power-ups left", powerUp.Title()))
		}
		e.UsePowerUp(powerUp)
		return nil
	})
}

func (s *gameService) EndGame(ctx context.Context) (*game.Snapshot, error) {
	return s.withGame(ctx, func(e *game.Engine, snap game.Snapshot) error {
		if snap.State != models.GamePlaying && snap.State != models.GamePaused {
			return errors.NewConflictError(fmt.Sprintf("cannot end a %s game", snap.State))
		}
		e.End(false)
		return nil
	})
}

func (s *gameService) History(ctx context.Context, limit int) ([]models.GameRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing game history: limit=%d", limit)

	records, err := s.gameRepo.History(ctx, limit)
	if err != nil {
		log.Error("failed to list game history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return records, nil
}

func (s *gameService) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return
	}
	logger.FromContext(ctx).Info("discarding game %s", s.engine.ID())
	s.engine.Close()
	s.engine = nil
}

// Close shuts down the current engine, if any.
func (s *gameService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil {
		s.engine.Close()
		s.engine = nil
	}
}

func (s *gameService) withGame(ctx context.Context, fn func(*game.Engine, game.Snapshot) error) (*game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return nil, errors.NewNotFoundError("game", "current")
	}
	if err := fn(s.engine, s.engine.Snapshot()); err != nil {
		logger.FromContext(ctx).Debug("game command rejected: %v", err)
		return nil, err
	}
	snap := s.engine.Snapshot()
	return &snap, nil
}

// onEvent runs on the engine goroutine.
func (s *gameService) onEvent(ev game.Event) {
	if ev.Kind != game.EventEnded {
		return
	}
	record := ev.Snapshot.Record()
	if err := s.jobQueue.EnqueueGame(record); err != nil {
		s.log.Error("failed to queue game %s for recording: %v", record.ID, err)
	}
}
