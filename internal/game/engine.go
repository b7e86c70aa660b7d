// Package game implements the grid-matching puzzle: pattern generation, the
// play grid, power-ups, scoring and the timed session engine.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/worker"
)

type EventKind int

const (
	EventStarted EventKind = iota
	EventPaused
	EventResumed
	EventMoved
	EventPowerUpUsed
	EventEnded
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventMoved:
		return "moved"
	case EventPowerUpUsed:
		return "power_up_used"
	case EventEnded:
		return "ended"
	}
	return "unknown"
}

// Event is emitted after every change made by a command or by the countdown
// ending the game.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
}

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	ID            string               `json:"id"`
	Difficulty    models.Difficulty    `json:"difficulty"`
	State         models.GameState     `json:"state"`
	Pattern       models.Pattern       `json:"pattern"`
	Tiles         [][]models.Tile      `json:"tiles"`
	Score         int                  `json:"score"`
	TimeRemaining int                  `json:"time_remaining"`
	MovesUsed     int                  `json:"moves_used"`
	HintsUsed     int                  `json:"hints_used"`
	PerfectMoves  int                  `json:"perfect_moves"`
	CurrentStreak int                  `json:"current_streak"`
	PowerUps      models.PowerUpCounts `json:"power_ups"`
	StartedAt     *time.Time           `json:"started_at"`
	EndedAt       *time.Time           `json:"ended_at"`
}

// Completion is the fraction of tiles that match the target.
func (s Snapshot) Completion() float64 {
	total, correct := 0, 0
	for _, row := range s.Tiles {
		for _, t := range row {
			total++
			if s.IsTileCorrect(t.Position) {
				correct++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

func (s Snapshot) IsTileCorrect(pos models.GridPosition) bool {
	if !pos.InBounds(len(s.Tiles)) || !pos.InBounds(len(s.Pattern.Target)) {
		return false
	}
	return s.Tiles[pos.Row][pos.Column].Color == s.Pattern.At(pos)
}

// FormattedTime renders the countdown as m:ss.
func (s Snapshot) FormattedTime() string {
	t := max(0, s.TimeRemaining)
	return fmt.Sprintf("%d:%02d", t/60, t%60)
}

// Record converts a finished session into its persisted form.
func (s Snapshot) Record() models.GameRecord {
	playedAt := time.Time{}
	switch {
	case s.EndedAt != nil:
		playedAt = *s.EndedAt
	case s.StartedAt != nil:
		playedAt = *s.StartedAt
	}
	return models.GameRecord{
		ID:                s.ID,
		Difficulty:        s.Difficulty,
		State:             s.State,
		Score:             s.Score,
		TimeRemaining:     s.TimeRemaining,
		MovesUsed:         s.MovesUsed,
		HintsUsed:         s.HintsUsed,
		PowerUpsRemaining: s.PowerUps,
		CurrentStreak:     s.CurrentStreak,
		PlayedAt:          playedAt,
	}
}

type Option func(*Engine)

func WithClock(c clock.Clock) Option { return func(e *Engine) { e.clock = c } }

func WithRandomSource(src RandomSource) Option { return func(e *Engine) { e.random = src } }

// WithStreak seeds the win streak carried over from the profile.
func WithStreak(n int) Option { return func(e *Engine) { e.streak = max(0, n) } }

// WithListener registers fn for every Event. It runs on the engine goroutine
// and must not call back into the engine.
func WithListener(fn func(Event)) Option { return func(e *Engine) { e.listener = fn } }

func WithLogger(l *logger.Logger) Option { return func(e *Engine) { e.log = l } }

// Engine runs one puzzle session. All state lives on its loop goroutine;
// calls made in the wrong state are ignored.
type Engine struct {
	clock    clock.Clock
	random   RandomSource
	listener func(Event)
	log      *logger.Logger
	loop     *worker.Loop

	id            string
	difficulty    models.Difficulty
	pattern       models.Pattern
	grid          *Grid
	bank          PowerUpBank
	state         models.GameState
	score         int
	timeRemaining int
	movesUsed     int
	hintsUsed     int
	perfectMoves  int
	streak        int
	startedAt     *time.Time
	endedAt       *time.Time

	final Snapshot
}

func New(d models.Difficulty, opts ...Option) *Engine {
	if !d.Valid() {
		d = models.DifficultyEasy
	}
	e := &Engine{
		clock:      clock.Real(),
		random:     DefaultSource(),
		log:        logger.Default(),
		id:         uuid.NewString(),
		difficulty: d,
		state:      models.GameNotStarted,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithPrefix("game").WithField("game_id", e.id)
	e.pattern = Generate(d, e.random)
	e.grid = NewGrid(d.GridSize())
	e.bank = NewPowerUpBank(d)
	e.timeRemaining = d.TimeLimit()
	e.loop = worker.NewLoop(e.clock, e.log)
	return e
}

func (e *Engine) ID() string { return e.id }

func (e *Engine) Start() {
	e.loop.Do(func() {
		if e.state != models.GameNotStarted {
			return
		}
		now := e.clock.Now()
		e.startedAt = &now
		e.state = models.GamePlaying
		e.loop.StartTicker(time.Second, e.tick)
		e.log.Info("game started on %s with %ds", e.difficulty, e.timeRemaining)
		e.emit(EventStarted)
	})
}

func (e *Engine) Pause() {
	e.loop.Do(func() {
		if e.state != models.GamePlaying {
			return
		}
		e.loop.StopTicker()
		e.state = models.GamePaused
		e.log.Debug("game paused with %ds left", e.timeRemaining)
		e.emit(EventPaused)
	})
}

func (e *Engine) Resume() {
	e.loop.Do(func() {
		if e.state != models.GamePaused {
			return
		}
		e.state = models.GamePlaying
		e.loop.StartTicker(time.Second, e.tick)
		e.log.Debug("game resumed with %ds left", e.timeRemaining)
		e.emit(EventResumed)
	})
}

// MakeMove paints pos with color. Every accepted move counts, even when the
// color does not change.
func (e *Engine) MakeMove(pos models.GridPosition, color models.TileColor) {
	e.loop.Do(func() {
		if e.state != models.GamePlaying || !color.Valid() {
			return
		}
		if !e.grid.Set(pos, color) {
			return
		}
		e.movesUsed++
		if color == e.pattern.At(pos) {
			e.perfectMoves++
		}
		e.emit(EventMoved)
		if e.grid.Matches(e.pattern) {
			e.end(true)
		}
	})
}

// Select highlights a tile without counting a move.
func (e *Engine) Select(pos models.GridPosition) {
	e.loop.Do(func() {
		if e.state != models.GamePlaying {
			return
		}
		e.grid.Select(pos)
	})
}

func (e *Engine) UsePowerUp(t models.PowerUpType) {
	e.loop.Do(func() {
		if e.state != models.GamePlaying {
			return
		}
		if !e.bank.Use(t, sessionEffects{e}) {
			return
		}
		e.log.Debug("used %s, %d left", t, e.bank.Remaining(t))
		e.emit(EventPowerUpUsed)
	})
}

// End finishes a running or paused session.
func (e *Engine) End(success bool) {
	e.loop.Do(func() {
		if e.state != models.GamePlaying && e.state != models.GamePaused {
			return
		}
		e.end(success)
	})
}

func (e *Engine) Snapshot() Snapshot {
	var s Snapshot
	if !e.loop.Do(func() { s = e.snapshot() }) {
		return e.final
	}
	return s
}

// Close stops the countdown and the engine goroutine. Snapshot keeps
// returning the last state afterwards; every other call is ignored.
func (e *Engine) Close() {
	e.loop.Do(func() {
		e.loop.StopTicker()
		e.final = e.snapshot()
	})
	e.loop.Close()
}

func (e *Engine) tick(time.Time) {
	if e.state != models.GamePlaying {
		return
	}
	e.timeRemaining--
	if e.timeRemaining <= 0 {
		e.timeRemaining = 0
		e.log.Info("time expired")
		e.end(false)
	}
}

func (e *Engine) end(success bool) {
	e.loop.StopTicker()
	now := e.clock.Now()
	e.endedAt = &now

	if success {
		e.score = Score(ScoreInput{
			GridSize:      e.difficulty.GridSize(),
			TimeRemaining: e.timeRemaining,
			MaxMoves:      e.pattern.MaxMoves,
			MovesUsed:     e.movesUsed,
			HintsUsed:     e.hintsUsed,
			Streak:        e.streak,
		})
		e.streak++
		e.state = models.GameCompleted
		e.log.Info("pattern complete: score %d, streak %d", e.score, e.streak)
	} else {
		e.streak = 0
		e.state = models.GameFailed
		e.log.Info("game failed after %d moves", e.movesUsed)
	}
	e.emit(EventEnded)
}

func (e *Engine) emit(kind EventKind) {
	if e.listener == nil {
		return
	}
	e.listener(Event{Kind: kind, Snapshot: e.snapshot()})
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{
		ID:            e.id,
		Difficulty:    e.difficulty,
		State:         e.state,
		Pattern:       e.pattern.Clone(),
		Tiles:         e.grid.Tiles(),
		Score:         e.score,
		TimeRemaining: e.timeRemaining,
		MovesUsed:     e.movesUsed,
		HintsUsed:     e.hintsUsed,
		PerfectMoves:  e.perfectMoves,
		CurrentStreak: e.streak,
		PowerUps:      e.bank.Counts(),
		StartedAt:     copyTime(e.startedAt),
		EndedAt:       copyTime(e.endedAt),
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// sessionEffects applies power-up effects to the engine state.
type sessionEffects struct{ e *Engine }

func (fx sessionEffects) AddTime(seconds int) { fx.e.timeRemaining += seconds }

func (fx sessionEffects) RevealHint() {
	fx.e.hintsUsed++
	if pos, ok := fx.e.grid.RevealHint(fx.e.pattern); ok {
		fx.e.log.Debug("hint revealed at %d,%d", pos.Row, pos.Column)
	}
}

// HighlightMatches has no effect on session state; the highlight is drawn by
// the client.
func (fx sessionEffects) HighlightMatches() {}

func (fx sessionEffects) ClearIncorrect() {
	n := fx.e.grid.ClearIncorrect(fx.e.pattern)
	fx.e.log.Debug("cleared %d tiles", n)
}
