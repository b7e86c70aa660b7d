package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/errors"
	"github.com/vytor/pixelplay/internal/game"
	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/repository"
	"github.com/vytor/pixelplay/internal/repository/memory"
	"github.com/vytor/pixelplay/internal/testutil/mocks"
)

// zeroSource makes every target tile primary.
type zeroSource struct{}

func (zeroSource) Float64() float64 { return 0 }

func newTestGameService(t *testing.T) (GameService, repository.Repositories, *mocks.MockJobQueue, *clock.Fake) {
	t.Helper()
	repos := memory.New()
	queue := &mocks.MockJobQueue{}
	fake := clock.NewFake(testNow)
	svc := NewGameService(repos.Profiles, repos.Games, queue,
		game.WithClock(fake),
		game.WithRandomSource(zeroSource{}),
		game.WithLogger(logger.Discard()),
	)
	t.Cleanup(svc.Close)
	return svc, repos, queue, fake
}

func difficulty(d models.Difficulty) *models.Difficulty { return &d }

func solve(t *testing.T, svc GameService, size int) *game.Snapshot {
	t.Helper()
	var snap *game.Snapshot
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			var err error
			snap, err = svc.MakeMove(context.Background(), models.GridPosition{Row: r, Column: c}, models.ColorPrimary)
			require.NoError(t, err)
		}
	}
	return snap
}

func appCode(err error) string { return errors.AsAppError(err).Code }

func TestCurrentGameWithoutGame(t *testing.T) {
	svc, _, _, _ := newTestGameService(t)

	_, err := svc.CurrentGame(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotFound, appCode(err))
}

func TestStartGameUsesPreferredDifficulty(t *testing.T) {
	svc, repos, _, _ := newTestGameService(t)
	ctx := context.Background()

	p := models.NewProfile()
	p.Settings.PreferredDifficulty = models.DifficultyHard
	p.Statistics.CurrentStreak = 3
	require.NoError(t, repos.Profiles.Save(ctx, *p))

	snap, err := svc.StartGame(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyHard, snap.Difficulty)
	assert.Equal(t, models.GamePlaying, snap.State)
	assert.Equal(t, 3, snap.CurrentStreak)
	assert.Equal(t, 60, snap.TimeRemaining)
}

func TestWinningGameIsQueued(t *testing.T) {
	svc, _, queue, _ := newTestGameService(t)
	queue.On("EnqueueGame", mock.MatchedBy(func(r models.GameRecord) bool {
		return r.State == models.GameCompleted && r.Score == 440 && r.MovesUsed == 16 && r.PlayedAt.Equal(testNow)
	})).Return(nil).Once()

	_, err := svc.StartGame(context.Background(), difficulty(models.DifficultyEasy))
	require.NoError(t, err)

	snap := solve(t, svc, 4)
	assert.Equal(t, models.GameCompleted, snap.State)
	assert.Equal(t, 1, snap.CurrentStreak)
	assert.Equal(t, 1.0, snap.Completion())
	queue.AssertExpectations(t)

	_, err = svc.MakeMove(context.Background(), models.GridPosition{}, models.ColorSecondary)
	assert.Equal(t, errors.ErrCodeConflict, appCode(err))
}

func TestStreakCarriesIntoNextGame(t *testing.T) {
	svc, _, queue, _ := newTestGameService(t)
	queue.On("EnqueueGame", mock.Anything).Return(nil)
	ctx := context.Background()

	_, err := svc.StartGame(ctx, difficulty(models.DifficultyEasy))
	require.NoError(t, err)
	solve(t, svc, 4)

	snap, err := svc.StartGame(ctx, difficulty(models.DifficultyEasy))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CurrentStreak)

	snap = solve(t, svc, 4)
	assert.Equal(t, 440+50, snap.Score)
	assert.Equal(t, 2, snap.CurrentStreak)
}

func TestResetStartsFromStoredStreak(t *testing.T) {
	svc, repos, queue, _ := newTestGameService(t)
	queue.On("EnqueueGame", mock.Anything).Return(nil)
	ctx := context.Background()

	_, err := svc.StartGame(ctx, difficulty(models.DifficultyEasy))
	require.NoError(t, err)
	snap := solve(t, svc, 4)
	require.Equal(t, 1, snap.CurrentStreak)

	require.NoError(t, repos.Maintenance.ClearAll(ctx))
	svc.Reset(ctx)

	_, err = svc.CurrentGame(ctx)
	assert.Equal(t, errors.ErrCodeNotFound, appCode(err))

	snap, err = svc.StartGame(ctx, difficulty(models.DifficultyEasy))
	require.NoError(t, err)
	assert.Equal(t, 0, snap.CurrentStreak)

	snap = solve(t, svc, 4)
	assert.Equal(t, 440, snap.Score)
}

func TestEndGameForfeits(t *testing.T) {
	svc, _, queue, _ := newTestGameService(t)
	queue.On("EnqueueGame", mock.MatchedBy(func(r models.GameRecord) bool {
		return r.State == models.GameFailed && r.Score == 0
	})).Return(nil).Once()
	ctx := context.Background()

	_, err := svc.StartGame(ctx, difficulty(models.DifficultyMedium))
	require.NoError(t, err)
	_, err = svc.PauseGame(ctx)
	require.NoError(t, err)

	snap, err := svc.EndGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.GameFailed, snap.State)
	assert.Equal(t, 0, snap.CurrentStreak)

	_, err = svc.EndGame(ctx)
	assert.Equal(t, errors.ErrCodeConflict, appCode(err))
	queue.AssertExpectations(t)
}

func TestGameExpiryIsQueued(t *testing.T) {
	svc, _, queue, fake := newTestGameService(t)
	queue.On("EnqueueGame", mock.MatchedBy(func(r models.GameRecord) bool {
		return r.State == models.GameFailed && r.TimeRemaining == 0
	})).Return(nil).Once()
	ctx := context.Background()

	_, err := svc.StartGame(ctx, difficulty(models.DifficultyExpert))
	require.NoError(t, err)
	fake.Advance(45 * time.Second)

	snap, err := svc.CurrentGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.GameFailed, snap.State)
	queue.AssertExpectations(t)
}

func TestPauseResumeConflicts(t *testing.T) {
	svc, _, _, fake := newTestGameService(t)
	ctx := context.Background()

	_, err := svc.StartGame(ctx, difficulty(models.DifficultyEasy))
	require.NoError(t, err)

	_, err = svc.ResumeGame(ctx)
	assert.Equal(t, errors.ErrCodeConflict, appCode(err))

	snap, err := svc.PauseGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.GamePaused, snap.State)

	_, err = svc.PauseGame(ctx)
	assert.Equal(t, errors.ErrCodeConflict, appCode(err))
	_, err = svc.MakeMove(ctx, models.GridPosition{}, models.ColorPrimary)
	assert.Equal(t, errors.ErrCodeConflict, appCode(err))

	fake.Advance(10 * time.Second)
	snap, err = svc.ResumeGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, snap.TimeRemaining)
}

func TestMakeMoveValidation(t *testing.T) {
	svc, _, _, _ := newTestGameService(t)
	ctx := context.Background()

	_, err := svc.StartGame(ctx, difficulty(models.DifficultyEasy))
	require.NoError(t, err)

	_, err = svc.MakeMove(ctx, models.GridPosition{Row: 4, Column: 0}, models.ColorPrimary)
	assert.Equal(t, errors.ErrCodeValidation, appCode(err))

	_, err = svc.MakeMove(ctx, models.GridPosition{}, models.TileColor(42))
	assert.Equal(t, errors.ErrCodeValidation, appCode(err))

	snap, err := svc.MakeMove(ctx, models.GridPosition{Row: 1, Column: 2}, models.ColorAccent)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.MovesUsed)
	assert.Equal(t, models.ColorAccent, snap.Tiles[1][2].Color)
}

func TestUsePowerUpUntilExhausted(t *testing.T) {
	svc, _, _, _ := newTestGameService(t)
	ctx := context.Background()

	_, err := svc.StartGame(ctx, difficulty(models.DifficultyExpert))
	require.NoError(t, err)

	snap, err := svc.UsePowerUp(ctx, models.PowerUpTimeBoost)
	require.NoError(t, err)
	assert.Equal(t, 45+game.TimeBoostSeconds, snap.TimeRemaining)
	assert.Equal(t, 0, snap.PowerUps[models.PowerUpTimeBoost])

	_, err = svc.UsePowerUp(ctx, models.PowerUpTimeBoost)
	assert.Equal(t, errors.ErrCodeConflict, appCode(err))

	_, err = svc.UsePowerUp(ctx, models.PowerUpType(9))
	assert.Equal(t, errors.ErrCodeValidation, appCode(err))
}

func TestGameHistory(t *testing.T) {
	svc, repos, _, _ := newTestGameService(t)
	ctx := context.Background()
	require.NoError(t, repos.Games.Insert(ctx, models.GameRecord{ID: "g1", State: models.GameCompleted, PlayedAt: testNow}))

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "g1", history[0].ID)
}
