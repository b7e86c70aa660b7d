package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/repository"
	"github.com/vytor/pixelplay/internal/repository/repositorytest"
	"github.com/vytor/pixelplay/internal/repository/sqlite"
	"github.com/vytor/pixelplay/internal/testutil"
)

func TestSQLiteRepositories(t *testing.T) {
	var db *sql.DB
	suite.Run(t, &repositorytest.Suite{
		Open: func() repository.Repositories {
			db = testutil.NewTestDB(t)
			return sqlite.New(db)
		},
		Close: func() { testutil.MustClose(t, db) },
	})
}

func TestUnknownStoredValuesFallBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)
	ctx := context.Background()
	repos := sqlite.New(db)

	_, err := db.ExecContext(ctx, `INSERT INTO profiles (id, theme, sound, notifications, preferred_difficulty) VALUES (1, 'neon', 'loud', 'hourly', 'nightmare')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO achievements (type, progress) VALUES ('retired_badge', 0.5)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO game_records (id, difficulty, state, played_at) VALUES ('g1', 'legendary', 'abandoned', '2024-04-01 10:00:00+00:00')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO focus_sessions (id, type, start_time, duration_ns) VALUES ('f1', 'meditation', '2024-04-01 10:00:00+00:00', 0)`)
	require.NoError(t, err)

	p, err := repos.Profiles.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, models.ThemeDark, p.Settings.Theme)
	assert.Equal(t, models.SoundMedium, p.Settings.Sound)
	assert.Equal(t, models.NotificationsDaily, p.Settings.Notifications)
	assert.Equal(t, models.DifficultyEasy, p.Settings.PreferredDifficulty)
	assert.Len(t, p.Achievements, len(models.AchievementTypes))

	games, err := repos.Games.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, models.DifficultyEasy, games[0].Difficulty)
	assert.Equal(t, models.GameFailed, games[0].State)

	sessions, err := repos.Focus.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, models.FocusCustom, sessions[0].Type)
}
