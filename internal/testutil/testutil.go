package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vytor/pixelplay/internal/db"
	"github.com/vytor/pixelplay/internal/models"
)

// NewTestDB opens a private in-memory SQLite database with all migrations
// applied.
func NewTestDB(t *testing.T) *sql.DB {
	d, err := db.Open("file::memory:")
	require.NoError(t, err)
	return d.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// WonGame builds a completed easy game played at t.
func WonGame(id string, t time.Time, score int) models.GameRecord {
	return models.GameRecord{
		ID:                id,
		Difficulty:        models.DifficultyEasy,
		State:             models.GameCompleted,
		Score:             score,
		TimeRemaining:     90,
		MovesUsed:         16,
		PowerUpsRemaining: models.DifficultyEasy.PowerUpAllowance(),
		CurrentStreak:     1,
		PlayedAt:          t,
	}
}

// LostGame builds a failed easy game played at t.
func LostGame(id string, t time.Time) models.GameRecord {
	return models.GameRecord{
		ID:                id,
		Difficulty:        models.DifficultyEasy,
		State:             models.GameFailed,
		MovesUsed:         4,
		PowerUpsRemaining: models.DifficultyEasy.PowerUpAllowance(),
		PlayedAt:          t,
	}
}

// FocusSession builds a finalized focus session starting at t.
func FocusSession(id string, t time.Time, d time.Duration, completed bool) models.FocusSession {
	end := t.Add(d)
	return models.FocusSession{
		ID:        id,
		Type:      models.FocusCustom,
		StartTime: t,
		Duration:  d,
		Completed: completed,
		EndTime:   &end,
	}
}
