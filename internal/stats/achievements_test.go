package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/pixelplay/internal/models"
)

func find(achs []models.Achievement, typ models.AchievementType) models.Achievement {
	for _, a := range achs {
		if a.Type == typ {
			return a
		}
	}
	return models.Achievement{}
}

func TestStreakMasterUnlocksAtTenAndStays(t *testing.T) {
	achs := models.NewAchievements()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	unlocked := EvaluateAchievements(achs, AchievementInput{Stats: models.GameStatistics{LongestStreak: 9}}, now)
	assert.NotContains(t, unlocked, models.AchievementStreakMaster)
	assert.InDelta(t, 0.9, find(achs, models.AchievementStreakMaster).Progress, 1e-9)

	unlocked = EvaluateAchievements(achs, AchievementInput{Stats: models.GameStatistics{LongestStreak: 10}}, now)
	assert.Contains(t, unlocked, models.AchievementStreakMaster)
	sm := find(achs, models.AchievementStreakMaster)
	require.NotNil(t, sm.UnlockedAt)
	assert.Equal(t, now, *sm.UnlockedAt)

	later := now.Add(time.Hour)
	unlocked = EvaluateAchievements(achs, AchievementInput{Stats: models.GameStatistics{LongestStreak: 3}}, later)
	assert.NotContains(t, unlocked, models.AchievementStreakMaster)
	sm = find(achs, models.AchievementStreakMaster)
	require.NotNil(t, sm.UnlockedAt)
	assert.Equal(t, now, *sm.UnlockedAt)
	assert.Equal(t, 1.0, sm.Progress)
}

func TestAggregateRules(t *testing.T) {
	now := time.Now()
	achs := models.NewAchievements()
	in := AchievementInput{Stats: models.GameStatistics{
		TotalGamesPlayed:      3,
		TotalGamesWon:         2,
		TotalCompletionTime:   50,
		TotalFocusTime:        3600,
		ConsecutiveDaysPlayed: 7,
	}}

	unlocked := EvaluateAchievements(achs, in, now)
	assert.ElementsMatch(t, []models.AchievementType{
		models.AchievementFirstWin,
		models.AchievementSpeedRunner,
		models.AchievementFocusGuru,
		models.AchievementDailyPlayer,
	}, unlocked)
}

func TestSpeedRunnerProgress(t *testing.T) {
	achs := models.NewAchievements()
	EvaluateAchievements(achs, AchievementInput{Stats: models.GameStatistics{TotalGamesWon: 1, TotalCompletionTime: 60}}, time.Now())
	sr := find(achs, models.AchievementSpeedRunner)
	assert.Nil(t, sr.UnlockedAt)
	assert.InDelta(t, 0.5, sr.Progress, 1e-9)

	achs = models.NewAchievements()
	EvaluateAchievements(achs, AchievementInput{Stats: models.GameStatistics{TotalGamesPlayed: 4}}, time.Now())
	assert.Nil(t, find(achs, models.AchievementSpeedRunner).UnlockedAt)
}

func TestPerSessionRules(t *testing.T) {
	allUsed := models.GameRecord{
		Difficulty:        models.DifficultyEasy,
		State:             models.GameCompleted,
		HintsUsed:         1,
		PowerUpsRemaining: models.PowerUpCounts{2, 4, 1, 0},
	}
	achs := models.NewAchievements()
	unlocked := EvaluateAchievements(achs, AchievementInput{LastGame: &allUsed}, time.Now())
	assert.Contains(t, unlocked, models.AchievementPowerUpMaster)
	assert.NotContains(t, unlocked, models.AchievementPerfectionist)

	clean := models.GameRecord{
		Difficulty:        models.DifficultyHard,
		State:             models.GameCompleted,
		PowerUpsRemaining: models.DifficultyHard.PowerUpAllowance(),
	}
	unlocked = EvaluateAchievements(achs, AchievementInput{LastGame: &clean}, time.Now())
	assert.Contains(t, unlocked, models.AchievementPerfectionist)

	failed := models.GameRecord{Difficulty: models.DifficultyEasy, State: models.GameFailed}
	fresh := models.NewAchievements()
	unlocked = EvaluateAchievements(fresh, AchievementInput{LastGame: &failed}, time.Now())
	assert.NotContains(t, unlocked, models.AchievementPerfectionist)
}

func TestPerSessionRulesSkippedWithoutGame(t *testing.T) {
	achs := models.NewAchievements()
	for i := range achs {
		achs[i].Progress = 0.25
	}
	EvaluateAchievements(achs, AchievementInput{}, time.Now())
	assert.Equal(t, 0.25, find(achs, models.AchievementPerfectionist).Progress)
	assert.Equal(t, 0.25, find(achs, models.AchievementPowerUpMaster).Progress)
	assert.Equal(t, 0.0, find(achs, models.AchievementFirstWin).Progress)
}

func TestWeeklyChampion(t *testing.T) {
	achs := models.NewAchievements()
	EvaluateAchievements(achs, AchievementInput{GamesWonThisWeek: 25}, time.Now())
	wc := find(achs, models.AchievementWeeklyChampion)
	assert.InDelta(t, 0.5, wc.Progress, 1e-9)
	assert.Nil(t, wc.UnlockedAt)

	unlocked := EvaluateAchievements(achs, AchievementInput{GamesWonThisWeek: 50}, time.Now())
	assert.Equal(t, []models.AchievementType{models.AchievementWeeklyChampion}, unlocked)
}
