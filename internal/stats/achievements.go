package stats

import (
	"time"

	"github.com/vytor/pixelplay/internal/models"
)

const (
	speedRunnerSeconds   = 30
	streakMasterTarget   = 10
	focusGuruSeconds     = 3600
	dailyPlayerDays      = 7
	weeklyChampionTarget = 50
)

// AchievementInput is everything the unlock rules look at. LastGame is nil
// when a focus session triggered the evaluation.
type AchievementInput struct {
	Stats            models.GameStatistics
	LastGame         *models.GameRecord
	GamesWonThisWeek int
}

// rule returns progress in [0,1], whether the achievement unlocks, and false
// in ok when the input cannot decide it.
type rule func(AchievementInput) (progress float64, unlocked, ok bool)

var rules = map[models.AchievementType]rule{
	models.AchievementFirstWin: func(in AchievementInput) (float64, bool, bool) {
		won := in.Stats.TotalGamesWon
		return ratio(won, 1), won >= 1, true
	},
	models.AchievementSpeedRunner: func(in AchievementInput) (float64, bool, bool) {
		if in.Stats.TotalGamesWon == 0 {
			return 0, false, true
		}
		avg := in.Stats.AverageCompletionTime()
		if avg <= 0 {
			return 1, true, true
		}
		return min(1, speedRunnerSeconds/avg), avg <= speedRunnerSeconds, true
	},
	models.AchievementPerfectionist: func(in AchievementInput) (float64, bool, bool) {
		if in.LastGame == nil {
			return 0, false, false
		}
		hit := in.LastGame.Won() && in.LastGame.HintsUsed == 0
		return boolProgress(hit), hit, true
	},
	models.AchievementStreakMaster: func(in AchievementInput) (float64, bool, bool) {
		n := in.Stats.LongestStreak
		return ratio(n, streakMasterTarget), n >= streakMasterTarget, true
	},
	models.AchievementPowerUpMaster: func(in AchievementInput) (float64, bool, bool) {
		if in.LastGame == nil {
			return 0, false, false
		}
		hit := true
		for _, used := range in.LastGame.PowerUpsUsedByType() {
			if used == 0 {
				hit = false
			}
		}
		return boolProgress(hit), hit, true
	},
	models.AchievementFocusGuru: func(in AchievementInput) (float64, bool, bool) {
		n := in.Stats.TotalFocusTime
		return ratio(n, focusGuruSeconds), n >= focusGuruSeconds, true
	},
	models.AchievementDailyPlayer: func(in AchievementInput) (float64, bool, bool) {
		n := in.Stats.ConsecutiveDaysPlayed
		return ratio(n, dailyPlayerDays), n >= dailyPlayerDays, true
	},
	models.AchievementWeeklyChampion: func(in AchievementInput) (float64, bool, bool) {
		n := in.GamesWonThisWeek
		return ratio(n, weeklyChampionTarget), n >= weeklyChampionTarget, true
	},
}

// EvaluateAchievements updates progress on every locked achievement and
// unlocks those whose rule now holds. Unlocked achievements are never
// touched again. It returns the newly unlocked types.
func EvaluateAchievements(achievements []models.Achievement, in AchievementInput, now time.Time) []models.AchievementType {
	var unlocked []models.AchievementType
	for i := range achievements {
		a := &achievements[i]
		if a.Unlocked() {
			continue
		}
		r, found := rules[a.Type]
		if !found {
			continue
		}
		p, hit, ok := r(in)
		if !ok {
			continue
		}
		a.Progress = p
		if hit {
			at := now
			a.UnlockedAt = &at
			a.Progress = 1
			unlocked = append(unlocked, a.Type)
		}
	}
	return unlocked
}

func ratio(n, target int) float64 {
	if n <= 0 {
		return 0
	}
	return min(1, float64(n)/float64(target))
}

func boolProgress(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
