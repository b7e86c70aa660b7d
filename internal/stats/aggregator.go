// Package stats folds finished sessions into profile statistics and decides
// achievement unlocks.
package stats

import (
	"time"

	"github.com/vytor/pixelplay/internal/models"
)

// WeekWindow is the trailing window used for weekly goals and the weekly
// champion rule.
const WeekWindow = 7 * 24 * time.Hour

// RecordGame adds a finished game to s. Calendar days are judged in loc.
func RecordGame(s *models.GameStatistics, rec models.GameRecord, loc *time.Location) {
	s.TotalGamesPlayed++
	s.TotalTimePlayed += rec.TimeUsed()
	s.TotalHintsUsed += rec.HintsUsed
	s.TotalPowerUpsUsed += rec.PowerUpsUsed()

	if rec.Won() {
		s.TotalGamesWon++
		s.TotalScore += rec.Score
		s.TotalCompletionTime += rec.TimeUsed()
		s.BestScore = max(s.BestScore, rec.Score)
		s.CurrentStreak++
		s.LongestStreak = max(s.LongestStreak, s.CurrentStreak)
	} else {
		s.CurrentStreak = 0
	}

	recordPlayDay(s, rec.PlayedAt, loc)
}

func recordPlayDay(s *models.GameStatistics, played time.Time, loc *time.Location) {
	if s.LastPlayDate == nil {
		s.ConsecutiveDaysPlayed = 1
		s.LastPlayDate = &played
		return
	}

	switch days := CalendarDaysBetween(*s.LastPlayDate, played, loc); {
	case days < 0:
		// out-of-order record; the newer play date stands
		return
	case days == 0:
		s.ConsecutiveDaysPlayed = max(1, s.ConsecutiveDaysPlayed)
	case days == 1:
		s.ConsecutiveDaysPlayed++
	default:
		s.ConsecutiveDaysPlayed = 1
	}
	s.LastPlayDate = &played
}

// RecordFocus adds a finalized focus session, completed or not, to the
// running focus total.
func RecordFocus(s *models.GameStatistics, session models.FocusSession) {
	s.TotalFocusTime += int(session.Duration / time.Second)
}

// FocusSummary derives goal progress and streak from history. Only completed
// sessions count toward goals, the streak and the averages.
func FocusSummary(history []models.FocusSession, settings models.Settings, now time.Time, loc *time.Location) models.FocusSummary {
	settings = settings.Normalize()
	weekStart := now.Add(-WeekWindow)

	var sum models.FocusSummary
	sum.TotalSessions = len(history)
	for _, s := range history {
		if !s.Completed {
			continue
		}
		sum.CompletedSessions++
		sum.TotalFocusTime += s.Duration
		sum.LongestSession = max(sum.LongestSession, s.Duration)
		if SameDay(s.StartTime, now, loc) {
			sum.TodayFocusTime += s.Duration
		}
		if !s.StartTime.Before(weekStart) {
			sum.WeekFocusTime += s.Duration
		}
	}
	if sum.CompletedSessions > 0 {
		sum.AverageFocusTime = sum.TotalFocusTime / time.Duration(sum.CompletedSessions)
	}
	sum.DailyProgress = progress(sum.TodayFocusTime, settings.DailyFocusGoal)
	sum.WeeklyProgress = progress(sum.WeekFocusTime, settings.WeeklyFocusGoal)
	sum.FocusStreak = FocusStreak(history, now, loc)
	return sum
}

// FocusStreak counts consecutive calendar days, ending today, that contain
// at least one completed session.
func FocusStreak(history []models.FocusSession, now time.Time, loc *time.Location) int {
	days := make(map[int]bool)
	for _, s := range history {
		if s.Completed {
			days[CalendarDaysBetween(s.StartTime, now, loc)] = true
		}
	}
	streak := 0
	for days[streak] {
		streak++
	}
	return streak
}

func progress(have, goal time.Duration) float64 {
	if goal <= 0 {
		return 0
	}
	return min(1, float64(have)/float64(goal))
}
