package models

import "time"

// GameStatistics aggregates every finished game and focus session.
// Ratios are methods so they always follow the counters.
type GameStatistics struct {
	TotalGamesPlayed      int        `json:"total_games_played"`
	TotalGamesWon         int        `json:"total_games_won"`
	TotalTimePlayed       int        `json:"total_time_played"`
	BestScore             int        `json:"best_score"`
	TotalScore            int        `json:"total_score"`
	CurrentStreak         int        `json:"current_streak"`
	LongestStreak         int        `json:"longest_streak"`
	TotalCompletionTime   int        `json:"total_completion_time"`
	TotalHintsUsed        int        `json:"total_hints_used"`
	TotalPowerUpsUsed     int        `json:"total_power_ups_used"`
	TotalFocusTime        int        `json:"total_focus_time"`
	ConsecutiveDaysPlayed int        `json:"consecutive_days_played"`
	LastPlayDate          *time.Time `json:"last_play_date"`
}

func (s GameStatistics) WinRate() float64 {
	if s.TotalGamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalGamesWon) / float64(s.TotalGamesPlayed)
}

// AverageScore is the mean score of won games; lost games score nothing.
func (s GameStatistics) AverageScore() float64 {
	if s.TotalGamesWon == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.TotalGamesWon)
}

// AverageCompletionTime is the mean number of seconds a won game took.
func (s GameStatistics) AverageCompletionTime() float64 {
	if s.TotalGamesWon == 0 {
		return 0
	}
	return float64(s.TotalCompletionTime) / float64(s.TotalGamesWon)
}

// StatisticsView is GameStatistics plus its derived ratios, for responses.
type StatisticsView struct {
	GameStatistics
	WinRate               float64 `json:"win_rate"`
	AverageScore          float64 `json:"average_score"`
	AverageCompletionTime float64 `json:"average_completion_time"`
}

func (s GameStatistics) View() StatisticsView {
	return StatisticsView{
		GameStatistics:        s,
		WinRate:               s.WinRate(),
		AverageScore:          s.AverageScore(),
		AverageCompletionTime: s.AverageCompletionTime(),
	}
}
