package models

import (
	"fmt"
	"time"
)

type AchievementType int

const (
	AchievementFirstWin AchievementType = iota
	AchievementSpeedRunner
	AchievementPerfectionist
	AchievementStreakMaster
	AchievementPowerUpMaster
	AchievementFocusGuru
	AchievementDailyPlayer
	AchievementWeeklyChampion

	achievementTypeCount
)

// AchievementTypes lists every achievement in display order.
var AchievementTypes = []AchievementType{
	AchievementFirstWin,
	AchievementSpeedRunner,
	AchievementPerfectionist,
	AchievementStreakMaster,
	AchievementPowerUpMaster,
	AchievementFocusGuru,
	AchievementDailyPlayer,
	AchievementWeeklyChampion,
}

var achievementSpecs = [achievementTypeCount]struct {
	key, title, description string
	points                  int
}{
	AchievementFirstWin:       {"first_win", "First Victory", "Complete your first game", 100},
	AchievementSpeedRunner:    {"speed_runner", "Speed Runner", "Complete a game in under 30 seconds", 250},
	AchievementPerfectionist:  {"perfectionist", "Perfectionist", "Complete a game without using hints", 300},
	AchievementStreakMaster:   {"streak_master", "Streak Master", "Win 10 games in a row", 500},
	AchievementPowerUpMaster:  {"power_up_master", "Power-Up Master", "Use all power-ups in a single game", 200},
	AchievementFocusGuru:      {"focus_guru", "Focus Guru", "Use Focus Time for 1 hour total", 400},
	AchievementDailyPlayer:    {"daily_player", "Daily Player", "Play for 7 consecutive days", 350},
	AchievementWeeklyChampion: {"weekly_champion", "Weekly Champion", "Complete 50 games in a week", 750},
}

func (t AchievementType) Valid() bool { return t >= 0 && t < achievementTypeCount }

func (t AchievementType) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return achievementSpecs[t].key
}

func (t AchievementType) Title() string {
	if !t.Valid() {
		return ""
	}
	return achievementSpecs[t].title
}

func (t AchievementType) Description() string {
	if !t.Valid() {
		return ""
	}
	return achievementSpecs[t].description
}

func (t AchievementType) Points() int {
	if !t.Valid() {
		return 0
	}
	return achievementSpecs[t].points
}

func ParseAchievementType(s string) (AchievementType, error) {
	for i, spec := range achievementSpecs {
		if s == spec.key {
			return AchievementType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown achievement %q", s)
}

func (t AchievementType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *AchievementType) UnmarshalText(b []byte) error {
	v, err := ParseAchievementType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Achievement tracks progress toward one AchievementType. UnlockedAt is set
// once and never cleared.
type Achievement struct {
	Type       AchievementType `json:"type"`
	UnlockedAt *time.Time      `json:"unlocked_at"`
	Progress   float64         `json:"progress"`
}

func (a Achievement) Unlocked() bool { return a.UnlockedAt != nil }

// NewAchievements returns one locked achievement per type.
func NewAchievements() []Achievement {
	out := make([]Achievement, len(AchievementTypes))
	for i, t := range AchievementTypes {
		out[i] = Achievement{Type: t}
	}
	return out
}
