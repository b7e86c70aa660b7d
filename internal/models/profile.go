package models

import (
	"strings"
	"time"
)

type Theme string

const (
	ThemeDark     Theme = "dark"
	ThemeColorful Theme = "colorful"
	ThemeMinimal  Theme = "minimal"
)

// ThemeOrDefault maps unknown stored values to the dark theme.
func ThemeOrDefault(s string) Theme {
	switch t := Theme(strings.ToLower(s)); t {
	case ThemeDark, ThemeColorful, ThemeMinimal:
		return t
	}
	return ThemeDark
}

type SoundSetting string

const (
	SoundOff    SoundSetting = "off"
	SoundLow    SoundSetting = "low"
	SoundMedium SoundSetting = "medium"
	SoundHigh   SoundSetting = "high"
)

func SoundOrDefault(s string) SoundSetting {
	switch v := SoundSetting(strings.ToLower(s)); v {
	case SoundOff, SoundLow, SoundMedium, SoundHigh:
		return v
	}
	return SoundMedium
}

func (s SoundSetting) Volume() float64 {
	switch s {
	case SoundOff:
		return 0
	case SoundLow:
		return 0.3
	case SoundHigh:
		return 1
	default:
		return 0.6
	}
}

type NotificationSetting string

const (
	NotificationsOff    NotificationSetting = "off"
	NotificationsDaily  NotificationSetting = "daily"
	NotificationsWeekly NotificationSetting = "weekly"
)

func NotificationOrDefault(s string) NotificationSetting {
	switch v := NotificationSetting(strings.ToLower(s)); v {
	case NotificationsOff, NotificationsDaily, NotificationsWeekly:
		return v
	}
	return NotificationsDaily
}

const (
	DefaultDailyFocusGoal        = 1800 * time.Second
	DefaultWeeklyFocusGoal       = 7200 * time.Second
	DefaultBreakReminderInterval = 1800 * time.Second
	DefaultCustomFocusDuration   = 600 * time.Second
)

// Settings are the user preferences stored with the profile.
type Settings struct {
	Username              string              `json:"username"`
	Theme                 Theme               `json:"theme"`
	Sound                 SoundSetting        `json:"sound"`
	Notifications         NotificationSetting `json:"notifications"`
	PreferredDifficulty   Difficulty          `json:"preferred_difficulty"`
	Haptics               bool                `json:"haptics"`
	Animations            bool                `json:"animations"`
	AutoSave              bool                `json:"auto_save"`
	CompletedOnboarding   bool                `json:"completed_onboarding"`
	DailyFocusGoal        time.Duration       `json:"daily_focus_goal"`
	WeeklyFocusGoal       time.Duration       `json:"weekly_focus_goal"`
	BreakReminders        bool                `json:"break_reminders"`
	BreakReminderInterval time.Duration       `json:"break_reminder_interval"`
	CustomFocusDuration   time.Duration       `json:"custom_focus_duration"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:                 ThemeDark,
		Sound:                 SoundMedium,
		Notifications:         NotificationsDaily,
		PreferredDifficulty:   DifficultyEasy,
		Haptics:               true,
		Animations:            true,
		AutoSave:              true,
		DailyFocusGoal:        DefaultDailyFocusGoal,
		WeeklyFocusGoal:       DefaultWeeklyFocusGoal,
		BreakReminders:        true,
		BreakReminderInterval: DefaultBreakReminderInterval,
		CustomFocusDuration:   DefaultCustomFocusDuration,
	}
}

// Normalize clamps goal and duration settings into their allowed ranges and
// replaces unknown enum values with defaults.
func (s Settings) Normalize() Settings {
	s.Theme = ThemeOrDefault(string(s.Theme))
	s.Sound = SoundOrDefault(string(s.Sound))
	s.Notifications = NotificationOrDefault(string(s.Notifications))
	if !s.PreferredDifficulty.Valid() {
		s.PreferredDifficulty = DifficultyEasy
	}
	s.DailyFocusGoal = clampDuration(s.DailyFocusGoal, 300*time.Second, 14400*time.Second)
	s.WeeklyFocusGoal = clampDuration(s.WeeklyFocusGoal, 1800*time.Second, 50400*time.Second)
	s.CustomFocusDuration = ClampFocusDuration(s.CustomFocusDuration)
	if s.BreakReminderInterval <= 0 {
		s.BreakReminderInterval = DefaultBreakReminderInterval
	}
	return s
}

// Profile is the single persisted user record.
type Profile struct {
	Settings     Settings       `json:"settings"`
	Statistics   GameStatistics `json:"statistics"`
	Achievements []Achievement  `json:"achievements"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func NewProfile() *Profile {
	return &Profile{
		Settings:     DefaultSettings(),
		Achievements: NewAchievements(),
	}
}

// EnsureAchievements adds any achievement type missing from the profile,
// e.g. after loading a store written by an older version.
func (p *Profile) EnsureAchievements() {
	have := make(map[AchievementType]bool, len(p.Achievements))
	for _, a := range p.Achievements {
		have[a.Type] = true
	}
	for _, t := range AchievementTypes {
		if !have[t] {
			p.Achievements = append(p.Achievements, Achievement{Type: t})
		}
	}
}

func (p *Profile) UnlockedAchievements() []Achievement {
	var out []Achievement
	for _, a := range p.Achievements {
		if a.Unlocked() {
			out = append(out, a)
		}
	}
	return out
}

func (p *Profile) AchievementPoints() int {
	total := 0
	for _, a := range p.UnlockedAchievements() {
		total += a.Type.Points()
	}
	return total
}
