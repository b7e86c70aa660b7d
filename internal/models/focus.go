package models

import (
	"fmt"
	"strings"
	"time"
)

type FocusType int

const (
	FocusShortBreak FocusType = iota
	FocusLongBreak
	FocusGameSession
	FocusCustom
)

const (
	MinCustomFocusDuration = 60 * time.Second
	MaxCustomFocusDuration = 7200 * time.Second
)

var focusTypeSpecs = [...]struct {
	key, title string
	preset     time.Duration
}{
	FocusShortBreak:  {"short_break", "Short Break", 300 * time.Second},
	FocusLongBreak:   {"long_break", "Long Break", 900 * time.Second},
	FocusGameSession: {"game_session", "Game Session", 1200 * time.Second},
	FocusCustom:      {"custom", "Custom", 600 * time.Second},
}

func (t FocusType) Valid() bool { return t >= FocusShortBreak && t <= FocusCustom }

func (t FocusType) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return focusTypeSpecs[t].key
}

func (t FocusType) Title() string {
	if !t.Valid() {
		return ""
	}
	return focusTypeSpecs[t].title
}

// DefaultDuration is the preset length used when the caller supplies none.
func (t FocusType) DefaultDuration() time.Duration {
	if !t.Valid() {
		return focusTypeSpecs[FocusCustom].preset
	}
	return focusTypeSpecs[t].preset
}

func ParseFocusType(s string) (FocusType, error) {
	for i, spec := range focusTypeSpecs {
		if strings.EqualFold(s, spec.key) || strings.EqualFold(s, spec.title) {
			return FocusType(i), nil
		}
	}
	return FocusCustom, fmt.Errorf("unknown focus type %q", s)
}

// FocusTypeOrDefault maps unreadable stored values to custom.
func FocusTypeOrDefault(s string) FocusType {
	t, _ := ParseFocusType(s)
	return t
}

func (t FocusType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *FocusType) UnmarshalText(b []byte) error {
	v, err := ParseFocusType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ClampFocusDuration bounds a caller-supplied duration to [1 min, 2 h].
func ClampFocusDuration(d time.Duration) time.Duration {
	return clampDuration(d, MinCustomFocusDuration, MaxCustomFocusDuration)
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

// FocusSession is a finalized focus interval. Once appended to history it
// is never modified.
type FocusSession struct {
	ID        string        `json:"id"`
	Type      FocusType     `json:"type"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Completed bool          `json:"completed"`
	EndTime   *time.Time    `json:"end_time"`
}

// FocusSummary holds the goal and streak figures derived from focus history.
type FocusSummary struct {
	TodayFocusTime    time.Duration `json:"today_focus_time"`
	WeekFocusTime     time.Duration `json:"week_focus_time"`
	DailyProgress     float64       `json:"daily_progress"`
	WeeklyProgress    float64       `json:"weekly_progress"`
	FocusStreak       int           `json:"focus_streak"`
	TotalSessions     int           `json:"total_sessions"`
	CompletedSessions int           `json:"completed_sessions"`
	TotalFocusTime    time.Duration `json:"total_focus_time"`
	AverageFocusTime  time.Duration `json:"average_focus_time"`
	LongestSession    time.Duration `json:"longest_session"`
}
