package api

import (
	"net/http"
	"time"

	"github.com/vytor/pixelplay/internal/models"
)

type settingsResponse struct {
	Username                     string                     `json:"username"`
	Theme                        models.Theme               `json:"theme"`
	Sound                        models.SoundSetting        `json:"sound"`
	Notifications                models.NotificationSetting `json:"notifications"`
	PreferredDifficulty          models.Difficulty          `json:"preferred_difficulty"`
	Haptics                      bool                       `json:"haptics"`
	Animations                   bool                       `json:"animations"`
	AutoSave                     bool                       `json:"auto_save"`
	CompletedOnboarding          bool                       `json:"completed_onboarding"`
	DailyFocusGoalSeconds        int                        `json:"daily_focus_goal_seconds"`
	WeeklyFocusGoalSeconds       int                        `json:"weekly_focus_goal_seconds"`
	BreakReminders               bool                       `json:"break_reminders"`
	BreakReminderIntervalSeconds int                        `json:"break_reminder_interval_seconds"`
	CustomFocusDurationSeconds   int                        `json:"custom_focus_duration_seconds"`
}

func newSettingsResponse(s models.Settings) settingsResponse {
	return settingsResponse{
		Username:                     s.Username,
		Theme:                        s.Theme,
		Sound:                        s.Sound,
		Notifications:                s.Notifications,
		PreferredDifficulty:          s.PreferredDifficulty,
		Haptics:                      s.Haptics,
		Animations:                   s.Animations,
		AutoSave:                     s.AutoSave,
		CompletedOnboarding:          s.CompletedOnboarding,
		DailyFocusGoalSeconds:        secs(s.DailyFocusGoal),
		WeeklyFocusGoalSeconds:       secs(s.WeeklyFocusGoal),
		BreakReminders:               s.BreakReminders,
		BreakReminderIntervalSeconds: secs(s.BreakReminderInterval),
		CustomFocusDurationSeconds:   secs(s.CustomFocusDuration),
	}
}

// settingsRequest is a partial update; omitted fields keep their value.
type settingsRequest struct {
	Username                     *string                     `json:"username"`
	Theme                        *models.Theme               `json:"theme"`
	Sound                        *models.SoundSetting        `json:"sound"`
	Notifications                *models.NotificationSetting `json:"notifications"`
	PreferredDifficulty          *models.Difficulty          `json:"preferred_difficulty"`
	Haptics                      *bool                       `json:"haptics"`
	Animations                   *bool                       `json:"animations"`
	AutoSave                     *bool                       `json:"auto_save"`
	CompletedOnboarding          *bool                       `json:"completed_onboarding"`
	DailyFocusGoalSeconds        *int                        `json:"daily_focus_goal_seconds"`
	WeeklyFocusGoalSeconds       *int                        `json:"weekly_focus_goal_seconds"`
	BreakReminders               *bool                       `json:"break_reminders"`
	BreakReminderIntervalSeconds *int                        `json:"break_reminder_interval_seconds"`
	CustomFocusDurationSeconds   *int                        `json:"custom_focus_duration_seconds"`
}

func (req settingsRequest) apply(s models.Settings) models.Settings {
	set(&s.Username, req.Username)
	set(&s.Theme, req.Theme)
	set(&s.Sound, req.Sound)
	set(&s.Notifications, req.Notifications)
	set(&s.PreferredDifficulty, req.PreferredDifficulty)
	set(&s.Haptics, req.Haptics)
	set(&s.Animations, req.Animations)
	set(&s.AutoSave, req.AutoSave)
	set(&s.CompletedOnboarding, req.CompletedOnboarding)
	set(&s.BreakReminders, req.BreakReminders)
	setSeconds(&s.DailyFocusGoal, req.DailyFocusGoalSeconds)
	setSeconds(&s.WeeklyFocusGoal, req.WeeklyFocusGoalSeconds)
	setSeconds(&s.BreakReminderInterval, req.BreakReminderIntervalSeconds)
	setSeconds(&s.CustomFocusDuration, req.CustomFocusDurationSeconds)
	return s
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setSeconds(dst *time.Duration, v *int) {
	if v != nil {
		*dst = time.Duration(*v) * time.Second
	}
}

type profileResponse struct {
	Settings          settingsResponse      `json:"settings"`
	Statistics        models.StatisticsView `json:"statistics"`
	Achievements      []achievementResponse `json:"achievements"`
	AchievementPoints int                   `json:"achievement_points"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func newProfileResponse(p *models.Profile) profileResponse {
	return profileResponse{
		Settings:          newSettingsResponse(p.Settings),
		Statistics:        p.Statistics.View(),
		Achievements:      newAchievementResponses(p.Achievements),
		AchievementPoints: p.AchievementPoints(),
		UpdatedAt:         p.UpdatedAt,
	}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.ProfileService.GetProfile(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newProfileResponse(profile))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	current, err := s.ProfileService.GetProfile(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.UpdateSettings(r.Context(), req.apply(current.Settings))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newProfileResponse(profile))
}
