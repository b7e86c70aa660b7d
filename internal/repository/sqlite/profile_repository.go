package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/repository"
)

const profileID = 1

var settingsColumns = []string{
	"username", "theme", "sound", "notifications", "preferred_difficulty",
	"haptics", "animations", "auto_save", "completed_onboarding",
	"daily_focus_goal", "weekly_focus_goal", "break_reminders", "break_reminder_interval", "custom_focus_duration",
}

var statisticsColumns = []string{
	"total_games_played", "total_games_won", "total_time_played", "best_score", "total_score",
	"current_streak", "longest_streak", "total_completion_time", "total_hints_used", "total_power_ups_used",
	"total_focus_time", "consecutive_days_played", "last_play_date",
}

var profileColumns = concat(settingsColumns, statisticsColumns, []string{"updated_at"})

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Load(ctx context.Context) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("loading profile")

	query, args, err := sqlBuilder.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"id": profileID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var (
		p                             = models.Profile{}
		theme, sound, notes, diff     string
		dailyGoal, weeklyGoal         int64
		breakInterval, customDuration int64
		lastPlay                      sql.NullTime
		st                            = &p.Statistics
		set                           = &p.Settings
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&set.Username, &theme, &sound, &notes, &diff,
		&set.Haptics, &set.Animations, &set.AutoSave, &set.CompletedOnboarding,
		&dailyGoal, &weeklyGoal, &set.BreakReminders, &breakInterval, &customDuration,
		&st.TotalGamesPlayed, &st.TotalGamesWon, &st.TotalTimePlayed, &st.BestScore, &st.TotalScore,
		&st.CurrentStreak, &st.LongestStreak, &st.TotalCompletionTime, &st.TotalHintsUsed, &st.TotalPowerUpsUsed,
		&st.TotalFocusTime, &st.ConsecutiveDaysPlayed, &lastPlay, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no profile stored yet")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return nil, err
	}

	set.Theme = models.ThemeOrDefault(theme)
	set.Sound = models.SoundOrDefault(sound)
	set.Notifications = models.NotificationOrDefault(notes)
	set.PreferredDifficulty = models.DifficultyOrDefault(diff)
	set.DailyFocusGoal = fromSeconds(dailyGoal)
	set.WeeklyFocusGoal = fromSeconds(weeklyGoal)
	set.BreakReminderInterval = fromSeconds(breakInterval)
	set.CustomFocusDuration = fromSeconds(customDuration)
	p.Settings = set.Normalize()
	st.LastPlayDate = timePtr(lastPlay)

	achievements, err := r.loadAchievements(ctx, log)
	if err != nil {
		return nil, err
	}
	p.Achievements = achievements
	p.EnsureAchievements()
	return &p, nil
}

func (r *profileRepository) loadAchievements(ctx context.Context, log *logger.Logger) ([]models.Achievement, error) {
	query, args, err := sqlBuilder.Select("type", "unlocked_at", "progress").
		From("achievements").
		OrderBy("type").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load achievements: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Achievement
	for rows.Next() {
		var (
			key      string
			unlocked sql.NullTime
			progress float64
		)
		if err := rows.Scan(&key, &unlocked, &progress); err != nil {
			log.Error("failed to scan achievement row: %v", err)
			return nil, err
		}
		typ, err := models.ParseAchievementType(key)
		if err != nil {
			log.Warn("skipping stored achievement: %v", err)
			continue
		}
		out = append(out, models.Achievement{Type: typ, UnlockedAt: timePtr(unlocked), Progress: progress})
	}
	return out, rows.Err()
}

func (r *profileRepository) Save(ctx context.Context, p models.Profile) error {
	values := concat(settingsValues(p.Settings), statisticsValues(p.Statistics), []any{updatedAtValue(p.UpdatedAt)})
	return r.upsert(ctx, "profile", profileColumns, values, p.Achievements)
}

func (r *profileRepository) SaveSettings(ctx context.Context, settings models.Settings, updatedAt time.Time) error {
	columns := concat(settingsColumns, []string{"updated_at"})
	values := concat(settingsValues(settings), []any{updatedAtValue(updatedAt)})
	return r.upsert(ctx, "settings", columns, values, nil)
}

func (r *profileRepository) SaveProgress(ctx context.Context, p models.Profile) error {
	columns := concat(statisticsColumns, []string{"updated_at"})
	values := concat(statisticsValues(p.Statistics), []any{updatedAtValue(p.UpdatedAt)})
	return r.upsert(ctx, "progress", columns, values, p.Achievements)
}

// upsert writes columns of the profile row, inserting it with column
// defaults for everything else when missing, then merges achievements.
func (r *profileRepository) upsert(ctx context.Context, what string, columns []string, values []any, achievements []models.Achievement) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("saving %s", what)

	profileQuery, profileArgs, err := sqlBuilder.Insert("profiles").
		Columns(concat([]string{"id"}, columns)...).
		Values(concat([]any{profileID}, values)...).
		Suffix("ON CONFLICT(id) DO UPDATE SET " + upsertAssignments(columns)).
		ToSql()
	if err != nil {
		return err
	}

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, profileQuery, profileArgs...); err != nil {
			log.Error("failed to save %s: %v", what, err)
			return err
		}
		for _, a := range achievements {
			query, args, err := sqlBuilder.Insert("achievements").
				Columns("type", "unlocked_at", "progress").
				Values(a.Type.String(), nullTime(a.UnlockedAt), a.Progress).
				Suffix(`ON CONFLICT(type) DO UPDATE SET
    unlocked_at = COALESCE(achievements.unlocked_at, excluded.unlocked_at),
    progress = CASE WHEN achievements.unlocked_at IS NULL THEN excluded.progress ELSE achievements.progress END`).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				log.Error("failed to save achievement %s: %v", a.Type, err)
				return err
			}
		}
		log.Debug("%s saved with %d achievements", what, len(achievements))
		return nil
	})
}

func settingsValues(s models.Settings) []any {
	s = s.Normalize()
	return []any{
		s.Username, string(s.Theme), string(s.Sound), string(s.Notifications), s.PreferredDifficulty.String(),
		s.Haptics, s.Animations, s.AutoSave, s.CompletedOnboarding,
		seconds(s.DailyFocusGoal), seconds(s.WeeklyFocusGoal), s.BreakReminders,
		seconds(s.BreakReminderInterval), seconds(s.CustomFocusDuration),
	}
}

func statisticsValues(st models.GameStatistics) []any {
	return []any{
		st.TotalGamesPlayed, st.TotalGamesWon, st.TotalTimePlayed, st.BestScore, st.TotalScore,
		st.CurrentStreak, st.LongestStreak, st.TotalCompletionTime, st.TotalHintsUsed, st.TotalPowerUpsUsed,
		st.TotalFocusTime, st.ConsecutiveDaysPlayed, nullTime(st.LastPlayDate),
	}
}

func updatedAtValue(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return utc(t)
}

func upsertAssignments(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("%s = excluded.%s", c, c)
	}
	return strings.Join(parts, ", ")
}

func concat[T any](parts ...[]T) []T {
	var out []T
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
