package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/errors"
	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/repository"
	"github.com/vytor/pixelplay/internal/stats"
)

// StatsService records finished sessions into the profile and serves the
// aggregate statistics and achievements. It satisfies worker.Recorder.
type StatsService interface {
	GetStatistics(ctx context.Context) (models.StatisticsView, error)
	GetAchievements(ctx context.Context) ([]models.Achievement, error)
	RecordGame(ctx context.Context, record models.GameRecord) error
	RecordFocus(ctx context.Context, session models.FocusSession) error
	ClearAll(ctx context.Context) error
}

type statsService struct {
	repos repository.Repositories
	clock clock.Clock
	loc   *time.Location

	// serializes progress read-modify-write cycles
	mu sync.Mutex
}

// NewStatsService creates a new StatsService. Calendar days are judged in loc.
func NewStatsService(repos repository.Repositories, clk clock.Clock, loc *time.Location) StatsService {
	if clk == nil {
		clk = clock.Real()
	}
	if loc == nil {
		loc = time.Local
	}
	return &statsService{repos: repos, clock: clk, loc: loc}
}

func (s *statsService) GetStatistics(ctx context.Context) (models.StatisticsView, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting statistics")

	profile, err := loadProfile(ctx, s.repos.Profiles)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return models.StatisticsView{}, errors.NewInternalError(err)
	}
	return profile.Statistics.View(), nil
}

func (s *statsService) GetAchievements(ctx context.Context) ([]models.Achievement, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting achievements")

	profile, err := loadProfile(ctx, s.repos.Profiles)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return profile.Achievements, nil
}

// RecordGame stores the record, folds it into the statistics and evaluates
// achievements.
func (s *statsService) RecordGame(ctx context.Context, record models.GameRecord) error {
	log := logger.FromContext(ctx).WithPrefix("stats")
	log.Debug("recording game: id=%s state=%s score=%d", record.ID, record.State, record.Score)

	if err := s.repos.Games.Insert(ctx, record); err != nil {
		return fmt.Errorf("insert game %s: %w", record.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	wonThisWeek, err := s.repos.Games.CountWonSince(ctx, now.Add(-stats.WeekWindow))
	if err != nil {
		return fmt.Errorf("count weekly wins: %w", err)
	}

	return s.updateProfile(ctx, now, func(p *models.Profile) stats.AchievementInput {
		stats.RecordGame(&p.Statistics, record, s.loc)
		return stats.AchievementInput{
			Stats:            p.Statistics,
			LastGame:         &record,
			GamesWonThisWeek: wonThisWeek,
		}
	})
}

// RecordFocus stores the session and adds its duration to the focus total.
func (s *statsService) RecordFocus(ctx context.Context, session models.FocusSession) error {
	log := logger.FromContext(ctx).WithPrefix("stats")
	log.Debug("recording focus session: id=%s completed=%t duration=%v", session.ID, session.Completed, session.Duration)

	if err := s.repos.Focus.Insert(ctx, session); err != nil {
		return fmt.Errorf("insert focus session %s: %w", session.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	wonThisWeek, err := s.repos.Games.CountWonSince(ctx, now.Add(-stats.WeekWindow))
	if err != nil {
		return fmt.Errorf("count weekly wins: %w", err)
	}

	return s.updateProfile(ctx, now, func(p *models.Profile) stats.AchievementInput {
		stats.RecordFocus(&p.Statistics, session)
		return stats.AchievementInput{Stats: p.Statistics, GamesWonThisWeek: wonThisWeek}
	})
}

func (s *statsService) updateProfile(ctx context.Context, now time.Time, apply func(*models.Profile) stats.AchievementInput) error {
	log := logger.FromContext(ctx).WithPrefix("stats")

	profile, err := loadProfile(ctx, s.repos.Profiles)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	in := apply(profile)
	for _, t := range stats.EvaluateAchievements(profile.Achievements, in, now) {
		log.Info("achievement unlocked: %s (+%d)", t.Title(), t.Points())
	}
	profile.UpdatedAt = now

	if err := s.repos.Profiles.SaveProgress(ctx, *profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// ClearAll wipes every stored profile, game and focus session.
func (s *statsService) ClearAll(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Warn("clearing all data")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repos.Maintenance.ClearAll(ctx); err != nil {
		log.Error("failed to clear data: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
