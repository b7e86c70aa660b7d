// Package repositorytest holds the behaviour every repository
// implementation must share.
package repositorytest

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/repository"
	"github.com/vytor/pixelplay/internal/testutil"
)

// Suite runs against the repositories returned by Open for each test. Close,
// when set, releases them.
type Suite struct {
	suite.Suite
	Open  func() repository.Repositories
	Close func()

	repos repository.Repositories
	ctx   context.Context
}

var base = time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

func (s *Suite) SetupTest() {
	s.repos = s.Open()
	s.ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Close != nil {
		s.Close()
	}
}

func (s *Suite) TestLoadEmptyProfile() {
	p, err := s.repos.Profiles.Load(s.ctx)
	s.Require().NoError(err)
	s.Assert().Nil(p)
}

func (s *Suite) TestProfileRoundTrip() {
	p := models.NewProfile()
	p.Settings.Username = "pixel"
	p.Settings.Theme = models.ThemeMinimal
	p.Settings.PreferredDifficulty = models.DifficultyHard
	p.Settings.DailyFocusGoal = 45 * time.Minute
	p.Settings.CompletedOnboarding = true
	p.Statistics.TotalGamesPlayed = 12
	p.Statistics.TotalGamesWon = 7
	p.Statistics.LongestStreak = 4
	p.Statistics.TotalFocusTime = 5400
	last := base.Add(2 * time.Hour)
	p.Statistics.LastPlayDate = &last
	p.Achievements[0].UnlockedAt = &base
	p.Achievements[0].Progress = 1
	p.Achievements[3].Progress = 0.4

	s.Require().NoError(s.repos.Profiles.Save(s.ctx, *p))

	got, err := s.repos.Profiles.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("pixel", got.Settings.Username)
	s.Assert().Equal(models.ThemeMinimal, got.Settings.Theme)
	s.Assert().Equal(models.DifficultyHard, got.Settings.PreferredDifficulty)
	s.Assert().Equal(45*time.Minute, got.Settings.DailyFocusGoal)
	s.Assert().True(got.Settings.CompletedOnboarding)
	s.Assert().True(got.Settings.BreakReminders)
	s.Assert().Equal(12, got.Statistics.TotalGamesPlayed)
	s.Assert().Equal(7, got.Statistics.TotalGamesWon)
	s.Assert().Equal(5400, got.Statistics.TotalFocusTime)
	s.Require().NotNil(got.Statistics.LastPlayDate)
	s.Assert().True(last.Equal(*got.Statistics.LastPlayDate))
	s.Assert().Len(got.Achievements, len(models.AchievementTypes))

	byType := map[models.AchievementType]models.Achievement{}
	for _, a := range got.Achievements {
		byType[a.Type] = a
	}
	s.Require().NotNil(byType[models.AchievementFirstWin].UnlockedAt)
	s.Assert().True(base.Equal(*byType[models.AchievementFirstWin].UnlockedAt))
	s.Assert().InDelta(0.4, byType[models.AchievementStreakMaster].Progress, 1e-9)
	s.Assert().Equal(100, got.AchievementPoints())
}

func (s *Suite) TestSaveKeepsUnlockDates() {
	p := models.NewProfile()
	p.Achievements[0].UnlockedAt = &base
	p.Achievements[0].Progress = 1
	s.Require().NoError(s.repos.Profiles.Save(s.ctx, *p))

	p.Achievements[0].UnlockedAt = nil
	p.Achievements[0].Progress = 0.2
	s.Require().NoError(s.repos.Profiles.Save(s.ctx, *p))

	got, err := s.repos.Profiles.Load(s.ctx)
	s.Require().NoError(err)
	for _, a := range got.Achievements {
		if a.Type == models.AchievementFirstWin {
			s.Require().NotNil(a.UnlockedAt)
			s.Assert().True(base.Equal(*a.UnlockedAt))
			s.Assert().Equal(1.0, a.Progress)
		}
	}
}

func (s *Suite) TestSaveKeepsOmittedAchievements() {
	p := models.NewProfile()
	p.Achievements[0].UnlockedAt = &base
	p.Achievements[0].Progress = 1
	s.Require().NoError(s.repos.Profiles.Save(s.ctx, *p))

	p.Achievements = p.Achievements[1:]
	s.Require().NoError(s.repos.Profiles.Save(s.ctx, *p))

	got, err := s.repos.Profiles.Load(s.ctx)
	s.Require().NoError(err)
	s.Assert().Len(got.Achievements, len(models.AchievementTypes))
	s.Assert().Len(got.UnlockedAchievements(), 1)
	s.Assert().Equal(models.AchievementFirstWin, got.UnlockedAchievements()[0].Type)
}

func (s *Suite) TestSaveSettingsLeavesProgress() {
	p := models.NewProfile()
	p.Statistics.TotalGamesPlayed = 5
	p.Statistics.CurrentStreak = 2
	p.Achievements[0].UnlockedAt = &base
	s.Require().NoError(s.repos.Profiles.Save(s.ctx, *p))

	settings := models.DefaultSettings()
	settings.Username = "renamed"
	settings.CustomFocusDuration = 3 * time.Hour
	s.Require().NoError(s.repos.Profiles.SaveSettings(s.ctx, settings, base.Add(time.Hour)))

	got, err := s.repos.Profiles.Load(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal("renamed", got.Settings.Username)
	s.Assert().Equal(7200*time.Second, got.Settings.CustomFocusDuration)
	s.Assert().Equal(5, got.Statistics.TotalGamesPlayed)
	s.Assert().Equal(2, got.Statistics.CurrentStreak)
	s.Assert().Len(got.UnlockedAchievements(), 1)
	s.Assert().True(base.Add(time.Hour).Equal(got.UpdatedAt))
}

func (s *Suite) TestSaveSettingsCreatesProfile() {
	settings := models.DefaultSettings()
	settings.Theme = models.ThemeColorful
	s.Require().NoError(s.repos.Profiles.SaveSettings(s.ctx, settings, base))

	got, err := s.repos.Profiles.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(models.ThemeColorful, got.Settings.Theme)
	s.Assert().Zero(got.Statistics.TotalGamesPlayed)
	s.Assert().Len(got.Achievements, len(models.AchievementTypes))
}

func (s *Suite) TestSaveProgressLeavesSettings() {
	p := models.NewProfile()
	p.Settings.Username = "pixel"
	p.Settings.PreferredDifficulty = models.DifficultyExpert
	s.Require().NoError(s.repos.Profiles.Save(s.ctx, *p))

	stale := models.NewProfile()
	stale.Statistics.TotalGamesWon = 3
	stale.Achievements[0].UnlockedAt = &base
	s.Require().NoError(s.repos.Profiles.SaveProgress(s.ctx, *stale))

	got, err := s.repos.Profiles.Load(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal("pixel", got.Settings.Username)
	s.Assert().Equal(models.DifficultyExpert, got.Settings.PreferredDifficulty)
	s.Assert().Equal(3, got.Statistics.TotalGamesWon)
	s.Assert().Len(got.UnlockedAchievements(), 1)
}

func (s *Suite) TestSaveClampsSettings() {
	p := models.NewProfile()
	p.Settings.DailyFocusGoal = time.Minute
	p.Settings.WeeklyFocusGoal = 100 * time.Hour
	p.Settings.CustomFocusDuration = 3 * time.Hour
	s.Require().NoError(s.repos.Profiles.Save(s.ctx, *p))

	got, err := s.repos.Profiles.Load(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(300*time.Second, got.Settings.DailyFocusGoal)
	s.Assert().Equal(50400*time.Second, got.Settings.WeeklyFocusGoal)
	s.Assert().Equal(7200*time.Second, got.Settings.CustomFocusDuration)
}

func (s *Suite) TestGameHistoryNewestFirst() {
	s.Require().NoError(s.repos.Games.Insert(s.ctx, testutil.WonGame("g1", base, 300)))
	s.Require().NoError(s.repos.Games.Insert(s.ctx, testutil.LostGame("g2", base.Add(2*time.Hour))))
	s.Require().NoError(s.repos.Games.Insert(s.ctx, testutil.WonGame("g3", base.Add(time.Hour), 500)))

	history, err := s.repos.Games.History(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Assert().Equal("g2", history[0].ID)
	s.Assert().Equal("g3", history[1].ID)
	s.Assert().Equal("g1", history[2].ID)
	s.Assert().Equal(models.GameFailed, history[0].State)
	s.Assert().Equal(500, history[1].Score)
	s.Assert().Equal(models.DifficultyEasy.PowerUpAllowance(), history[1].PowerUpsRemaining)

	limited, err := s.repos.Games.History(s.ctx, 2)
	s.Require().NoError(err)
	s.Assert().Len(limited, 2)
}

func (s *Suite) TestHistoryWithoutLimitReturnsEverything() {
	for i := 0; i < 60; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		s.Require().NoError(s.repos.Games.Insert(s.ctx, testutil.LostGame(fmt.Sprintf("g%02d", i), at)))
		s.Require().NoError(s.repos.Focus.Insert(s.ctx, testutil.FocusSession(fmt.Sprintf("f%02d", i), at, time.Minute, true)))
	}

	games, err := s.repos.Games.History(s.ctx, 0)
	s.Require().NoError(err)
	s.Assert().Len(games, 60)
	s.Assert().Equal("g59", games[0].ID)

	sessions, err := s.repos.Focus.History(s.ctx, -1)
	s.Require().NoError(err)
	s.Assert().Len(sessions, 60)
	s.Assert().Equal("f59", sessions[0].ID)
}

func (s *Suite) TestCountWonSince() {
	s.Require().NoError(s.repos.Games.Insert(s.ctx, testutil.WonGame("old", base.Add(-8*24*time.Hour), 100)))
	s.Require().NoError(s.repos.Games.Insert(s.ctx, testutil.WonGame("new1", base.Add(-time.Hour), 100)))
	s.Require().NoError(s.repos.Games.Insert(s.ctx, testutil.WonGame("new2", base, 100)))
	s.Require().NoError(s.repos.Games.Insert(s.ctx, testutil.LostGame("lost", base)))

	n, err := s.repos.Games.CountWonSince(s.ctx, base.Add(-7*24*time.Hour))
	s.Require().NoError(err)
	s.Assert().Equal(2, n)
}

func (s *Suite) TestFocusHistoryAndSince() {
	s.Require().NoError(s.repos.Focus.Insert(s.ctx, testutil.FocusSession("f1", base, 25*time.Minute, true)))
	s.Require().NoError(s.repos.Focus.Insert(s.ctx, testutil.FocusSession("f2", base.Add(time.Hour), 90*time.Second+500*time.Millisecond, false)))
	s.Require().NoError(s.repos.Focus.Insert(s.ctx, testutil.FocusSession("f3", base.Add(-48*time.Hour), 5*time.Minute, true)))

	history, err := s.repos.Focus.History(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Assert().Equal("f2", history[0].ID)
	s.Assert().Equal(90*time.Second+500*time.Millisecond, history[0].Duration)
	s.Assert().False(history[0].Completed)
	s.Require().NotNil(history[0].EndTime)
	s.Assert().Equal(models.FocusCustom, history[0].Type)

	recent, err := s.repos.Focus.Since(s.ctx, base)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Assert().Equal("f2", recent[0].ID)
	s.Assert().Equal("f1", recent[1].ID)
}

func (s *Suite) TestClearAll() {
	s.Require().NoError(s.repos.Profiles.Save(s.ctx, *models.NewProfile()))
	s.Require().NoError(s.repos.Games.Insert(s.ctx, testutil.WonGame("g1", base, 100)))
	s.Require().NoError(s.repos.Focus.Insert(s.ctx, testutil.FocusSession("f1", base, time.Minute, true)))

	s.Require().NoError(s.repos.Maintenance.ClearAll(s.ctx))

	p, err := s.repos.Profiles.Load(s.ctx)
	s.Require().NoError(err)
	s.Assert().Nil(p)
	games, err := s.repos.Games.History(s.ctx, 10)
	s.Require().NoError(err)
	s.Assert().Empty(games)
	sessions, err := s.repos.Focus.History(s.ctx, 10)
	s.Require().NoError(err)
	s.Assert().Empty(sessions)
}
