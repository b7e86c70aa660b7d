package services

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/errors"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/repository"
	"github.com/vytor/pixelplay/internal/repository/memory"
	"github.com/vytor/pixelplay/internal/testutil"
	"github.com/vytor/pixelplay/internal/testutil/mocks"
)

var testNow = time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

func TestGetProfileDefaultsWhenMissing(t *testing.T) {
	repo := &mocks.MockProfileRepository{}
	repo.On("Load", mock.Anything).Return(nil, nil)
	svc := NewProfileService(repo, clock.NewFake(testNow))

	p, err := svc.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), p.Settings)
	assert.Len(t, p.Achievements, len(models.AchievementTypes))
	repo.AssertExpectations(t)
}

func TestGetProfileWrapsStoreErrors(t *testing.T) {
	repo := &mocks.MockProfileRepository{}
	repo.On("Load", mock.Anything).Return(nil, stderrors.New("disk gone"))
	svc := NewProfileService(repo, clock.NewFake(testNow))

	_, err := svc.GetProfile(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInternal, errors.AsAppError(err).Code)
}

func TestUpdateSettingsClampsAndSaves(t *testing.T) {
	stored := models.NewProfile()
	stored.Statistics.TotalGamesPlayed = 9

	repo := &mocks.MockProfileRepository{}
	repo.On("SaveSettings", mock.Anything, mock.MatchedBy(func(s models.Settings) bool {
		return s.Username == "ada" &&
			s.DailyFocusGoal == 4*time.Hour &&
			s.Theme == models.ThemeDark
	}), mock.MatchedBy(func(at time.Time) bool { return at.Equal(testNow) })).Run(func(args mock.Arguments) {
		stored.Settings = args.Get(1).(models.Settings)
	}).Return(nil)
	repo.On("Load", mock.Anything).Return(stored, nil)
	svc := NewProfileService(repo, clock.NewFake(testNow))

	settings := models.DefaultSettings()
	settings.Username = "ada"
	settings.DailyFocusGoal = 10 * time.Hour
	settings.Theme = "neon"

	p, err := svc.UpdateSettings(context.Background(), settings)
	require.NoError(t, err)
	assert.Equal(t, 4*time.Hour, p.Settings.DailyFocusGoal)
	assert.Equal(t, 9, p.Statistics.TotalGamesPlayed)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateSettingsRejectsLongUsername(t *testing.T) {
	repo := &mocks.MockProfileRepository{}
	svc := NewProfileService(repo, clock.NewFake(testNow))

	settings := models.DefaultSettings()
	settings.Username = strings.Repeat("x", 33)

	_, err := svc.UpdateSettings(context.Background(), settings)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.AsAppError(err).Code)
	repo.AssertNotCalled(t, "SaveSettings", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateSettingsSaveFailure(t *testing.T) {
	repo := &mocks.MockProfileRepository{}
	repo.On("SaveSettings", mock.Anything, mock.Anything, mock.Anything).Return(stderrors.New("locked"))
	svc := NewProfileService(repo, clock.NewFake(testNow))

	_, err := svc.UpdateSettings(context.Background(), models.DefaultSettings())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInternal, errors.AsAppError(err).Code)
}

// interleavedProfiles runs a hook just before each partial write reaches the
// store, standing in for a concurrent writer.
type interleavedProfiles struct {
	repository.ProfileRepository
	beforeSettings func()
	beforeProgress func()
}

func (r *interleavedProfiles) SaveSettings(ctx context.Context, s models.Settings, at time.Time) error {
	if fn := r.beforeSettings; fn != nil {
		r.beforeSettings = nil
		fn()
	}
	return r.ProfileRepository.SaveSettings(ctx, s, at)
}

func (r *interleavedProfiles) SaveProgress(ctx context.Context, p models.Profile) error {
	if fn := r.beforeProgress; fn != nil {
		r.beforeProgress = nil
		fn()
	}
	return r.ProfileRepository.SaveProgress(ctx, p)
}

func TestUpdateSettingsKeepsConcurrentlyRecordedGame(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	profiles := &interleavedProfiles{ProfileRepository: repos.Profiles}
	repos.Profiles = profiles
	stats := NewStatsService(repos, clock.NewFake(testNow), time.UTC)
	svc := NewProfileService(profiles, clock.NewFake(testNow))

	profiles.beforeSettings = func() {
		require.NoError(t, stats.RecordGame(ctx, testutil.WonGame("g1", testNow, 300)))
	}

	settings := models.DefaultSettings()
	settings.Username = "ada"
	p, err := svc.UpdateSettings(ctx, settings)
	require.NoError(t, err)
	assert.Equal(t, "ada", p.Settings.Username)
	assert.Equal(t, 1, p.Statistics.TotalGamesPlayed)
	assert.Equal(t, 300, p.Statistics.BestScore)
}

func TestRecordGameKeepsConcurrentSettingsUpdate(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	profiles := &interleavedProfiles{ProfileRepository: repos.Profiles}
	repos.Profiles = profiles
	stats := NewStatsService(repos, clock.NewFake(testNow), time.UTC)
	svc := NewProfileService(profiles, clock.NewFake(testNow))

	profiles.beforeProgress = func() {
		settings := models.DefaultSettings()
		settings.Theme = models.ThemeMinimal
		_, err := svc.UpdateSettings(ctx, settings)
		require.NoError(t, err)
	}
	require.NoError(t, stats.RecordGame(ctx, testutil.WonGame("g1", testNow, 300)))

	p, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeMinimal, p.Settings.Theme)
	assert.Equal(t, 1, p.Statistics.TotalGamesWon)
}
