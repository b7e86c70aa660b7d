package services

import (
	"context"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/errors"
	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
	"github.com/vytor/pixelplay/internal/repository"
)

// ProfileService handles the user profile and its settings
type ProfileService interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateSettings(ctx context.Context, settings models.Settings) (*models.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	clock       clock.Clock
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository, clk clock.Clock) ProfileService {
	if clk == nil {
		clk = clock.Real()
	}
	return &profileService{profileRepo: profileRepo, clock: clk}
}

// GetProfile returns the stored profile, or a default one when nothing has
// been saved yet.
func (s *profileService) GetProfile(ctx context.Context) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting profile")

	profile, err := loadProfile(ctx, s.profileRepo)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return profile, nil
}

// UpdateSettings replaces the settings, clamping goal and duration values
// into range. Statistics and achievements are left alone.
func (s *profileService) UpdateSettings(ctx context.Context, settings models.Settings) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating settings: username=%s theme=%s", settings.Username, settings.Theme)

	if len(settings.Username) > maxUsernameLength {
		return nil, errors.NewValidationError("username", "must be at most 32 characters")
	}

	if err := s.profileRepo.SaveSettings(ctx, settings.Normalize(), s.clock.Now()); err != nil {
		log.Error("failed to save settings: %v", err)
		return nil, errors.NewInternalError(err)
	}

	profile, err := loadProfile(ctx, s.profileRepo)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("settings updated")
	return profile, nil
}

const maxUsernameLength = 32

// loadProfile never returns a nil profile without an error.
func loadProfile(ctx context.Context, repo repository.ProfileRepository) (*models.Profile, error) {
	profile, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return models.NewProfile(), nil
	}
	profile.EnsureAchievements()
	return profile, nil
}
