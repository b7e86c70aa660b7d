package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/pixelplay/internal/models"
)

// MockProfileRepository is a mock implementation of repository.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Load(ctx context.Context) (*models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) SaveSettings(ctx context.Context, settings models.Settings, updatedAt time.Time) error {
	args := m.Called(ctx, settings, updatedAt)
	return args.Error(0)
}

func (m *MockProfileRepository) SaveProgress(ctx context.Context, profile models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
