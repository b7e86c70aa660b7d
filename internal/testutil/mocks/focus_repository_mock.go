package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/pixelplay/internal/models"
)

// MockFocusRepository is a mock implementation of repository.FocusRepository
type MockFocusRepository struct {
	mock.Mock
}

func (m *MockFocusRepository) Insert(ctx context.Context, session models.FocusSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockFocusRepository) History(ctx context.Context, limit int) ([]models.FocusSession, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FocusSession), args.Error(1)
}

func (m *MockFocusRepository) Since(ctx context.Context, t time.Time) ([]models.FocusSession, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FocusSession), args.Error(1)
}

// MockMaintenanceRepository is a mock implementation of repository.MaintenanceRepository
type MockMaintenanceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRepository) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
