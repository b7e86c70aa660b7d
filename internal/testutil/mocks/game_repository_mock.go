package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/pixelplay/internal/models"
)

// MockGameRepository is a mock implementation of repository.GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Insert(ctx context.Context, record models.GameRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockGameRepository) History(ctx context.Context, limit int) ([]models.GameRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameRecord), args.Error(1)
}

func (m *MockGameRepository) CountWonSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}
