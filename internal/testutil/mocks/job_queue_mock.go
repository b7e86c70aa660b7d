package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/vytor/pixelplay/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueGame(record models.GameRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueFocus(session models.FocusSession) error {
	args := m.Called(session)
	return args.Error(0)
}
