package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kartlap/pkg/contracts/domain"
)

// MockWebSocketHub is a mock for EventBroadcaster
type MockWebSocketHub struct {
	mock.Mock
}

func (m *MockWebSocketHub) Broadcast(messageType string, data interface{}) {
	m.Called(messageType, data)
}

// MockFetcher is a mock for Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, track domain.Track, sessionID string) (domain.RawTable, error) {
	args := m.Called(ctx, track, sessionID)
	rows, _ := args.Get(0).(domain.RawTable)
	return rows, args.Error(1)
}

// MockHeatRepository is a mock for HeatRepository
type MockHeatRepository struct {
	mock.Mock
}

func (m *MockHeatRepository) Save(ctx context.Context, heat *domain.Heat) error {
	return m.Called(ctx, heat).Error(0)
}

func (m *MockHeatRepository) Load(ctx context.Context, track domain.Track, sessionID string) (*domain.Heat, error) {
	args := m.Called(ctx, track, sessionID)
	heat, _ := args.Get(0).(*domain.Heat)
	return heat, args.Error(1)
}

func (m *MockHeatRepository) List(ctx context.Context) ([]domain.HeatRef, error) {
	args := m.Called(ctx)
	refs, _ := args.Get(0).([]domain.HeatRef)
	return refs, args.Error(1)
}

func (m *MockHeatRepository) Delete(ctx context.Context, track domain.Track, sessionID string) error {
	return m.Called(ctx, track, sessionID).Error(0)
}
