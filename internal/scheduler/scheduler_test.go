package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMaintainer struct {
	mock.Mock
}

func (m *MockMaintainer) PruneTelemetry(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaintainer) ExpireCommands(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(before)
	return args.Get(0).(int64), args.Error(1)
}

func TestRunOnce(t *testing.T) {
	m := new(MockMaintainer)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	m.On("PruneTelemetry", now.Add(-90*24*time.Hour)).Return(int64(12), nil)
	m.On("ExpireCommands", now.Add(-15*time.Minute)).Return(int64(1), nil)

	s, err := NewScheduler("0 0 * * * *", m, 90*24*time.Hour, 15*time.Minute)
	require.NoError(t, err)
	s.now = func() time.Time { return now }

	s.RunOnce(context.Background())
	m.AssertExpectations(t)
}

func TestRunOnce_PruneFailureStillExpires(t *testing.T) {
	m := new(MockMaintainer)
	m.On("PruneTelemetry", mock.Anything).Return(int64(0), errors.New("db down"))
	m.On("ExpireCommands", mock.Anything).Return(int64(0), nil)

	s, err := NewScheduler("@every 1h", m, time.Hour, time.Minute)
	require.NoError(t, err)

	s.RunOnce(context.Background())
	m.AssertExpectations(t)
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	_, err := NewScheduler("not a schedule", new(MockMaintainer), time.Hour, time.Minute)
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler("@every 1h", new(MockMaintainer), time.Hour, time.Minute)
	require.NoError(t, err)
	s.Start()
	s.Stop()
}
