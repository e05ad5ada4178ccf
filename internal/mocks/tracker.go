package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/proteinpal/internal/types"
)

// MockTracker is a mock implementation of service.TrackerAPI
type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) LoginURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTracker) Me(ctx context.Context, token string) (*types.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockTracker) UpdateGoals(ctx context.Context, token string, goals types.GoalUpdate) (*types.User, error) {
	args := m.Called(ctx, token, goals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockTracker) UpdateProfile(ctx context.Context, token string, profile types.ProfileUpdate) (*types.User, error) {
	args := m.Called(ctx, token, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockTracker) CommonFoods(ctx context.Context, token string) ([]types.CommonFood, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.CommonFood), args.Error(1)
}

func (m *MockTracker) DetectFood(ctx context.Context, token, filename string, image io.Reader) (*types.DetectionResult, error) {
	args := m.Called(ctx, token, filename, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DetectionResult), args.Error(1)
}

func (m *MockTracker) LogFood(ctx context.Context, token string, req types.FoodLogRequest) (*types.FoodEntry, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FoodEntry), args.Error(1)
}

func (m *MockTracker) Entries(ctx context.Context, token, date string) ([]types.FoodEntry, error) {
	args := m.Called(ctx, token, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FoodEntry), args.Error(1)
}

func (m *MockTracker) UpdateEntry(ctx context.Context, token string, id int64, req types.FoodLogRequest) (*types.FoodEntry, error) {
	args := m.Called(ctx, token, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FoodEntry), args.Error(1)
}

func (m *MockTracker) DeleteEntry(ctx context.Context, token string, id int64) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockTracker) MealPlan(ctx context.Context, token, date string) (*types.MealPlanResponse, error) {
	args := m.Called(ctx, token, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MealPlanResponse), args.Error(1)
}

func (m *MockTracker) DailySummary(ctx context.Context, token, date string) (*types.DailySummary, error) {
	args := m.Called(ctx, token, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DailySummary), args.Error(1)
}

func (m *MockTracker) Weekly(ctx context.Context, token, today string) (*types.WeeklyResponse, error) {
	args := m.Called(ctx, token, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WeeklyResponse), args.Error(1)
}

func (m *MockTracker) Groups(ctx context.Context, token string) ([]types.Group, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Group), args.Error(1)
}

func (m *MockTracker) CreateGroup(ctx context.Context, token, name string) (*types.Group, error) {
	args := m.Called(ctx, token, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Group), args.Error(1)
}

func (m *MockTracker) JoinGroup(ctx context.Context, token, inviteCode string) (*types.Group, error) {
	args := m.Called(ctx, token, inviteCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Group), args.Error(1)
}

func (m *MockTracker) Leaderboard(ctx context.Context, token string, groupID int64, period, today string) ([]types.LeaderboardEntry, error) {
	args := m.Called(ctx, token, groupID, period, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.LeaderboardEntry), args.Error(1)
}

func (m *MockTracker) AdminStats(ctx context.Context, token string) (*types.AdminStats, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AdminStats), args.Error(1)
}
