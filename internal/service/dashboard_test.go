package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/proteinpal/internal/mocks"
	"github.com/pageza/proteinpal/internal/nutrition"
	"github.com/pageza/proteinpal/internal/tracker"
	"github.com/pageza/proteinpal/internal/types"
)

var fixedNow = time.Date(2024, 3, 12, 8, 30, 0, 0, time.UTC)

func dailyFixture(date string) *types.DailySummary {
	at := types.Timestamp{Time: time.Date(2024, 3, 12, 7, 0, 0, 0, time.UTC)}
	return &types.DailySummary{
		Date:         date,
		TotalProtein: 60,
		ProteinGoal:  120,
		CalorieGoal:  2000,
		CarbGoal:     250,
		Entries: []types.FoodEntry{
			{ID: 1, FoodName: "Eggs", ProteinG: 36, Calories: 420, MealType: "breakfast", ServingQty: 3, LoggedAt: at},
			{ID: 2, FoodName: "Shake", ProteinG: 24, Calories: 120, MealType: "snack", ServingQty: 1, LoggedAt: at},
		},
	}
}

func weeklyFixture() *types.WeeklyResponse {
	return &types.WeeklyResponse{
		Days: []nutrition.DayTotals{
			{Date: "2024-03-10", TotalProtein: 80},
			{Date: "2024-03-12", TotalProtein: 60},
		},
		ProteinGoal: 150,
	}
}

func newDashboard(api *mocks.MockTracker) *DashboardService {
	s := NewDashboardService(api)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestDashboardLoad(t *testing.T) {
	api := new(mocks.MockTracker)
	api.On("DailySummary", mock.Anything, "tok", "2024-03-12").Return(dailyFixture("2024-03-12"), nil)
	api.On("Weekly", mock.Anything, "tok", "2024-03-12").Return(weeklyFixture(), nil)

	view, err := newDashboard(api).Load(context.Background(), 7, "tok", "2024-03-12")
	require.NoError(t, err)

	assert.False(t, view.Stale)
	assert.Equal(t, fixedNow, view.FetchedAt)
	assert.Equal(t, 60.0, view.Daily.TotalProtein)
	assert.Equal(t, 540.0, view.Daily.TotalCalories)
	assert.Equal(t, 50, view.Daily.Progress.ProteinPct)
	require.Len(t, view.Daily.Meals, 2)
	assert.Equal(t, nutrition.Breakfast, view.Daily.Meals[0].MealType)

	require.Len(t, view.Weekly.Days, nutrition.WindowDays)
	assert.Equal(t, "2024-03-06", view.Weekly.Days[0].Date)
	assert.InDelta(t, 53.333, view.Weekly.Days[4].ProteinPct, 0.001)
	assert.True(t, view.Weekly.Days[6].Current)
	api.AssertExpectations(t)
}

func TestDashboardServesStaleViewOnFailure(t *testing.T) {
	api := new(mocks.MockTracker)
	svc := newDashboard(api)

	api.On("DailySummary", mock.Anything, "tok", "2024-03-12").Return(dailyFixture("2024-03-12"), nil).Once()
	api.On("Weekly", mock.Anything, "tok", "2024-03-12").Return(weeklyFixture(), nil).Once()
	_, err := svc.Load(context.Background(), 7, "tok", "2024-03-12")
	require.NoError(t, err)

	upstream := &tracker.APIError{StatusCode: 503, Detail: "down"}
	api.On("DailySummary", mock.Anything, "tok", "2024-03-12").Return(nil, upstream)
	api.On("Weekly", mock.Anything, "tok", "2024-03-12").Return(weeklyFixture(), nil)

	view, err := svc.Load(context.Background(), 7, "tok", "2024-03-12")
	require.NoError(t, err)
	assert.True(t, view.Stale)
	assert.NotEmpty(t, view.Error)
	assert.Equal(t, 60.0, view.Daily.TotalProtein)
}

func TestDashboardUnavailableWithoutCache(t *testing.T) {
	api := new(mocks.MockTracker)
	api.On("DailySummary", mock.Anything, "tok", "2024-03-12").Return(nil, errors.New("connection refused"))
	api.On("Weekly", mock.Anything, "tok", "2024-03-12").Return(weeklyFixture(), nil)

	view, err := newDashboard(api).Load(context.Background(), 7, "tok", "2024-03-12")
	assert.Nil(t, view)
	assert.ErrorIs(t, err, ErrDashboardUnavailable)
}

func TestDashboardUnauthorizedIgnoresCache(t *testing.T) {
	api := new(mocks.MockTracker)
	svc := newDashboard(api)

	api.On("DailySummary", mock.Anything, "tok", "2024-03-12").Return(dailyFixture("2024-03-12"), nil).Once()
	api.On("Weekly", mock.Anything, "tok", "2024-03-12").Return(weeklyFixture(), nil).Once()
	_, err := svc.Load(context.Background(), 7, "tok", "2024-03-12")
	require.NoError(t, err)

	api.On("DailySummary", mock.Anything, "tok", "2024-03-12").Return(nil, &tracker.APIError{StatusCode: 401})
	api.On("Weekly", mock.Anything, "tok", "2024-03-12").Return(nil, &tracker.APIError{StatusCode: 401})

	_, err = svc.Load(context.Background(), 7, "tok", "2024-03-12")
	assert.ErrorIs(t, err, ErrDashboardUnavailable)
	assert.True(t, tracker.IsUnauthorized(err))
}

func TestDashboardCacheIsPerUser(t *testing.T) {
	api := new(mocks.MockTracker)
	svc := newDashboard(api)

	api.On("DailySummary", mock.Anything, "a", "2024-03-12").Return(dailyFixture("2024-03-12"), nil)
	api.On("Weekly", mock.Anything, "a", "2024-03-12").Return(weeklyFixture(), nil)
	_, err := svc.Load(context.Background(), 1, "a", "2024-03-12")
	require.NoError(t, err)

	api.On("DailySummary", mock.Anything, "b", "2024-03-12").Return(nil, errors.New("timeout"))
	api.On("Weekly", mock.Anything, "b", "2024-03-12").Return(nil, errors.New("timeout"))
	_, err = svc.Load(context.Background(), 2, "b", "2024-03-12")
	assert.ErrorIs(t, err, ErrDashboardUnavailable)

	svc.Forget(1)
	api.On("DailySummary", mock.Anything, "c", "2024-03-12").Return(nil, errors.New("timeout"))
	api.On("Weekly", mock.Anything, "c", "2024-03-12").Return(nil, errors.New("timeout"))
	_, err = svc.Load(context.Background(), 1, "c", "2024-03-12")
	assert.ErrorIs(t, err, ErrDashboardUnavailable)
}

func TestDashboardRejectsBadDate(t *testing.T) {
	api := new(mocks.MockTracker)
	_, err := newDashboard(api).Load(context.Background(), 1, "tok", "12/03/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
	api.AssertNotCalled(t, "DailySummary", mock.Anything, mock.Anything, mock.Anything)
}
