package service

import (
	"context"
	"io"

	"github.com/pageza/proteinpal/internal/types"
)

// TrackerAPI is the remote tracker as the services use it. *tracker.Client
// implements it.
type TrackerAPI interface {
	LoginURL(ctx context.Context) (string, error)
	Me(ctx context.Context, token string) (*types.User, error)
	UpdateGoals(ctx context.Context, token string, goals types.GoalUpdate) (*types.User, error)
	UpdateProfile(ctx context.Context, token string, profile types.ProfileUpdate) (*types.User, error)

	CommonFoods(ctx context.Context, token string) ([]types.CommonFood, error)
	DetectFood(ctx context.Context, token, filename string, image io.Reader) (*types.DetectionResult, error)
	LogFood(ctx context.Context, token string, req types.FoodLogRequest) (*types.FoodEntry, error)
	Entries(ctx context.Context, token, date string) ([]types.FoodEntry, error)
	UpdateEntry(ctx context.Context, token string, id int64, req types.FoodLogRequest) (*types.FoodEntry, error)
	DeleteEntry(ctx context.Context, token string, id int64) error
	MealPlan(ctx context.Context, token, date string) (*types.MealPlanResponse, error)

	DailySummary(ctx context.Context, token, date string) (*types.DailySummary, error)
	Weekly(ctx context.Context, token, today string) (*types.WeeklyResponse, error)

	Groups(ctx context.Context, token string) ([]types.Group, error)
	CreateGroup(ctx context.Context, token, name string) (*types.Group, error)
	JoinGroup(ctx context.Context, token, inviteCode string) (*types.Group, error)
	Leaderboard(ctx context.Context, token string, groupID int64, period, today string) ([]types.LeaderboardEntry, error)

	AdminStats(ctx context.Context, token string) (*types.AdminStats, error)
}
