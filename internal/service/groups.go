package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pageza/proteinpal/internal/nutrition"
	"github.com/pageza/proteinpal/internal/types"
	"github.com/pageza/proteinpal/internal/view"
)

const maxGroupName = 100

// LeaderboardView is one leaderboard page.
type LeaderboardView struct {
	GroupID int64                    `json:"group_id"`
	Period  view.LeaderboardPeriod   `json:"period"`
	Today   string                   `json:"today"`
	Entries []types.LeaderboardEntry `json:"entries"`
}

// GroupService manages group membership and leaderboards. Ranking is done
// upstream.
type GroupService struct {
	api TrackerAPI
	now func() time.Time
}

// NewGroupService creates a GroupService.
func NewGroupService(api TrackerAPI) *GroupService {
	return &GroupService{api: api, now: time.Now}
}

func (s *GroupService) List(ctx context.Context, token string) ([]types.Group, error) {
	groups, err := s.api.Groups(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	if groups == nil {
		groups = []types.Group{}
	}
	return groups, nil
}

func (s *GroupService) Create(ctx context.Context, token, name string) (*types.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("group name is required")
	}
	if len(name) > maxGroupName {
		return nil, invalid("group name must be at most %d characters", maxGroupName)
	}
	group, err := s.api.CreateGroup(ctx, token, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

// Join accepts invite codes as typed or pasted from a share link.
func (s *GroupService) Join(ctx context.Context, token, code string) (*types.Group, error) {
	code = strings.TrimSpace(code)
	if i := strings.LastIndex(code, "/"); i >= 0 {
		code = code[i+1:]
	}
	if code == "" {
		return nil, invalid("invite code is required")
	}
	group, err := s.api.JoinGroup(ctx, token, code)
	if err != nil {
		return nil, fmt.Errorf("failed to join group: %w", err)
	}
	return group, nil
}

// Leaderboard returns the ranking for period ending on today, which
// defaults to the current date.
func (s *GroupService) Leaderboard(ctx context.Context, token string, groupID int64, period view.LeaderboardPeriod, today string) (*LeaderboardView, error) {
	if today == "" {
		today = s.now().Format(nutrition.DateLayout)
	}
	if _, err := parseDate(today); err != nil {
		return nil, err
	}
	entries, err := s.api.Leaderboard(ctx, token, groupID, string(period), today)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	if entries == nil {
		entries = []types.LeaderboardEntry{}
	}
	return &LeaderboardView{GroupID: groupID, Period: period, Today: today, Entries: entries}, nil
}
