package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pageza/proteinpal/internal/nutrition"
	"github.com/pageza/proteinpal/internal/tracker"
	"github.com/pageza/proteinpal/internal/types"
)

// DashboardView is what the dashboard page renders.
type DashboardView struct {
	Date      string                 `json:"date"`
	Daily     nutrition.DailySummary `json:"daily"`
	Weekly    nutrition.WeeklyTrend  `json:"weekly"`
	FetchedAt time.Time              `json:"fetched_at"`
	Stale     bool                   `json:"stale"`
	Error     string                 `json:"error,omitempty"`
}

// DashboardService fetches the daily and weekly data for a date in parallel
// and keeps the last good view per user. When a fetch fails the last good
// view is served again, flagged stale.
//
// Views are stored last-write-wins: a slow response for an older request
// can overwrite a newer one.
type DashboardService struct {
	api TrackerAPI
	now func() time.Time

	mu    sync.Mutex
	views map[int64]DashboardView
}

// NewDashboardService creates a DashboardService with an empty view cache.
func NewDashboardService(api TrackerAPI) *DashboardService {
	return &DashboardService{
		api:   api,
		now:   time.Now,
		views: make(map[int64]DashboardView),
	}
}

// Load builds the dashboard for date. On failure it returns the last good
// view marked stale together with a nil error; with nothing to fall back
// on it returns an error wrapping ErrDashboardUnavailable. A rejected token
// is returned as-is so the caller can end the session.
func (s *DashboardService) Load(ctx context.Context, userID int64, token, date string) (*DashboardView, error) {
	if _, err := parseDate(date); err != nil {
		return nil, err
	}

	var (
		daily  *types.DailySummary
		weekly *types.WeeklyResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		daily, err = s.api.DailySummary(gctx, token, date)
		return err
	})
	g.Go(func() error {
		var err error
		weekly, err = s.api.Weekly(gctx, token, date)
		return err
	})

	err := g.Wait()
	if err == nil {
		var view DashboardView
		view, err = s.build(date, daily, weekly)
		if err == nil {
			s.mu.Lock()
			s.views[userID] = view
			s.mu.Unlock()
			return &view, nil
		}
	}

	log.Printf("[DashboardService] fetch for user %d on %s failed: %v", userID, date, err)
	s.mu.Lock()
	last, ok := s.views[userID]
	s.mu.Unlock()
	if tracker.IsUnauthorized(err) || !ok {
		return nil, fmt.Errorf("%w: %w", ErrDashboardUnavailable, err)
	}
	last.Stale = true
	last.Error = err.Error()
	return &last, nil
}

// Forget drops the cached view, e.g. on logout.
func (s *DashboardService) Forget(userID int64) {
	s.mu.Lock()
	delete(s.views, userID)
	s.mu.Unlock()
}

func (s *DashboardService) build(date string, daily *types.DailySummary, weekly *types.WeeklyResponse) (DashboardView, error) {
	summary := nutrition.Summarize(date, types.Entries(daily.Entries), daily.Goals())
	trend, err := nutrition.BuildWeeklyTrend(date, weekly.Days, weekly.Goals())
	if err != nil {
		return DashboardView{}, err
	}
	return DashboardView{
		Date:      date,
		Daily:     summary,
		Weekly:    trend,
		FetchedAt: s.now(),
	}, nil
}
