package service

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"

	"github.com/pageza/proteinpal/internal/nutrition"
	"github.com/pageza/proteinpal/internal/tracker"
	"github.com/pageza/proteinpal/internal/types"
	"github.com/pageza/proteinpal/internal/view"
)

// MealPlan is a suggestion with what has been eaten so far already
// worked out.
type MealPlan struct {
	Date       string                 `json:"date"`
	Plan       types.MealPlanResponse `json:"plan"`
	EatenSoFar nutrition.DayTotals    `json:"eaten_so_far"`
}

var errMealPlanFailed = errors.New("failed to generate meal plan")

// MealPlanService runs the meal plan flow per user. A failed fetch leaves
// the flow in error until the user fetches again or clears it.
type MealPlanService struct {
	api TrackerAPI

	mu    sync.Mutex
	flows map[int64]*view.Flow[MealPlan]
}

// NewMealPlanService creates a MealPlanService with every flow idle.
func NewMealPlanService(api TrackerAPI) *MealPlanService {
	return &MealPlanService{api: api, flows: make(map[int64]*view.Flow[MealPlan])}
}

// Fetch requests a plan for date and returns the resulting flow snapshot.
// Upstream failures end in the error state rather than an error return;
// only a bad date or a rejected token is returned as an error.
func (s *MealPlanService) Fetch(ctx context.Context, userID int64, token, date string) (view.Snapshot[MealPlan], error) {
	if _, err := parseDate(date); err != nil {
		return view.Snapshot[MealPlan]{}, err
	}

	flow := s.flow(userID)
	flow.Start()

	resp, err := s.api.MealPlan(ctx, token, date)
	if err != nil {
		log.Printf("[MealPlanService] plan for user %d on %s failed: %v", userID, date, err)
		flow.Fail(errMealPlanFailed)
		if tracker.IsUnauthorized(err) {
			return flow.Snapshot(), err
		}
		return flow.Snapshot(), nil
	}

	flow.Succeed(MealPlan{Date: date, Plan: *resp, EatenSoFar: EatenSoFar(resp)})
	return flow.Snapshot(), nil
}

// Status returns the current flow without fetching.
func (s *MealPlanService) Status(userID int64) view.Snapshot[MealPlan] {
	return s.flow(userID).Snapshot()
}

// Clear resets the flow to idle.
func (s *MealPlanService) Clear(userID int64) {
	s.flow(userID).Reset()
}

func (s *MealPlanService) flow(userID int64) *view.Flow[MealPlan] {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[userID]
	if !ok {
		f = &view.Flow[MealPlan]{}
		s.flows[userID] = f
	}
	return f
}

// EatenSoFar is the projected day total minus the meals still to come,
// floored at zero.
func EatenSoFar(plan *types.MealPlanResponse) nutrition.DayTotals {
	var protein, calories, carbs float64
	for _, m := range plan.MealPlan {
		if m.AlreadyEaten {
			continue
		}
		protein += m.MealProtein
		calories += m.MealCalories
		carbs += m.MealCarbs
	}
	return nutrition.DayTotals{
		TotalProtein:  math.Max(0, plan.DaySummary.TotalProtein-protein),
		TotalCalories: math.Max(0, plan.DaySummary.TotalCalories-calories),
		TotalCarbs:    math.Max(0, plan.DaySummary.TotalCarbs-carbs),
	}
}
