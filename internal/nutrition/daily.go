package nutrition

import (
	"math"
	"time"
)

// DateLayout is the calendar-date format used on the wire.
const DateLayout = "2006-01-02"

// FoodLogEntry is a logged food. ProteinG, Calories and CarbsG are totals,
// already multiplied by ServingQty.
type FoodLogEntry struct {
	ID         int64     `json:"id"`
	FoodName   string    `json:"food_name"`
	ProteinG   float64   `json:"protein_g"`
	Calories   float64   `json:"calories"`
	CarbsG     float64   `json:"carbs_g"`
	FdcID      *string   `json:"fdc_id,omitempty"`
	MealType   MealType  `json:"meal_type"`
	ServingQty float64   `json:"serving_qty"`
	LoggedAt   time.Time `json:"logged_at"`
}

// Goals are the denominators for percent-of-goal figures. They may come
// from a persisted profile rather than a fresh calculation.
type Goals struct {
	ProteinGoal float64 `json:"protein_goal"`
	CalorieGoal float64 `json:"calorie_goal"`
	CarbGoal    float64 `json:"carb_goal"`
}

// GoalsFromTargets converts calculator output into aggregation goals.
func GoalsFromTargets(t MacroTargets) Goals {
	return Goals{
		ProteinGoal: float64(t.ProteinGoalG),
		CalorieGoal: float64(t.CalorieGoal),
		CarbGoal:    float64(t.CarbGoalG),
	}
}

// Progress is the clamped percent-of-goal for each macro.
type Progress struct {
	ProteinPct int `json:"protein_pct"`
	CaloriePct int `json:"calorie_pct"`
	CarbPct    int `json:"carb_pct"`
}

// MealGroup is one non-empty meal section.
type MealGroup struct {
	MealType MealType       `json:"meal_type"`
	Label    string         `json:"label"`
	Entries  []FoodLogEntry `json:"entries"`
}

// DailySummary is the derived view of one calendar date.
type DailySummary struct {
	Date          string         `json:"date"`
	TotalProtein  float64        `json:"total_protein"`
	TotalCalories float64        `json:"total_calories"`
	TotalCarbs    float64        `json:"total_carbs"`
	ProteinGoal   float64        `json:"protein_goal"`
	CalorieGoal   float64        `json:"calorie_goal"`
	CarbGoal      float64        `json:"carb_goal"`
	Progress      Progress       `json:"progress"`
	Entries       []FoodLogEntry `json:"entries"`
	Meals         []MealGroup    `json:"meals"`
}

// Summarize reduces the entries of one date into a DailySummary. Entries are
// expected to share the date; they are kept in the order given.
func Summarize(date string, entries []FoodLogEntry, goals Goals) DailySummary {
	s := DailySummary{
		Date:        date,
		ProteinGoal: goals.ProteinGoal,
		CalorieGoal: goals.CalorieGoal,
		CarbGoal:    goals.CarbGoal,
		Entries:     make([]FoodLogEntry, len(entries)),
	}
	copy(s.Entries, entries)

	for _, e := range entries {
		s.TotalProtein += e.ProteinG
		s.TotalCalories += e.Calories
		s.TotalCarbs += e.CarbsG
	}

	s.Progress = Progress{
		ProteinPct: Percent(s.TotalProtein, goals.ProteinGoal),
		CaloriePct: Percent(s.TotalCalories, goals.CalorieGoal),
		CarbPct:    Percent(s.TotalCarbs, goals.CarbGoal),
	}
	s.Meals = GroupByMeal(s.Entries)
	return s
}

// Percent is round(total/goal*100) clamped to [0, 100]. A zero or
// non-finite goal yields 0.
func Percent(total, goal float64) int {
	if goal <= 0 || !isFinite(goal) || !isFinite(total) {
		return 0
	}
	return roundHalfUp(clampPercent(total / goal * 100))
}

// GroupByMeal partitions entries in canonical meal order, omitting empty
// groups and preserving input order within a group. Entries with a meal type
// outside the canonical four are not grouped.
func GroupByMeal(entries []FoodLogEntry) []MealGroup {
	buckets := make(map[MealType][]FoodLogEntry, len(MealOrder))
	for _, e := range entries {
		if !e.MealType.Valid() {
			continue
		}
		buckets[e.MealType] = append(buckets[e.MealType], e)
	}

	groups := make([]MealGroup, 0, len(MealOrder))
	for _, m := range MealOrder {
		items := buckets[m]
		if len(items) == 0 {
			continue
		}
		groups = append(groups, MealGroup{MealType: m, Label: m.Label(), Entries: items})
	}
	return groups
}

// LoggedAtFor places a new entry on the navigated date at the current clock
// time, so back-dated logs keep a realistic time of day.
func LoggedAtFor(date time.Time, now time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, now.Location())
}

func clampPercent(pct float64) float64 {
	return math.Max(0, math.Min(100, pct))
}
