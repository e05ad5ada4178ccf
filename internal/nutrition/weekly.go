package nutrition

import (
	"fmt"
	"time"
)

// WindowDays is the length of the rolling trend window.
const WindowDays = 7

// DayTotals are the summed macros of one date.
type DayTotals struct {
	Date          string  `json:"date"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCalories float64 `json:"total_calories"`
	TotalCarbs    float64 `json:"total_carbs"`
}

// TrendPoint is one bar of the weekly chart.
type TrendPoint struct {
	DayTotals
	ProteinPct float64 `json:"protein_pct"`
	Current    bool    `json:"current"`
}

// WeeklyTrend is seven chronological points ending at the reference date.
type WeeklyTrend struct {
	Days        []TrendPoint `json:"days"`
	ProteinGoal float64      `json:"protein_goal"`
	CalorieGoal float64      `json:"calorie_goal"`
	CarbGoal    float64      `json:"carb_goal"`
}

// WindowDates returns the seven dates ending at ref, oldest first.
func WindowDates(ref time.Time) []string {
	dates := make([]string, WindowDays)
	for i := 0; i < WindowDays; i++ {
		dates[i] = ref.AddDate(0, 0, i-(WindowDays-1)).Format(DateLayout)
	}
	return dates
}

// BuildWeeklyTrend lays the given day totals onto the window ending at ref.
// Days missing from the input count as zero; days outside the window are
// ignored. Each point carries min(100, protein/goal*100) unrounded.
func BuildWeeklyTrend(ref string, days []DayTotals, goals Goals) (WeeklyTrend, error) {
	refDate, err := time.Parse(DateLayout, ref)
	if err != nil {
		return WeeklyTrend{}, fmt.Errorf("invalid reference date %q (expected YYYY-MM-DD)", ref)
	}

	byDate := make(map[string]DayTotals, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}

	trend := WeeklyTrend{
		Days:        make([]TrendPoint, 0, WindowDays),
		ProteinGoal: goals.ProteinGoal,
		CalorieGoal: goals.CalorieGoal,
		CarbGoal:    goals.CarbGoal,
	}
	for _, date := range WindowDates(refDate) {
		totals, ok := byDate[date]
		if !ok {
			totals = DayTotals{Date: date}
		}
		trend.Days = append(trend.Days, TrendPoint{
			DayTotals:  totals,
			ProteinPct: BarPercent(totals.TotalProtein, goals.ProteinGoal),
			Current:    date == ref,
		})
	}
	return trend, nil
}

// BarPercent is min(100, total/goal*100) without rounding. A zero goal
// yields 0.
func BarPercent(total, goal float64) float64 {
	if goal <= 0 || !isFinite(goal) || !isFinite(total) {
		return 0
	}
	return clampPercent(total / goal * 100)
}
