package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func entry(id int64, name string, meal MealType, protein, calories float64) FoodLogEntry {
	return FoodLogEntry{ID: id, FoodName: name, MealType: meal, ProteinG: protein, Calories: calories, ServingQty: 1}
}

func TestSummarizeTotalsAndPercent(t *testing.T) {
	entries := []FoodLogEntry{
		entry(1, "Eggs", Breakfast, 18, 210),
		entry(2, "Chicken", Dinner, 62, 480),
		entry(3, "Shake", Snack, 25, 130),
	}
	entries[1].CarbsG = 40

	s := Summarize("2024-03-01", entries, Goals{ProteinGoal: 150, CalorieGoal: 2000, CarbGoal: 0})

	assert.Equal(t, 105.0, s.TotalProtein)
	assert.Equal(t, 820.0, s.TotalCalories)
	assert.Equal(t, 40.0, s.TotalCarbs)
	assert.Equal(t, 70, s.Progress.ProteinPct)
	assert.Equal(t, 41, s.Progress.CaloriePct)
	assert.Equal(t, 0, s.Progress.CarbPct)
	assert.Len(t, s.Entries, 3)
}

func TestPercentClamped(t *testing.T) {
	assert.Equal(t, 100, Percent(5000, 150))
	assert.Equal(t, 100, Percent(1e300, 1e-300))
	assert.Equal(t, 0, Percent(-20, 150))
	assert.Equal(t, 0, Percent(80, 0))
	assert.Equal(t, 53, Percent(80, 150))
	for total := 0.0; total < 10000; total += 137 {
		pct := Percent(total, 123)
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
	}
}

func TestGroupByMeal(t *testing.T) {
	entries := []FoodLogEntry{
		entry(1, "Shake", Snack, 25, 130),
		entry(2, "Toast", Breakfast, 6, 180),
		entry(3, "Bar", Snack, 20, 200),
		entry(4, "Odd", MealType("brunch"), 1, 1),
		entry(5, "Eggs", Breakfast, 18, 210),
	}

	groups := GroupByMeal(entries)
	assert.Len(t, groups, 2)
	assert.Equal(t, Breakfast, groups[0].MealType)
	assert.Equal(t, "Breakfast", groups[0].Label)
	assert.Equal(t, []int64{2, 5}, ids(groups[0].Entries))
	assert.Equal(t, Snack, groups[1].MealType)
	assert.Equal(t, []int64{1, 3}, ids(groups[1].Entries))
}

func TestGroupByMealEmpty(t *testing.T) {
	assert.Empty(t, GroupByMeal(nil))
}

func TestLoggedAtFor(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 5, 14, 22, 9, 500, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 22, 9, 0, time.UTC), LoggedAtFor(date, now))
}

func TestParseMealType(t *testing.T) {
	m, err := ParseMealType("")
	assert.NoError(t, err)
	assert.Equal(t, Snack, m)

	m, err = ParseMealType(" Dinner ")
	assert.NoError(t, err)
	assert.Equal(t, Dinner, m)

	_, err = ParseMealType("brunch")
	assert.Error(t, err)
}

func TestDefaultMealType(t *testing.T) {
	assert.Equal(t, Breakfast, DefaultMealType(7))
	assert.Equal(t, Lunch, DefaultMealType(12))
	assert.Equal(t, Dinner, DefaultMealType(18))
	assert.Equal(t, Snack, DefaultMealType(22))
}

func ids(entries []FoodLogEntry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
