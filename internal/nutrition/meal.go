package nutrition

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MealType is the meal an entry was logged against.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealOrder is the canonical presentation order.
var MealOrder = []MealType{Breakfast, Lunch, Dinner, Snack}

var mealCaser = cases.Title(language.English)

// Valid reports whether m is one of the four canonical meal types.
func (m MealType) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// Label is the display name, e.g. "Breakfast".
func (m MealType) Label() string {
	return mealCaser.String(string(m))
}

// ParseMealType normalizes a submitted meal type. An empty value defaults to
// snack, matching the tracker's column default.
func ParseMealType(raw string) (MealType, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return Snack, nil
	}
	m := MealType(raw)
	if !m.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownMeal, raw)
	}
	return m, nil
}

// DefaultMealType guesses the meal from the local hour of day.
func DefaultMealType(hour int) MealType {
	switch {
	case hour < 11:
		return Breakfast
	case hour < 15:
		return Lunch
	case hour < 20:
		return Dinner
	default:
		return Snack
	}
}
