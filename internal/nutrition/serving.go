package nutrition

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MinServingQty is the smallest serving multiplier accepted anywhere.
const MinServingQty = 0.1

var (
	ErrInvalidServing = errors.New("serving quantity must be at least 0.1")
	ErrEmptyFoodName  = errors.New("food name is required")
	ErrNegativeMacro  = errors.New("macro values must not be negative")
	ErrUnknownMeal    = errors.New("unknown meal type")
)

// EditForm holds per-serving values as shown in the edit dialog. Stored
// entries hold totals; the two are related by
// stored_total = per_serving * serving_qty.
type EditForm struct {
	ID         int64     `json:"id"`
	FoodName   string    `json:"food_name"`
	ProteinG   float64   `json:"protein_g"`
	Calories   float64   `json:"calories"`
	CarbsG     float64   `json:"carbs_g"`
	ServingQty float64   `json:"serving_qty"`
	MealType   MealType  `json:"meal_type"`
	LoggedAt   time.Time `json:"logged_at"`
}

// ValidateServing rejects quantities below MinServingQty, so that no edit
// path ever divides by zero.
func ValidateServing(qty float64) error {
	if !isFinite(qty) || qty < MinServingQty {
		return fmt.Errorf("%w: got %v", ErrInvalidServing, qty)
	}
	return nil
}

// StoredTotal scales a per-serving value to the stored total.
func StoredTotal(perServing, servingQty float64) float64 {
	return perServing * servingQty
}

// PerServing recovers the per-serving value from a stored total.
func PerServing(total, servingQty float64) (float64, error) {
	if err := ValidateServing(servingQty); err != nil {
		return 0, err
	}
	return total / servingQty, nil
}

// FormFromEntry opens the edit dialog for a stored entry.
func FormFromEntry(e FoodLogEntry) (EditForm, error) {
	var per [3]float64
	for i, total := range []float64{e.ProteinG, e.Calories, e.CarbsG} {
		v, err := PerServing(total, e.ServingQty)
		if err != nil {
			return EditForm{}, err
		}
		per[i] = v
	}
	return EditForm{
		ID:         e.ID,
		FoodName:   e.FoodName,
		ProteinG:   per[0],
		Calories:   per[1],
		CarbsG:     per[2],
		ServingQty: e.ServingQty,
		MealType:   e.MealType,
		LoggedAt:   e.LoggedAt,
	}, nil
}

// Validate checks the form before it is saved.
func (f EditForm) Validate() error {
	if strings.TrimSpace(f.FoodName) == "" {
		return ErrEmptyFoodName
	}
	if err := ValidateServing(f.ServingQty); err != nil {
		return err
	}
	for _, v := range []float64{f.ProteinG, f.Calories, f.CarbsG} {
		if !isFinite(v) || v < 0 {
			return ErrNegativeMacro
		}
	}
	if !f.MealType.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownMeal, f.MealType)
	}
	return nil
}

// Apply returns e updated from the form, with macro totals rescaled. The
// original logged_at is kept unless the form carries a different one.
func (f EditForm) Apply(e FoodLogEntry) (FoodLogEntry, error) {
	if err := f.Validate(); err != nil {
		return FoodLogEntry{}, err
	}
	e.FoodName = strings.TrimSpace(f.FoodName)
	e.ProteinG = StoredTotal(f.ProteinG, f.ServingQty)
	e.Calories = StoredTotal(f.Calories, f.ServingQty)
	e.CarbsG = StoredTotal(f.CarbsG, f.ServingQty)
	e.ServingQty = f.ServingQty
	e.MealType = f.MealType
	if !f.LoggedAt.IsZero() {
		e.LoggedAt = f.LoggedAt
	}
	return e, nil
}
