package nutrition

import (
	"errors"
	"fmt"
	"math"
)

// Sex selects the Mifflin-St Jeor constant.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ActivityLevel scales BMR into TDEE.
type ActivityLevel string

const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

// GoalType drives the calorie adjustment and macro split.
type GoalType string

const (
	GoalLose     GoalType = "lose"
	GoalMaintain GoalType = "maintain"
	GoalGain     GoalType = "gain"
	GoalRecomp   GoalType = "recomp"
)

const (
	MinAge = 10
	MaxAge = 100

	MaxWeightKg = 700
	MaxHeightCm = 300

	minCarbGrams     = 50
	loseDeficit      = 500
	gainSurplus      = 250
	kcalPerGramProt  = 4
	kcalPerGramCarbs = 4
	kcalPerGramFat   = 9
)

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// ErrIncompleteProfile is returned when a biometric field is missing or out
// of range. No targets are produced in that case.
var ErrIncompleteProfile = errors.New("incomplete biometric profile")

// ProfileError names the field that blocked the calculation.
type ProfileError struct {
	Field   string
	Message string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ProfileError) Unwrap() error {
	return ErrIncompleteProfile
}

// BiometricProfile is the immutable input to a calculation.
type BiometricProfile struct {
	Age           int           `json:"age"`
	WeightKg      float64       `json:"weight_kg"`
	HeightCm      float64       `json:"height_cm"`
	Sex           Sex           `json:"sex"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	GoalType      GoalType      `json:"goal_type"`
}

// MacroTargets are derived daily targets.
type MacroTargets struct {
	BMR          int `json:"bmr"`
	TDEE         int `json:"tdee"`
	ProteinGoalG int `json:"protein_goal_g"`
	CalorieGoal  int `json:"calorie_goal"`
	CarbGoalG    int `json:"carb_goal_g"`
}

// Validate reports the first field that makes the profile unusable.
func (p BiometricProfile) Validate() error {
	if p.Age < MinAge || p.Age > MaxAge {
		return &ProfileError{Field: "age", Message: fmt.Sprintf("must be between %d and %d", MinAge, MaxAge)}
	}
	if !isFinite(p.WeightKg) || p.WeightKg <= 0 || p.WeightKg > MaxWeightKg {
		return &ProfileError{Field: "weight_kg", Message: fmt.Sprintf("must be a positive number up to %d kg", MaxWeightKg)}
	}
	if !isFinite(p.HeightCm) || p.HeightCm <= 0 || p.HeightCm > MaxHeightCm {
		return &ProfileError{Field: "height_cm", Message: fmt.Sprintf("must be a positive number up to %d cm", MaxHeightCm)}
	}
	if p.Sex != Male && p.Sex != Female {
		return &ProfileError{Field: "sex", Message: "must be male or female"}
	}
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		return &ProfileError{Field: "activity_level", Message: "unknown activity level"}
	}
	switch p.GoalType {
	case GoalLose, GoalMaintain, GoalGain, GoalRecomp:
	default:
		return &ProfileError{Field: "goal_type", Message: "unknown goal type"}
	}
	return nil
}

// Calculate derives MacroTargets using Mifflin-St Jeor. BMR is rounded
// before the activity multiplier is applied, and protein and fat are rounded
// before they are subtracted from the calorie budget.
func Calculate(p BiometricProfile) (MacroTargets, error) {
	if err := p.Validate(); err != nil {
		return MacroTargets{}, err
	}

	bmr := roundHalfUp(BMR(p.WeightKg, p.HeightCm, p.Age, p.Sex))
	tdee := roundHalfUp(float64(bmr) * activityMultipliers[p.ActivityLevel])
	calories := CalorieGoal(tdee, p.GoalType)
	protein := roundHalfUp(p.WeightKg * proteinPerKg(p.GoalType))
	fat := roundHalfUp(p.WeightKg * fatPerKg(p.GoalType))

	return MacroTargets{
		BMR:          bmr,
		TDEE:         tdee,
		ProteinGoalG: protein,
		CalorieGoal:  calories,
		CarbGoalG:    CarbGoal(calories, protein, fat),
	}, nil
}

// BMR is the unrounded Mifflin-St Jeor estimate.
func BMR(weightKg, heightCm float64, age int, sex Sex) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == Female {
		return base - 161
	}
	return base + 5
}

// CalorieGoal adjusts a rounded TDEE for the goal type.
func CalorieGoal(tdee int, goal GoalType) int {
	switch goal {
	case GoalLose:
		return tdee - loseDeficit
	case GoalGain:
		return tdee + gainSurplus
	default:
		return tdee
	}
}

// CarbGoal spends what is left of the calorie budget on carbs, floored at 50g.
func CarbGoal(calories, proteinG, fatG int) int {
	remaining := float64(calories-proteinG*kcalPerGramProt-fatG*kcalPerGramFat) / kcalPerGramCarbs
	carbs := roundHalfUp(remaining)
	if carbs < minCarbGrams {
		return minCarbGrams
	}
	return carbs
}

func proteinPerKg(goal GoalType) float64 {
	switch goal {
	case GoalRecomp:
		return 2.6
	case GoalMaintain:
		return 1.6
	default:
		return 2.0
	}
}

func fatPerKg(goal GoalType) float64 {
	if goal == GoalRecomp {
		return 0.7
	}
	return 0.8
}

// roundHalfUp rounds x.5 toward +Inf.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
