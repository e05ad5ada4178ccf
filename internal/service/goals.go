package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/pageza/proteinpal/internal/nutrition"
	"github.com/pageza/proteinpal/internal/types"
)

// CalculatorInput is the macro calculator form. Weight and height are in
// the units the user picked; nil means the field was left empty.
type CalculatorInput struct {
	Age           *float64             `json:"age"`
	Weight        *float64             `json:"weight"`
	WeightUnit    nutrition.WeightUnit `json:"weight_unit"`
	Height        *float64             `json:"height"`
	HeightFeet    *float64             `json:"height_feet"`
	HeightInches  *float64             `json:"height_inches"`
	HeightUnit    nutrition.HeightUnit `json:"height_unit"`
	Sex           string               `json:"sex"`
	ActivityLevel string               `json:"activity_level"`
	GoalType      string               `json:"goal_type"`
}

// Profile normalizes the form into a metric BiometricProfile. Unit
// conversion failures surface as incomplete-profile errors from Validate.
func (in CalculatorInput) Profile() nutrition.BiometricProfile {
	weightUnit, heightUnit := defaultUnits(in.WeightUnit, in.HeightUnit)

	weight := math.NaN()
	if in.Weight != nil {
		weight = nutrition.ToMetricWeight(*in.Weight, weightUnit)
	}
	height := nutrition.ToMetricHeight(nutrition.HeightInput{
		Value:  in.Height,
		Feet:   in.HeightFeet,
		Inches: in.HeightInches,
	}, heightUnit)

	return buildProfile(in.Age, weight, height, in.Sex, in.ActivityLevel, in.GoalType)
}

// CalculatorForm is the calculator as raw text fields, as posted by an
// HTML form. Blank or unparseable numbers count as not entered.
type CalculatorForm struct {
	Age           string `form:"age"`
	Weight        string `form:"weight"`
	WeightUnit    string `form:"weight_unit"`
	Height        string `form:"height"`
	HeightFeet    string `form:"height_feet"`
	HeightInches  string `form:"height_inches"`
	HeightUnit    string `form:"height_unit"`
	Sex           string `form:"sex"`
	ActivityLevel string `form:"activity_level"`
	GoalType      string `form:"goal_type"`
}

func (f CalculatorForm) Profile() nutrition.BiometricProfile {
	weightUnit, heightUnit := defaultUnits(
		nutrition.WeightUnit(strings.ToLower(strings.TrimSpace(f.WeightUnit))),
		nutrition.HeightUnit(strings.ToLower(strings.TrimSpace(f.HeightUnit))),
	)

	var age *float64
	if v, err := strconv.ParseFloat(strings.TrimSpace(f.Age), 64); err == nil {
		age = &v
	}
	return buildProfile(age,
		nutrition.ParseWeight(f.Weight, weightUnit),
		nutrition.ParseHeight(f.Height, f.HeightFeet, f.HeightInches, heightUnit),
		f.Sex, f.ActivityLevel, f.GoalType)
}

// ProfileSource is a calculator submission in any encoding.
type ProfileSource interface {
	Profile() nutrition.BiometricProfile
}

func defaultUnits(w nutrition.WeightUnit, h nutrition.HeightUnit) (nutrition.WeightUnit, nutrition.HeightUnit) {
	if w == "" {
		w = nutrition.Kilograms
	}
	if h == "" {
		h = nutrition.Centimeters
	}
	return w, h
}

// buildProfile assembles a profile from metric values. A missing,
// fractional or out-of-range age becomes 0 so that Validate rejects it.
func buildProfile(age *float64, weightKg, heightCm float64, sex, activity, goal string) nutrition.BiometricProfile {
	years := 0
	if age != nil && *age == math.Trunc(*age) && *age >= nutrition.MinAge && *age <= nutrition.MaxAge {
		years = int(*age)
	}
	return nutrition.BiometricProfile{
		Age:           years,
		WeightKg:      weightKg,
		HeightCm:      heightCm,
		Sex:           nutrition.Sex(strings.ToLower(strings.TrimSpace(sex))),
		ActivityLevel: nutrition.ActivityLevel(strings.ToLower(strings.TrimSpace(activity))),
		GoalType:      nutrition.GoalType(strings.ToLower(strings.TrimSpace(goal))),
	}
}

// CalculationResult pairs the normalized profile with its targets.
type CalculationResult struct {
	Profile nutrition.BiometricProfile `json:"profile"`
	Targets nutrition.MacroTargets     `json:"targets"`
	Applied bool                       `json:"applied"`
	User    *types.User                `json:"user,omitempty"`
}

// GoalsService runs the macro calculator and stores goals upstream.
type GoalsService struct {
	api TrackerAPI
}

// NewGoalsService creates a GoalsService backed by the tracker.
func NewGoalsService(api TrackerAPI) *GoalsService {
	return &GoalsService{api: api}
}

// Calculate derives targets without side effects.
func (s *GoalsService) Calculate(in ProfileSource) (*CalculationResult, error) {
	profile := in.Profile()
	targets, err := nutrition.Calculate(profile)
	if err != nil {
		return nil, err
	}
	return &CalculationResult{Profile: profile, Targets: targets}, nil
}

// CalculateAndApply derives targets and stores them, with the profile, as
// the user's goals.
func (s *GoalsService) CalculateAndApply(ctx context.Context, token string, in ProfileSource) (*CalculationResult, error) {
	res, err := s.Calculate(in)
	if err != nil {
		return nil, err
	}
	user, err := s.api.UpdateProfile(ctx, token, types.ProfileUpdateFrom(res.Profile, res.Targets))
	if err != nil {
		return nil, fmt.Errorf("failed to apply goals: %w", err)
	}
	log.Printf("[GoalsService] applied goals for user %d: protein=%d calories=%d carbs=%d",
		user.ID, res.Targets.ProteinGoalG, res.Targets.CalorieGoal, res.Targets.CarbGoalG)
	res.Applied = true
	res.User = user
	return res, nil
}

// SetGoals stores goals entered by hand. At least one goal is required and
// none may be negative.
func (s *GoalsService) SetGoals(ctx context.Context, token string, goals types.GoalUpdate) (*types.User, error) {
	set := 0
	for _, g := range []*float64{goals.ProteinGoal, goals.CalorieGoal, goals.CarbGoal} {
		if g == nil {
			continue
		}
		if *g < 0 || math.IsNaN(*g) || math.IsInf(*g, 0) {
			return nil, invalid("goals must be non-negative numbers")
		}
		set++
	}
	if set == 0 {
		return nil, invalid("at least one goal is required")
	}

	user, err := s.api.UpdateGoals(ctx, token, goals)
	if err != nil {
		return nil, fmt.Errorf("failed to update goals: %w", err)
	}
	return user, nil
}
