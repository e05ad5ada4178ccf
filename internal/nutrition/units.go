package nutrition

import (
	"math"
	"strconv"
	"strings"
)

// WeightUnit is the unit a weight was entered in.
type WeightUnit string

const (
	Kilograms WeightUnit = "kg"
	Pounds    WeightUnit = "lbs"
)

// HeightUnit is the unit a height was entered in.
type HeightUnit string

const (
	Centimeters HeightUnit = "cm"
	FeetInches  HeightUnit = "ft"
)

const (
	poundsPerKilogram = 2.205
	cmPerFoot         = 30.48
	cmPerInch         = 2.54
	maxInches         = 11
)

// HeightInput carries a height in either unit system. Value is used for cm,
// Feet and Inches for ft. Nil fields are "not entered".
type HeightInput struct {
	Value  *float64
	Feet   *float64
	Inches *float64
}

// ToMetricWeight converts a weight to kilograms. It returns NaN for
// non-finite input or an unknown unit; callers must treat a non-finite
// result as insufficient input.
func ToMetricWeight(value float64, unit WeightUnit) float64 {
	if !isFinite(value) {
		return math.NaN()
	}
	switch unit {
	case Kilograms:
		return value
	case Pounds:
		return value / poundsPerKilogram
	default:
		return math.NaN()
	}
}

// ToMetricHeight converts a height to centimeters. For feet+inches both
// sub-fields are required, feet must be a whole number >= 0 and inches must
// lie in [0, 11]. Any violation yields NaN.
func ToMetricHeight(in HeightInput, unit HeightUnit) float64 {
	switch unit {
	case Centimeters:
		if in.Value == nil || !isFinite(*in.Value) {
			return math.NaN()
		}
		return *in.Value
	case FeetInches:
		if in.Feet == nil || in.Inches == nil {
			return math.NaN()
		}
		feet, inches := *in.Feet, *in.Inches
		if !isFinite(feet) || !isFinite(inches) {
			return math.NaN()
		}
		if feet < 0 || feet != math.Trunc(feet) || inches < 0 || inches > maxInches {
			return math.NaN()
		}
		return feet*cmPerFoot + inches*cmPerInch
	default:
		return math.NaN()
	}
}

// ParseWeight converts a raw form value to kilograms.
func ParseWeight(raw string, unit WeightUnit) float64 {
	v, ok := parseNumber(raw)
	if !ok {
		return math.NaN()
	}
	return ToMetricWeight(v, unit)
}

// ParseHeight converts raw form values to centimeters. value is read for cm,
// feet and inches for ft.
func ParseHeight(value, feet, inches string, unit HeightUnit) float64 {
	var in HeightInput
	if v, ok := parseNumber(value); ok {
		in.Value = &v
	}
	if v, ok := parseNumber(feet); ok {
		in.Feet = &v
	}
	if v, ok := parseNumber(inches); ok {
		in.Inches = &v
	}
	return ToMetricHeight(in, unit)
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
