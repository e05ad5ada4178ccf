package nutrition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestToMetricWeight(t *testing.T) {
	assert.Equal(t, 70.0, ToMetricWeight(70, Kilograms))
	assert.InDelta(t, 69.8413, ToMetricWeight(154, Pounds), 0.0001)
	assert.True(t, math.IsNaN(ToMetricWeight(70, WeightUnit("stone"))))
	assert.True(t, math.IsNaN(ToMetricWeight(math.Inf(1), Kilograms)))
}

func TestToMetricHeight(t *testing.T) {
	assert.Equal(t, 175.0, ToMetricHeight(HeightInput{Value: ptr(175)}, Centimeters))
	assert.InDelta(t, 175.26, ToMetricHeight(HeightInput{Feet: ptr(5), Inches: ptr(9)}, FeetInches), 1e-9)

	tests := []struct {
		name string
		in   HeightInput
	}{
		{"missing inches", HeightInput{Feet: ptr(5)}},
		{"missing feet", HeightInput{Inches: ptr(9)}},
		{"fractional feet", HeightInput{Feet: ptr(5.5), Inches: ptr(0)}},
		{"negative feet", HeightInput{Feet: ptr(-1), Inches: ptr(0)}},
		{"inches above 11", HeightInput{Feet: ptr(5), Inches: ptr(12)}},
		{"negative inches", HeightInput{Feet: ptr(5), Inches: ptr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, math.IsNaN(ToMetricHeight(tt.in, FeetInches)))
		})
	}

	assert.True(t, math.IsNaN(ToMetricHeight(HeightInput{}, Centimeters)))
}

func TestParseWeightAndHeight(t *testing.T) {
	assert.InDelta(t, 69.8413, ParseWeight(" 154 ", Pounds), 0.0001)
	assert.True(t, math.IsNaN(ParseWeight("abc", Kilograms)))
	assert.True(t, math.IsNaN(ParseWeight("", Kilograms)))

	assert.InDelta(t, 175.26, ParseHeight("", "5", "9", FeetInches), 1e-9)
	assert.InDelta(t, 180.0, ParseHeight("180", "", "", Centimeters), 1e-9)
	assert.True(t, math.IsNaN(ParseHeight("", "5", "", FeetInches)))
	assert.True(t, math.IsNaN(ParseHeight("NaN", "", "", Centimeters)))
}
