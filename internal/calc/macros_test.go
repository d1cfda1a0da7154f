package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/coach-gateway/internal/profile"
)

func TestMacroSplit_TotalIsRecomputedFromGrams(t *testing.T) {
	for _, calories := range []float64{1400, 1636, 2000, 2259, 2759, 3100, 3650} {
		for _, weight := range []float64{55, 72.5, 80, 104} {
			d := MacroSplit(calories, weight, 2.0, 0.25)
			require.True(t, d.IsValid)

			identity := d.Protein.Grams*4 + d.Carbs.Grams*4 + d.Fat.Grams*9
			assert.Equal(t, identity, d.TotalCaloriesFromMacros)
			assert.Equal(t, identity, d.RecomputeTotal())
			assert.Equal(t, math.Abs(identity-calories) <= MacroTolerance, d.IsAccurate)
		}
	}
}

func TestMacroSplit_ClampsNegativeCarbs(t *testing.T) {
	d := MacroSplit(1000, 120, 2.2, 0.25)
	require.True(t, d.IsValid)
	assert.Equal(t, 0.0, d.Carbs.Grams)
	assert.Equal(t, 264.0, d.Protein.Grams)
	assert.Equal(t, 1308.0, d.TotalCaloriesFromMacros)
	assert.False(t, d.IsAccurate)
	assert.Len(t, d.Warnings, 2)
}

func TestMacroSplit_RejectsBadInputs(t *testing.T) {
	d := MacroSplit(0, 80, 2, 0.25)
	assert.False(t, d.IsValid)
	assert.NotEmpty(t, d.Warnings)

	d = MacroSplit(2000, 80, 2, 1.2)
	assert.False(t, d.IsValid)
}

func TestBodyFatNavy_Male(t *testing.T) {
	r, err := BodyFatNavy(Circumference{Sex: "male", Unit: UnitMetric, Height: 180, Waist: 85, Neck: 38})
	require.NoError(t, err)
	require.True(t, r.IsValid)
	assert.Equal(t, 16.11, r.FinalResult)
	assert.Equal(t, 1.672098, r.Inputs["log10_girth"])
}

func TestBodyFatNavy_FemaleNeedsHip(t *testing.T) {
	_, err := BodyFatNavy(Circumference{Sex: "female", Height: 165, Waist: 75, Neck: 34})
	var missing *MissingDataError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"hip"}, missing.Fields)

	r, err := BodyFatNavy(Circumference{Sex: "female", Height: 165, Waist: 75, Hip: 100, Neck: 34})
	require.NoError(t, err)
	assert.Equal(t, 28.94, r.FinalResult)
}

func TestBodyFatNavy_ImperialConvertsFirst(t *testing.T) {
	r, err := BodyFatNavy(Circumference{Sex: "m", Unit: UnitImperial, Height: 70, Waist: 34, Neck: 15})
	require.NoError(t, err)
	assert.Equal(t, "70*2.54", r.Steps[0].Expression)
	assert.Equal(t, 177.8, r.Inputs["height_cm"])
}

func TestBodyFatNavy_NeckWiderThanWaist(t *testing.T) {
	_, err := BodyFatNavy(Circumference{Sex: "male", Height: 180, Waist: 30, Neck: 40})
	assert.Error(t, err)
}

func TestLeanBodyMass(t *testing.T) {
	r := LeanBodyMass(80, 20)
	require.True(t, r.IsValid)
	assert.Equal(t, 64.0, r.FinalResult)
	assert.Equal(t, 16.0, r.Steps[0].Result)

	assert.False(t, LeanBodyMass(80, 100).IsValid)
	assert.False(t, LeanBodyMass(0, 20).IsValid)
}

func TestUnitConversions(t *testing.T) {
	assert.Equal(t, 79.83, PoundsToKg(176).FinalResult)
	assert.Equal(t, 176.37, KgToPounds(80).FinalResult)
	assert.Equal(t, 25.4, InchesToCm(10).FinalResult)
	assert.Equal(t, 70.87, CmToInches(180).FinalResult)

	h := FeetInchesToCm(5, 11)
	require.Len(t, h.Steps, 2)
	assert.Equal(t, 71.0, h.Steps[0].Result)
	assert.Equal(t, 180.34, h.FinalResult)
}

func TestValidateSafety(t *testing.T) {
	p := profile.Profile{WeightKg: profile.Ptr(80.0)}

	assert.Empty(t, ValidateSafety(p, SafetyInput{TargetCalories: 2000, BMR: 1780, ProteinGrams: 160, FatPct: 25}))

	warnings := ValidateSafety(p, SafetyInput{TargetCalories: 1200, BMR: 1780, ProteinGrams: 50, FatPct: 15})
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "80%")
	assert.Contains(t, warnings[1], "0.63 g/kg")
	assert.Contains(t, warnings[2], "15%")

	// Without a weight the protein check is skipped.
	assert.Len(t, ValidateSafety(profile.Profile{}, SafetyInput{ProteinGrams: 10}), 0)
}
