package calc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/coach-gateway/internal/profile"
)

func maleProfile() profile.Profile {
	return profile.Profile{
		Age:      profile.Ptr(30),
		WeightKg: profile.Ptr(80.0),
		HeightCm: profile.Ptr(180.0),
		Sex:      "male",
	}
}

func TestBMR_MifflinMaleLiteralSteps(t *testing.T) {
	r, err := BMR(maleProfile(), MifflinStJeor)
	require.NoError(t, err)
	require.True(t, r.IsValid)
	require.Len(t, r.Steps, 4)

	want := []struct {
		expr   string
		result float64
	}{
		{"10*80", 800},
		{"6.25*180", 1125},
		{"5*30", 150},
		{"800+1125-150+5", 1780},
	}
	for i, w := range want {
		assert.Equal(t, w.expr, r.Steps[i].Expression)
		assert.Equal(t, w.result, r.Steps[i].Result)
	}
	assert.Equal(t, 1780.0, r.FinalResult)
	assert.Equal(t, FormulaMifflinStJeor, r.FormulaID)
}

func TestBMR_MifflinFemale(t *testing.T) {
	p := profile.Profile{Age: profile.Ptr(30), WeightKg: profile.Ptr(65.0), HeightCm: profile.Ptr(165.0), Sex: "F"}
	r, err := BMR(p, "")
	require.NoError(t, err)
	assert.Equal(t, 1370.25, r.FinalResult)
}

func TestBMR_HarrisBenedictMale(t *testing.T) {
	r, err := BMR(maleProfile(), HarrisBenedict)
	require.NoError(t, err)
	assert.Equal(t, FormulaHarrisBenedict, r.FormulaID)
	assert.Equal(t, 1853.63, r.FinalResult)
}

func TestBMR_MissingDataIsTyped(t *testing.T) {
	_, err := BMR(profile.Profile{WeightKg: profile.Ptr(80.0)}, MifflinStJeor)
	var missing *MissingDataError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{profile.FieldAge, profile.FieldHeight, profile.FieldSex}, missing.Fields)
}

func TestBMR_UnknownFormula(t *testing.T) {
	_, err := BMR(maleProfile(), Formula("katch"))
	assert.Error(t, err)
}

func TestTDEE_ModerateLiteral(t *testing.T) {
	r := TDEE(1780, "moderate")
	require.True(t, r.IsValid)
	assert.Equal(t, 2759.0, r.FinalResult)
	assert.Equal(t, 1.55, r.Inputs["activity_multiplier"])
}

func TestActivityMultiplier(t *testing.T) {
	cases := []struct {
		in        string
		wantLevel string
		want      float64
	}{
		{"sedentary", ActivitySedentary, 1.2},
		{"Light", ActivityLight, 1.375},
		{"moderately active", ActivityModerate, 1.55},
		{"active", ActivityActive, 1.725},
		{"very active", ActivityExtreme, 1.9},
		{"athlete", ActivityExtreme, 1.9},
		{"couch potato", ActivitySedentary, 1.2},
		{"", ActivitySedentary, 1.2},
	}
	for _, tc := range cases {
		level, m := ActivityMultiplier(tc.in)
		assert.Equal(t, tc.wantLevel, level, tc.in)
		assert.Equal(t, tc.want, m, tc.in)
	}
}

func TestGoalAdjustment(t *testing.T) {
	cases := []struct {
		in    string
		label string
		kcal  float64
	}{
		{"lose_slow", GoalLoseSlow, -250},
		{"fat loss", GoalLoseModerate, -500},
		{"cut", GoalLoseModerate, -500},
		{"aggressive-cut", GoalLoseAggressive, -750},
		{"maintain", GoalMaintain, 0},
		{"bulk", GoalGainModerate, 350},
		{"Build Muscle", GoalGainModerate, 350},
		{"gain_aggressive", GoalGainAggressive, 500},
		{"become an astronaut", GoalMaintain, 0},
		{"I want to lose fat", GoalLoseModerate, -500},
		{"lose 10 pounds", GoalLoseModerate, -500},
		{"cutting", GoalLoseModerate, -500},
		{"get shredded and lean", GoalLoseModerate, -500},
		{"put on some muscle", GoalGainModerate, 350},
		{"lose fat and build muscle", GoalMaintain, 0},
	}
	for _, tc := range cases {
		label, kcal := GoalAdjustment(tc.in)
		assert.Equal(t, tc.label, label, tc.in)
		assert.Equal(t, tc.kcal, kcal, tc.in)
	}
	assert.Equal(t, "lose", GoalDirection("shred"))
	assert.Equal(t, "gain", GoalDirection("lean bulk"))
	assert.Equal(t, "maintain", GoalDirection(""))
}

func TestTargetCalories(t *testing.T) {
	r := TargetCalories(2759, "lose")
	assert.Equal(t, 2259.0, r.FinalResult)
	assert.Equal(t, "2759+-500", r.Steps[0].Expression)
}

func TestTargets_AppliesDefaults(t *testing.T) {
	got, err := Targets(maleProfile(), TargetOptions{})
	require.NoError(t, err)

	assert.Equal(t, ActivityModerate, got.ActivityLevel)
	assert.Equal(t, GoalMaintain, got.Goal)
	assert.Equal(t, 1780.0, got.BMR.FinalResult)
	assert.Equal(t, 2759.0, got.TDEE.FinalResult)
	assert.Equal(t, 2759.0, got.TargetCalories.FinalResult)
	assert.Len(t, got.DefaultsApplied, 5)

	m := got.Macros
	assert.Equal(t, 144.0, m.Protein.Grams)
	assert.Equal(t, 77.0, m.Fat.Grams)
	assert.Equal(t, 373.0, m.Carbs.Grams)
	assert.Equal(t, 2761.0, m.TotalCaloriesFromMacros)
	assert.True(t, m.IsAccurate)
	assert.Empty(t, got.SafetyWarnings)
}

func TestTargets_UsesProfileGoalAndOptions(t *testing.T) {
	p := maleProfile()
	p.ActivityLevel = "sedentary"
	p.Goal = "lose weight"
	got, err := Targets(p, TargetOptions{ProteinPerKg: 2.0, FatPct: 0.3})
	require.NoError(t, err)

	assert.Equal(t, GoalLoseModerate, got.Goal)
	assert.Equal(t, 2136.0, got.TDEE.FinalResult)
	assert.Equal(t, 1636.0, got.TargetCalories.FinalResult)
	assert.Equal(t, 160.0, got.Macros.Protein.Grams)
	assert.Equal(t, []string{"formula: mifflin_st_jeor"}, got.DefaultsApplied)
}

func TestTargets_RequiresBMRInputs(t *testing.T) {
	_, err := Targets(profile.Profile{Goal: "bulk"}, TargetOptions{})
	var missing *MissingDataError
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.Fields, 4)
}
