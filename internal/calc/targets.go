package calc

import (
	"github.com/dileep-u-k/coach-gateway/internal/profile"
)

// Defaults substituted for absent optional inputs.
const (
	DefaultFormula = MifflinStJeor
	DefaultFatPct  = 0.25

	ProteinPerKgLose     = 2.2
	ProteinPerKgMaintain = 1.8
	ProteinPerKgGain     = 2.0
)

// TargetOptions overrides parts of the target pipeline. Zero values mean
// "use the profile, then the documented default".
type TargetOptions struct {
	Formula      Formula
	ProteinPerKg float64
	// FatPct is a fraction of calories (0.25 for 25%).
	FatPct float64
}

// NutritionTargets is the full daily target derived from a profile.
type NutritionTargets struct {
	ActivityLevel   string            `json:"activity_level"`
	Goal            string            `json:"goal"`
	BMR             Result            `json:"bmr"`
	TDEE            Result            `json:"tdee"`
	TargetCalories  Result            `json:"target_calories"`
	Macros          MacroDistribution `json:"macros"`
	SafetyWarnings  []string          `json:"safety_warnings,omitempty"`
	DefaultsApplied []string          `json:"defaults_applied,omitempty"`
}

// ProteinPerKgForGoal picks the protein rate used when the caller gives none.
func ProteinPerKgForGoal(goal string) float64 {
	switch GoalDirection(goal) {
	case "lose":
		return ProteinPerKgLose
	case "gain":
		return ProteinPerKgGain
	default:
		return ProteinPerKgMaintain
	}
}

// Targets runs BMR, TDEE, goal adjustment, macro split and safety checks.
//
// Only the BMR inputs are required; a *MissingDataError names any that are
// absent. Every other gap is filled with a default and listed in
// DefaultsApplied.
func Targets(p profile.Profile, opts TargetOptions) (NutritionTargets, error) {
	var t NutritionTargets

	formula := opts.Formula
	if formula == "" {
		formula = DefaultFormula
		t.DefaultsApplied = append(t.DefaultsApplied, "formula: "+string(DefaultFormula))
	}

	bmr, err := BMR(p, formula)
	if err != nil {
		return NutritionTargets{}, err
	}
	t.BMR = bmr
	bmrValue, ok := bmr.Value()
	if !ok {
		return t, nil
	}

	level := p.ActivityLevel
	if !p.Has(profile.FieldActivity) {
		level = DefaultActivity
		t.DefaultsApplied = append(t.DefaultsApplied, "activity_level: "+DefaultActivity)
	}
	t.ActivityLevel, _ = ActivityMultiplier(level)
	t.TDEE = TDEE(bmrValue, level)

	goal := p.Goal
	if !p.Has(profile.FieldGoal) {
		goal = GoalMaintain
		t.DefaultsApplied = append(t.DefaultsApplied, "goal: "+GoalMaintain)
	}
	t.Goal, _ = GoalAdjustment(goal)

	tdee, ok := t.TDEE.Value()
	if !ok {
		return t, nil
	}
	t.TargetCalories = TargetCalories(tdee, goal)
	target, ok := t.TargetCalories.Value()
	if !ok {
		return t, nil
	}

	proteinRate := opts.ProteinPerKg
	if proteinRate <= 0 {
		proteinRate = ProteinPerKgForGoal(goal)
		t.DefaultsApplied = append(t.DefaultsApplied, "protein_per_kg: "+n(proteinRate))
	}
	fatPct := opts.FatPct
	if fatPct <= 0 {
		fatPct = DefaultFatPct
		t.DefaultsApplied = append(t.DefaultsApplied, "fat_pct: "+n(DefaultFatPct*100)+"%")
	}

	t.Macros = MacroSplit(target, *p.WeightKg, proteinRate, fatPct)
	t.SafetyWarnings = ValidateSafety(p, SafetyInput{
		TargetCalories: target,
		BMR:            bmrValue,
		ProteinGrams:   t.Macros.Protein.Grams,
		FatPct:         t.Macros.Fat.Pct,
	})
	return t, nil
}
