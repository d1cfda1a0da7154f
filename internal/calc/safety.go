package calc

import (
	"fmt"

	"github.com/dileep-u-k/coach-gateway/internal/expr"
	"github.com/dileep-u-k/coach-gateway/internal/profile"
)

// Safety thresholds. Crossing one produces a warning, never an error.
const (
	MinTargetBMRRatio   = 0.80
	MinProteinPerKg     = 0.8
	MinFatPctOfCalories = 20.0
)

// SafetyInput is a computed target to check against the profile.
// FatPct is a percentage of calories (25 for 25%).
type SafetyInput struct {
	TargetCalories float64
	BMR            float64
	ProteinGrams   float64
	FatPct         float64
}

// ValidateSafety returns human-readable warnings for targets that fall below
// conservative floors. Checks whose inputs are absent are skipped.
func ValidateSafety(p profile.Profile, in SafetyInput) []string {
	var warnings []string

	if in.BMR > 0 && in.TargetCalories > 0 && in.TargetCalories < in.BMR*MinTargetBMRRatio {
		warnings = append(warnings, fmt.Sprintf(
			"target of %s kcal is below 80%% of your BMR (%s kcal); intakes this low are hard to sustain and should be supervised",
			n(in.TargetCalories), n(in.BMR)))
	}

	if p.WeightKg != nil && *p.WeightKg > 0 && in.ProteinGrams > 0 {
		perKg := in.ProteinGrams / *p.WeightKg
		if perKg < MinProteinPerKg {
			warnings = append(warnings, fmt.Sprintf(
				"protein of %s g is %s g/kg, under the %s g/kg minimum",
				n(in.ProteinGrams), n(expr.Round2(perKg)), n(MinProteinPerKg)))
		}
	}

	if in.FatPct > 0 && in.FatPct < MinFatPctOfCalories {
		warnings = append(warnings, fmt.Sprintf(
			"fat at %s%% of calories is under the %s%% floor for hormonal health",
			n(in.FatPct), n(MinFatPctOfCalories)))
	}

	return warnings
}
