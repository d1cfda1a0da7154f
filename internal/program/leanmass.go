package program

import (
	"fmt"

	"github.com/dileep-u-k/coach-gateway/internal/calc"
	"github.com/dileep-u-k/coach-gateway/internal/expr"
	"github.com/dileep-u-k/coach-gateway/internal/profile"
)

// Fallbacks used when the profile is incomplete.
const (
	DefaultHeightMaleCm   = 175.0
	DefaultHeightFemaleCm = 162.0
	DefaultWeightMaleKg   = 80.0
	DefaultWeightFemaleKg = 65.0
	DefaultAge            = 30
)

type bodyFatRange struct{ min, max float64 }

var bodyFatClamp = map[string]bodyFatRange{
	profile.SexMale:   {min: 8, max: 35},
	profile.SexFemale: {min: 15, max: 45},
}

// LBMReport is the lean-mass figure shown alongside a program day.
type LBMReport struct {
	WeightKg           float64           `json:"weight_kg"`
	BodyFatPct         float64           `json:"body_fat_percentage"`
	FatMassKg          float64           `json:"fat_mass_kg"`
	LeanBodyMassKg     float64           `json:"lean_body_mass_kg"`
	LeanBodyMassLb     float64           `json:"lean_body_mass_lb"`
	Explanation        string            `json:"explanation"`
	Steps              []expr.StepResult `json:"steps"`
	WeightEstimated    bool              `json:"weight_estimated"`
	HeightEstimated    bool              `json:"height_estimated"`
	BodyFatEstimated   bool              `json:"body_fat_estimated"`
	EstimationWarnings []string          `json:"estimation_warnings,omitempty"`
}

// Estimated reports whether any input was filled in.
func (r LBMReport) Estimated() bool {
	return r.WeightEstimated || r.HeightEstimated || r.BodyFatEstimated
}

// LeanBodyMass estimates lean mass from the profile. Missing weight, height or
// body fat are estimated and flagged; the calculation never fails.
func LeanBodyMass(p profile.Profile) LBMReport {
	var r LBMReport
	sex := p.NormalizedSex()

	if p.Has(profile.FieldWeight) {
		r.WeightKg = *p.WeightKg
	} else {
		r.WeightKg = DefaultWeightMaleKg
		if sex == profile.SexFemale {
			r.WeightKg = DefaultWeightFemaleKg
		}
		r.WeightEstimated = true
		r.EstimationWarnings = append(r.EstimationWarnings, fmt.Sprintf(
			"weight not provided; assumed %s kg. Add your weight for an accurate lean mass", expr.Number(r.WeightKg)))
	}

	if p.Has(profile.FieldBodyFat) {
		r.BodyFatPct = *p.BodyFatPct
	} else {
		r.BodyFatPct = estimateBodyFat(p, r.WeightKg, &r)
		r.BodyFatEstimated = true
	}

	lbm := calc.LeanBodyMass(r.WeightKg, r.BodyFatPct)
	r.Steps = append(r.Steps, lbm.Steps...)
	if len(lbm.Steps) > 0 {
		r.FatMassKg = lbm.Steps[0].Result
	}
	r.LeanBodyMassKg, _ = lbm.Value()
	lb := calc.KgToPounds(r.LeanBodyMassKg)
	r.Steps = append(r.Steps, lb.Steps...)
	r.LeanBodyMassLb, _ = lb.Value()

	r.Explanation = fmt.Sprintf("Lean body mass %s kg (%s lb) = %s kg total weight minus %s kg fat mass at %s%% body fat",
		expr.Number(r.LeanBodyMassKg), expr.Number(r.LeanBodyMassLb), expr.Number(r.WeightKg),
		expr.Number(r.FatMassKg), expr.Number(r.BodyFatPct))
	if r.BodyFatEstimated {
		r.Explanation += " (estimated)"
	}
	return r
}

// estimateBodyFat applies the Deurenberg BMI regression
// (1.20 × BMI + 0.23 × age − 10.8 × sex − 5.4, sex = 1 for men) and clamps
// the result to a plausible range for the sex.
func estimateBodyFat(p profile.Profile, weightKg float64, r *LBMReport) float64 {
	sex := p.NormalizedSex()
	if sex == "" {
		sex = profile.SexMale
		r.EstimationWarnings = append(r.EstimationWarnings, "sex not provided; body fat estimated using the male regression")
	}

	var height float64
	if p.Has(profile.FieldHeight) {
		height = *p.HeightCm
	} else {
		height = DefaultHeightMaleCm
		if sex == profile.SexFemale {
			height = DefaultHeightFemaleCm
		}
		r.HeightEstimated = true
		r.EstimationWarnings = append(r.EstimationWarnings, fmt.Sprintf(
			"height not provided; assumed %s cm for the body-fat estimate", expr.Number(height)))
	}

	age := DefaultAge
	if p.Has(profile.FieldAge) {
		age = *p.Age
	} else {
		r.EstimationWarnings = append(r.EstimationWarnings, fmt.Sprintf(
			"age not provided; assumed %d for the body-fat estimate", DefaultAge))
	}

	sexFactor := "1"
	if sex == profile.SexFemale {
		sexFactor = "0"
	}

	steps := expr.StepByStep([]expr.Step{
		{Description: "Height in metres = cm ÷ 100", Expression: expr.Number(height) + "/100"},
	})
	metres := steps[0].Result
	steps = append(steps, expr.StepByStep([]expr.Step{
		{Description: "BMI = weight ÷ height²", Expression: expr.Number(weightKg) + "/(" + expr.Number(metres) + "*" + expr.Number(metres) + ")"},
	})...)
	bmi := steps[1].Result
	steps = append(steps, expr.StepByStep([]expr.Step{
		{
			Description: "Body fat % = 1.20 × BMI + 0.23 × age − 10.8 × sex − 5.4",
			Expression:  "1.2*" + expr.Number(bmi) + "+0.23*" + expr.Number(float64(age)) + "-10.8*" + sexFactor + "-5.4",
		},
	})...)
	r.Steps = append(r.Steps, steps...)

	bf := steps[2].Result
	if !expr.AllValid(steps) {
		bf = bodyFatClamp[sex].max
	}
	rng := bodyFatClamp[sex]
	clamped := min(max(bf, rng.min), rng.max)
	if clamped != bf {
		r.EstimationWarnings = append(r.EstimationWarnings, fmt.Sprintf(
			"estimated body fat %s%% was outside the plausible range and was clamped to %s%%",
			expr.Number(bf), expr.Number(clamped)))
	}
	r.EstimationWarnings = append(r.EstimationWarnings, fmt.Sprintf(
		"body fat not provided; estimated at %s%% from BMI %s. A tape or scan measurement will be more accurate",
		expr.Number(clamped), expr.Number(bmi)))
	return clamped
}
