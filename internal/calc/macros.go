package calc

import (
	"fmt"
	"math"

	"github.com/dileep-u-k/coach-gateway/internal/expr"
)

// Energy density of each macronutrient, kcal per gram.
const (
	ProteinKcalPerGram = 4
	CarbKcalPerGram    = 4
	FatKcalPerGram     = 9

	// MacroTolerance is how far the recomputed macro total may drift from the target.
	MacroTolerance = 10.0
)

// MacroAmount is one macronutrient's share of the day.
type MacroAmount struct {
	Grams    float64 `json:"grams"`
	Calories float64 `json:"calories"`
	Pct      float64 `json:"pct"`
}

// MacroDistribution is a daily macro split.
//
// TotalCaloriesFromMacros is always recomputed from the gram values and never
// copied from the target; IsAccurate compares the two.
type MacroDistribution struct {
	Calories                float64           `json:"calories"`
	ProteinPerKg            float64           `json:"protein_per_kg"`
	FatPct                  float64           `json:"fat_pct"`
	Protein                 MacroAmount       `json:"protein"`
	Carbs                   MacroAmount       `json:"carbs"`
	Fat                     MacroAmount       `json:"fat"`
	TotalCaloriesFromMacros float64           `json:"total_calories_from_macros"`
	IsAccurate              bool              `json:"is_accurate"`
	IsValid                 bool              `json:"is_valid"`
	Steps                   []expr.StepResult `json:"steps"`
	Warnings                []string          `json:"warnings,omitempty"`
}

// MacroSplit divides target calories into protein, fat and carbohydrate.
// fatPct is a fraction of total calories (0.25 for 25%).
func MacroSplit(calories, weightKg, proteinPerKg, fatPct float64) MacroDistribution {
	d := MacroDistribution{Calories: calories, ProteinPerKg: proteinPerKg, FatPct: fatPct}
	if calories <= 0 || weightKg <= 0 || proteinPerKg <= 0 || fatPct < 0 || fatPct >= 1 {
		d.Warnings = append(d.Warnings, fmt.Sprintf(
			"cannot split macros for calories=%s weight=%s protein_per_kg=%s fat_pct=%s",
			n(calories), n(weightKg), n(proteinPerKg), n(fatPct)))
		return d
	}

	var s stepper
	proteinRaw := s.step("Protein grams = protein rate × weight kg", n(proteinPerKg)+"*"+n(weightKg))
	proteinG := math.Round(proteinRaw)
	proteinKcal := s.step("Protein kcal = protein g × 4", n(proteinG)+"*4")

	fatBudget := s.step("Fat kcal budget = calories × fat share", n(calories)+"*"+n(fatPct))
	fatRaw := s.step("Fat grams = fat kcal ÷ 9", n(fatBudget)+"/9")
	fatG := math.Round(fatRaw)
	fatKcal := s.step("Fat kcal = fat g × 9", n(fatG)+"*9")

	carbBudget := s.step("Carb kcal = calories − protein kcal − fat kcal", n(calories)+"-"+n(proteinKcal)+"-"+n(fatKcal))
	carbRaw := s.step("Carb grams = carb kcal ÷ 4", n(carbBudget)+"/4")
	carbG := math.Round(carbRaw)
	if carbG < 0 {
		d.Warnings = append(d.Warnings, "protein and fat already exceed the calorie target; carbohydrates set to 0 g")
		carbG = 0
	}
	carbKcal := s.step("Carb kcal = carb g × 4", n(carbG)+"*4")

	total := s.step("Total kcal from macros = protein + carbs + fat",
		n(proteinG)+"*4+"+n(carbG)+"*4+"+n(fatG)+"*9")

	d.Protein = MacroAmount{Grams: proteinG, Calories: proteinKcal, Pct: s.step("Protein % of calories", "("+n(proteinKcal)+"/"+n(calories)+")*100")}
	d.Fat = MacroAmount{Grams: fatG, Calories: fatKcal, Pct: s.step("Fat % of calories", "("+n(fatKcal)+"/"+n(calories)+")*100")}
	d.Carbs = MacroAmount{Grams: carbG, Calories: carbKcal, Pct: s.step("Carb % of calories", "("+n(carbKcal)+"/"+n(calories)+")*100")}
	d.TotalCaloriesFromMacros = total
	d.Steps = s.results
	d.IsValid = expr.AllValid(s.results)
	d.IsAccurate = d.IsValid && math.Abs(total-calories) <= MacroTolerance
	if d.IsValid && !d.IsAccurate {
		d.Warnings = append(d.Warnings, fmt.Sprintf(
			"macro calories (%s) differ from the target (%s) by more than %s kcal",
			n(total), n(calories), n(MacroTolerance)))
	}
	return d
}

// RecomputeTotal recalculates total kcal from grams. Consumers use it to
// check a distribution they did not build themselves.
func (d MacroDistribution) RecomputeTotal() float64 {
	return d.Protein.Grams*ProteinKcalPerGram + d.Carbs.Grams*CarbKcalPerGram + d.Fat.Grams*FatKcalPerGram
}
