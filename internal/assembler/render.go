package assembler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dileep-u-k/coach-gateway/internal/calc"
	"github.com/dileep-u-k/coach-gateway/internal/expr"
	"github.com/dileep-u-k/coach-gateway/internal/tools"
)

// renderData writes a tool result as plain lines. Unknown types fall back to JSON.
func renderData(data any) string {
	var b strings.Builder
	switch v := data.(type) {
	case *tools.ArithmeticResult:
		for _, ev := range v.Evaluations {
			if ev.IsValid {
				fmt.Fprintf(&b, "%s = %s\n", ev.Expression, expr.Number(ev.Result))
			} else {
				fmt.Fprintf(&b, "%s could not be evaluated (%s)\n", ev.Expression, ev.Error)
			}
		}
	case *tools.NutritionResult:
		writeTargets(&b, v.Targets)
	case *tools.ProgramResult:
		writeProgram(&b, v)
	case *tools.ProductMatch:
		fmt.Fprintf(&b, "Catalog match (confidence %s):\n%s\n", expr.Number(v.Confidence), v.Context)
	default:
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		b.Write(raw)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeSteps(b *strings.Builder, label string, r calc.Result) {
	if !r.IsValid {
		fmt.Fprintf(b, "%s: not available\n", label)
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, expr.Number(r.FinalResult))
	for _, s := range r.Steps {
		fmt.Fprintf(b, "  - %s: %s = %s\n", s.Description, s.Expression, expr.Number(s.Result))
	}
}

func writeTargets(b *strings.Builder, t *calc.NutritionTargets) {
	if t == nil {
		return
	}
	writeSteps(b, "BMR (kcal/day)", t.BMR)
	writeSteps(b, "TDEE (kcal/day, activity "+t.ActivityLevel+")", t.TDEE)
	writeSteps(b, "Target calories (goal "+t.Goal+")", t.TargetCalories)

	m := t.Macros
	if m.IsValid {
		fmt.Fprintf(b, "Macros: protein %s g (%s kcal, %s%%), carbs %s g (%s kcal, %s%%), fat %s g (%s kcal, %s%%)\n",
			expr.Number(m.Protein.Grams), expr.Number(m.Protein.Calories), expr.Number(m.Protein.Pct),
			expr.Number(m.Carbs.Grams), expr.Number(m.Carbs.Calories), expr.Number(m.Carbs.Pct),
			expr.Number(m.Fat.Grams), expr.Number(m.Fat.Calories), expr.Number(m.Fat.Pct))
		fmt.Fprintf(b, "Total kcal from macros: %s (accurate within %s kcal: %t)\n",
			expr.Number(m.TotalCaloriesFromMacros), expr.Number(calc.MacroTolerance), m.IsAccurate)
	}
	for _, w := range m.Warnings {
		fmt.Fprintf(b, "Macro note: %s\n", w)
	}
	if len(t.DefaultsApplied) > 0 {
		fmt.Fprintf(b, "Defaults used: %s\n", strings.Join(t.DefaultsApplied, "; "))
	}
	for _, w := range t.SafetyWarnings {
		fmt.Fprintf(b, "Safety warning: %s\n", w)
	}
}

func writeProgram(b *strings.Builder, r *tools.ProgramResult) {
	if d := r.Day; d != nil {
		fmt.Fprintf(b, "Regimen %s, %s day: %s\n", d.Regimen, d.DayType, d.Description)
		for _, m := range d.MealPlan {
			fmt.Fprintf(b, "  - %s at %s: protein %s g, carbs %s g, fat %s g (%s)\n",
				m.Name, m.Time, expr.Number(m.Protein), expr.Number(m.Carbs), expr.Number(m.Fat), strings.Join(m.Foods, ", "))
		}
		t := d.DailyTotals
		fmt.Fprintf(b, "Daily totals: protein %s g, carbs %s g, fat %s g, %s kcal\n",
			expr.Number(t.Protein), expr.Number(t.Carbs), expr.Number(t.Fat), expr.Number(t.Calories))
		for _, line := range d.Instructions {
			fmt.Fprintf(b, "Instruction: %s\n", line)
		}
		for _, line := range d.Timing {
			fmt.Fprintf(b, "Timing: %s\n", line)
		}
		fmt.Fprintf(b, "%s\n", d.LeanBodyMass.Explanation)
		for _, w := range d.LeanBodyMass.EstimationWarnings {
			fmt.Fprintf(b, "Estimate: %s\n", w)
		}
		for _, n := range d.Notes {
			fmt.Fprintf(b, "Note: %s\n", n)
		}
		if s := d.Suggestion; s != nil {
			fmt.Fprintf(b, "Suggestion: consider the %s regimen because %s\n", s.Regimen, s.Reason)
		}
	}
	if c := r.Cycle; c != nil {
		days := make([]string, len(c.Days))
		for i, d := range c.Days {
			days[i] = d.Day + " " + string(d.DayType)
		}
		fmt.Fprintf(b, "Weekly cycle (%s): %s\n", c.Regimen, strings.Join(days, ", "))
	}
	if p := r.Plateau; p != nil {
		fmt.Fprintf(b, "Plateau check: %s\n", p.Recommendation)
	}
}
