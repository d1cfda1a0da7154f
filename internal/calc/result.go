// Package calc holds the stateless nutrition formulas of the coaching core.
//
// Every public number is produced through expr.StepByStep so that each
// intermediate value can be shown to the user or audited. Nothing here keeps
// state; all functions are safe for concurrent use.
package calc

import (
	"fmt"
	"strings"

	"github.com/dileep-u-k/coach-gateway/internal/expr"
)

// Formula identifiers recorded on every Result.
const (
	FormulaMifflinStJeor  = "bmr_mifflin_st_jeor"
	FormulaHarrisBenedict = "bmr_harris_benedict_revised"
	FormulaTDEE           = "tdee_activity_multiplier"
	FormulaTargetCalories = "target_calories_goal_adjustment"
	FormulaBodyFatNavy    = "body_fat_us_navy"
	FormulaLeanBodyMass   = "lean_body_mass"
	FormulaPoundsToKg     = "convert_lb_to_kg"
	FormulaKgToPounds     = "convert_kg_to_lb"
	FormulaInchesToCm     = "convert_in_to_cm"
	FormulaCmToInches     = "convert_cm_to_in"
	FormulaFeetInchesToCm = "convert_ft_in_to_cm"
)

// Result is an immutable record of one computation.
// A Result with IsValid=false carries no trustworthy FinalResult.
type Result struct {
	Inputs      map[string]float64 `json:"inputs"`
	FormulaID   string             `json:"formula_id"`
	Steps       []expr.StepResult  `json:"steps"`
	FinalResult float64            `json:"final_result"`
	IsValid     bool               `json:"is_valid"`
}

// Value returns the final result only when it can be trusted.
func (r Result) Value() (float64, bool) {
	if !r.IsValid {
		return 0, false
	}
	return r.FinalResult, true
}

// MissingDataError is returned by entry points that advertise hard input requirements.
type MissingDataError struct {
	Operation string
	Fields    []string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Operation, strings.Join(e.Fields, ", "))
}

// stepper runs named expressions one at a time so that later expressions can
// be built from earlier results. The last step becomes the final result.
type stepper struct {
	results []expr.StepResult
}

func (s *stepper) step(description, expression string) float64 {
	r := expr.StepByStep([]expr.Step{{Description: description, Expression: expression}})[0]
	s.results = append(s.results, r)
	return r.Result
}

func (s *stepper) result(formulaID string, inputs map[string]float64) Result {
	r := Result{
		Inputs:    inputs,
		FormulaID: formulaID,
		Steps:     s.results,
		IsValid:   expr.AllValid(s.results),
	}
	if r.IsValid {
		r.FinalResult = s.results[len(s.results)-1].Result
	}
	return r
}

// n formats a value for use inside a step expression.
func n(v float64) string {
	return expr.Number(v)
}
