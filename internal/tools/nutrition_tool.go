package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dileep-u-k/coach-gateway/internal/calc"
	"github.com/dileep-u-k/coach-gateway/internal/intent"
)

// --- Nutrition Tool Implementation ---

const NutritionToolName = "nutrition"

// NutritionResult carries either full targets or the fields needed to compute
// them. A missing-data result is still data: it tells the user what to add.
type NutritionResult struct {
	Targets       *calc.NutritionTargets `json:"targets,omitempty"`
	MissingFields []string               `json:"missing_fields,omitempty"`
	Message       string                 `json:"message,omitempty"`
}

// Complete reports whether targets were computed.
func (r *NutritionResult) Complete() bool {
	return r.Targets != nil
}

// NutritionTool computes BMR, TDEE, calorie target and macros from the profile.
type NutritionTool struct {
	opts calc.TargetOptions
}

var _ Tool = (*NutritionTool)(nil)

// NewNutritionTool creates the tool. opts supplies protein and fat overrides;
// leave it zero to use the goal-based defaults.
func NewNutritionTool(opts calc.TargetOptions) *NutritionTool {
	return &NutritionTool{opts: opts}
}

func (t *NutritionTool) Definition() Definition {
	return NewDefinition(
		NutritionToolName,
		"Calculates BMR, TDEE, a goal-adjusted calorie target and a macro split from the user's profile, with every step shown.",
		intent.NutritionCalculation,
		false,
		standardSchema("The user's message; naming Harris-Benedict or Mifflin-St Jeor selects that formula over the configured one."),
	)
}

func (t *NutritionTool) Execute(_ context.Context, in Input) (any, error) {
	opts := t.opts
	if f := formulaFromText(in.Text); f != "" {
		opts.Formula = f
	}

	targets, err := calc.Targets(in.Profile, opts)
	var missing *calc.MissingDataError
	if errors.As(err, &missing) {
		msg := fmt.Sprintf("To calculate calorie and macro targets I need your %s. Please add them to your profile.",
			strings.Join(missing.Fields, ", "))
		return &NutritionResult{MissingFields: missing.Fields, Message: msg}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("nutrition targets: %w", err)
	}
	return &NutritionResult{Targets: &targets}, nil
}

// formulaFromText returns the BMR formula the message names, if any.
func formulaFromText(text string) calc.Formula {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "harris"):
		return calc.HarrisBenedict
	case strings.Contains(lower, "mifflin"):
		return calc.MifflinStJeor
	}
	return ""
}
