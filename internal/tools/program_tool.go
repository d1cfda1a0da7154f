package tools

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dileep-u-k/coach-gateway/internal/intent"
	"github.com/dileep-u-k/coach-gateway/internal/program"
)

// --- Program Tool Implementation ---

const ProgramToolName = "program"

var (
	regimenRegex = regexp.MustCompile(`(?i)\b(massive|shred)\b`)
	dayTypeRegex = regexp.MustCompile(`(?i)\b(low|med|medium|mid|high)\b[\s-]*(?:carb\s+)?days?\b`)
	cycleRegex   = regexp.MustCompile(`(?i)\b(cycle|weekly|week|schedule|rotation)\b`)
	plateauRegex = regexp.MustCompile(`(?i)\b(plateau\w*|stall\w*|stuck)\b`)
)

// ProgramResult bundles the day plan with the optional cycle and plateau views.
type ProgramResult struct {
	Day     *program.DayPlan      `json:"day,omitempty"`
	Cycle   *program.WeeklyCycle  `json:"cycle,omitempty"`
	Plateau *program.PlateauCheck `json:"plateau,omitempty"`
}

// EstimationWarnings surfaces the lean-mass estimates made for the day.
func (r *ProgramResult) EstimationWarnings() []string {
	if r.Day == nil {
		return nil
	}
	return r.Day.LeanBodyMass.EstimationWarnings
}

// ProgramTool looks up regimen days, the weekly cycle and the plateau rule.
type ProgramTool struct{}

var _ Tool = (*ProgramTool)(nil)

func NewProgramTool() *ProgramTool {
	return &ProgramTool{}
}

func (t *ProgramTool) Definition() Definition {
	return NewDefinition(
		ProgramToolName,
		"Returns the fixed meal table for a massive or shred day (low, med, high), the weekly cycle, and the plateau rule applied to recent weigh-ins.",
		intent.ProgramLookup,
		false,
		standardSchema("The user's message; may name a regimen (massive, shred) and a day type (low, med, high)."),
	)
}

func (t *ProgramTool) Execute(_ context.Context, in Input) (any, error) {
	var req program.DayRequest
	if m := regimenRegex.FindStringSubmatch(in.Text); m != nil {
		r, err := program.ParseRegimen(m[1])
		if err != nil {
			return nil, err
		}
		req.Regimen, req.Explicit = r, true
	}
	dayNamed := false
	if m := dayTypeRegex.FindStringSubmatch(in.Text); m != nil {
		d, err := program.ParseDayType(m[1])
		if err != nil {
			return nil, err
		}
		req.DayType, dayNamed = d, true
	}

	day, err := program.GenerateDay(in.Profile, req)
	if err != nil {
		return nil, fmt.Errorf("program day: %w", err)
	}
	res := &ProgramResult{Day: &day}

	if !dayNamed || cycleRegex.MatchString(in.Text) {
		cycle, err := program.Cycle(day.Regimen)
		if err != nil {
			return nil, fmt.Errorf("program cycle: %w", err)
		}
		res.Cycle = &cycle
	}
	if plateauRegex.MatchString(in.Text) || len(in.WeightHistoryLb) >= 2 {
		check := program.CheckPlateau(in.WeightHistoryLb)
		res.Plateau = &check
	}
	return res, nil
}
