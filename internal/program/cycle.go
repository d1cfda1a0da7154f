package program

import (
	"fmt"
	"math"
	"time"

	"github.com/dileep-u-k/coach-gateway/internal/expr"
)

// PlateauThresholdLb is the smallest two-week change that still counts as progress.
const PlateauThresholdLb = 0.5

// CycleDay is one weekday of a regimen's schedule.
type CycleDay struct {
	Weekday time.Weekday `json:"-"`
	Day     string       `json:"day"`
	DayType DayType      `json:"day_type"`
}

// WeeklyCycle is a Monday-to-Sunday schedule.
type WeeklyCycle struct {
	Regimen Regimen    `json:"regimen"`
	Days    []CycleDay `json:"days"`
	Notes   []string   `json:"notes"`
}

var week = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

var cycles = map[Regimen][]DayType{
	Massive: {DayHigh, DayMed, DayLow, DayHigh, DayMed, DayLow, DayMed},
	Shred:   {DayHigh, DayLow, DayMed, DayLow, DayHigh, DayLow, DayMed},
}

var cycleNotes = map[Regimen][]string{
	Massive: {
		"Put the high days on your two heaviest training sessions.",
		"Low days go on rest days.",
	},
	Shred: {
		"High days are refeeds; match them to leg or back sessions.",
		"If weight stalls for two weeks, add a third high day.",
	},
}

// Cycle returns the weekly schedule of a regimen.
func Cycle(r Regimen) (WeeklyCycle, error) {
	types, ok := cycles[r]
	if !ok {
		return WeeklyCycle{}, fmt.Errorf("%w: %q", ErrUnknownRegimen, r)
	}
	c := WeeklyCycle{Regimen: r, Notes: append([]string(nil), cycleNotes[r]...)}
	for i, wd := range week {
		c.Days = append(c.Days, CycleDay{Weekday: wd, Day: wd.String(), DayType: types[i]})
	}
	return c, nil
}

// PlateauCheck is the result of the two-week progress rule.
type PlateauCheck struct {
	EnoughHistory  bool              `json:"enough_history"`
	RecentChangeLb float64           `json:"recent_change_lb"`
	AddHighDay     bool              `json:"add_high_day"`
	Recommendation string            `json:"recommendation"`
	Steps          []expr.StepResult `json:"steps,omitempty"`
}

// CheckPlateau applies the plateau rule to weekly weight deltas in pounds,
// oldest first. History is supplied by the caller; nothing is stored.
func CheckPlateau(deltasLb []float64) PlateauCheck {
	if len(deltasLb) < 2 {
		return PlateauCheck{Recommendation: "log at least two weekly weigh-ins before adjusting the cycle"}
	}
	a, b := deltasLb[len(deltasLb)-2], deltasLb[len(deltasLb)-1]
	steps := expr.StepByStep([]expr.Step{
		{Description: "Change over the last two weeks (lb)", Expression: expr.Number(a) + "+" + expr.Number(b)},
	})
	c := PlateauCheck{EnoughHistory: true, RecentChangeLb: steps[0].Result, Steps: steps}
	if math.Abs(c.RecentChangeLb) < PlateauThresholdLb {
		c.AddHighDay = true
		c.Recommendation = fmt.Sprintf("weight moved %s lb in two weeks, under %s lb: add a third high day to the cycle",
			expr.Number(c.RecentChangeLb), expr.Number(PlateauThresholdLb))
	} else {
		c.Recommendation = fmt.Sprintf("weight moved %s lb in two weeks; keep the current cycle", expr.Number(c.RecentChangeLb))
	}
	return c
}
