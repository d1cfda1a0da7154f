package program

import (
	"fmt"

	"github.com/dileep-u-k/coach-gateway/internal/calc"
	"github.com/dileep-u-k/coach-gateway/internal/profile"
)

// DayRequest selects a program day. An empty Regimen is inferred from the
// profile goal; an empty DayType means the medium day. Explicit marks a
// regimen the user named themselves.
type DayRequest struct {
	Regimen  Regimen
	DayType  DayType
	Explicit bool
}

// Suggestion proposes the other regimen when the goal contradicts an
// explicit request. The requested regimen is still served.
type Suggestion struct {
	Regimen Regimen `json:"regimen"`
	Reason  string  `json:"reason"`
}

// DayPlan is a fixed day table plus the profile-dependent lean-mass report.
type DayPlan struct {
	Day
	LeanBodyMass    LBMReport   `json:"lean_body_mass"`
	RegimenInferred bool        `json:"regimen_inferred,omitempty"`
	Suggestion      *Suggestion `json:"suggestion,omitempty"`
	Notes           []string    `json:"notes,omitempty"`
}

// RegimenForGoal maps a goal to the regimen that serves it. Maintenance and
// unknown goals map to Massive.
func RegimenForGoal(goal string) Regimen {
	if calc.GoalDirection(goal) == "lose" {
		return Shred
	}
	return Massive
}

// GenerateDay returns the requested day. The meal table and totals are the
// same for every profile.
func GenerateDay(p profile.Profile, req DayRequest) (DayPlan, error) {
	var plan DayPlan

	regimen := req.Regimen
	if regimen == "" {
		regimen = RegimenForGoal(p.Goal)
		plan.RegimenInferred = true
		plan.Notes = append(plan.Notes, fmt.Sprintf("no regimen named; chose %s from the goal %q", regimen, p.Goal))
	}
	dayType := req.DayType
	if dayType == "" {
		dayType = DayMed
		plan.Notes = append(plan.Notes, "no day type named; showing the med day")
	}

	day, err := Lookup(regimen, dayType)
	if err != nil {
		return DayPlan{}, err
	}
	plan.Day = day
	plan.LeanBodyMass = LeanBodyMass(p)

	if req.Explicit && req.Regimen != "" {
		plan.Suggestion = mismatch(regimen, p.Goal)
	}
	return plan, nil
}

// mismatch flags a regimen whose purpose contradicts the stated goal.
func mismatch(requested Regimen, goal string) *Suggestion {
	switch calc.GoalDirection(goal) {
	case "lose":
		if requested == Massive {
			return &Suggestion{
				Regimen: Shred,
				Reason:  fmt.Sprintf("your goal %q points to fat loss, which the shred regimen is built for; massive is a muscle-building surplus", goal),
			}
		}
	case "gain":
		if requested == Shred {
			return &Suggestion{
				Regimen: Massive,
				Reason:  fmt.Sprintf("your goal %q points to muscle gain, which the massive regimen is built for; shred is a fat-loss deficit", goal),
			}
		}
	}
	return nil
}
