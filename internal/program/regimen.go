// Package program serves the two fixed nutrition regimens and their day types.
//
// Day tables are hand-authored constants. They never scale with the caller's
// profile; the profile only feeds the lean-mass report shown next to them.
package program

import (
	"errors"
	"fmt"
	"strings"
)

// Regimen names a published protocol.
type Regimen string

const (
	Massive Regimen = "massive" // muscle building
	Shred   Regimen = "shred"   // fat loss
)

// DayType is the carbohydrate level of a day within a regimen.
type DayType string

const (
	DayLow  DayType = "low"
	DayMed  DayType = "med"
	DayHigh DayType = "high"
)

var (
	ErrUnknownRegimen = errors.New("unknown regimen")
	ErrUnknownDayType = errors.New("unknown day type")
)

// Regimens lists every supported regimen in display order.
func Regimens() []Regimen {
	return []Regimen{Massive, Shred}
}

// DayTypes lists every day type in display order.
func DayTypes() []DayType {
	return []DayType{DayLow, DayMed, DayHigh}
}

// ParseRegimen accepts a regimen name in any case, with or without
// a trailing "program" or "protocol".
func ParseRegimen(s string) (Regimen, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(key, "program"), "protocol"))
	switch key {
	case "massive", "mass":
		return Massive, nil
	case "shred", "shredded":
		return Shred, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegimen, s)
}

// ParseDayType accepts low/med/high and the usual spellings of each.
func ParseDayType(s string) (DayType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "low carb", "low-carb":
		return DayLow, nil
	case "med", "medium", "mid", "moderate":
		return DayMed, nil
	case "high", "high carb", "high-carb", "refeed":
		return DayHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDayType, s)
}

// Meal is one entry of a day table.
type Meal struct {
	Name    string   `json:"name"`
	Time    string   `json:"time"`
	Foods   []string `json:"foods"`
	Protein float64  `json:"protein_g"`
	Carbs   float64  `json:"carbs_g"`
	Fat     float64  `json:"fat_g"`
}

// Totals is a day's aggregate macro load.
type Totals struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calories float64 `json:"calories"`
}

// Day is the fixed, profile-independent part of a program day.
type Day struct {
	Regimen      Regimen  `json:"regimen"`
	DayType      DayType  `json:"day_type"`
	Description  string   `json:"description"`
	MealPlan     []Meal   `json:"meal_plan"`
	DailyTotals  Totals   `json:"daily_totals"`
	Instructions []string `json:"instructions"`
	Timing       []string `json:"timing"`
}

func (d Day) clone() Day {
	out := d
	out.MealPlan = make([]Meal, len(d.MealPlan))
	for i, m := range d.MealPlan {
		m.Foods = append([]string(nil), m.Foods...)
		out.MealPlan[i] = m
	}
	out.Instructions = append([]string(nil), d.Instructions...)
	out.Timing = append([]string(nil), d.Timing...)
	return out
}

// Lookup returns a copy of the fixed table for a regimen and day type.
func Lookup(r Regimen, d DayType) (Day, error) {
	days, ok := tables[r]
	if !ok {
		return Day{}, fmt.Errorf("%w: %q", ErrUnknownRegimen, r)
	}
	day, ok := days[d]
	if !ok {
		return Day{}, fmt.Errorf("%w: %q", ErrUnknownDayType, d)
	}
	return day.clone(), nil
}
