package calc

import (
	"math"
	"strings"
	"unicode"
)

// Activity levels.
const (
	ActivitySedentary = "sedentary"
	ActivityLight     = "light"
	ActivityModerate  = "moderate"
	ActivityActive    = "active"
	ActivityExtreme   = "extreme"

	// DefaultActivity is used when the profile has no activity level.
	DefaultActivity = ActivityModerate
)

// Goal labels.
const (
	GoalLoseSlow       = "lose_slow"
	GoalLoseModerate   = "lose_moderate"
	GoalLoseAggressive = "lose_aggressive"
	GoalMaintain       = "maintain"
	GoalGainSlow       = "gain_slow"
	GoalGainModerate   = "gain_moderate"
	GoalGainAggressive = "gain_aggressive"
)

var activityMultipliers = map[string]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityActive:    1.725,
	ActivityExtreme:   1.9,
}

var activityAliases = map[string]string{
	"none":              ActivitySedentary,
	"inactive":          ActivitySedentary,
	"lightly_active":    ActivityLight,
	"light_activity":    ActivityLight,
	"moderately":        ActivityModerate,
	"moderate_active":   ActivityModerate,
	"moderately_active": ActivityModerate,
	"very":              ActivityActive,
	"very_active":       ActivityExtreme,
	"extra_active":      ActivityExtreme,
	"athlete":           ActivityExtreme,
}

var goalAdjustments = map[string]float64{
	GoalLoseSlow:       -250,
	GoalLoseModerate:   -500,
	GoalLoseAggressive: -750,
	GoalMaintain:       0,
	GoalGainSlow:       250,
	GoalGainModerate:   350,
	GoalGainAggressive: 500,
}

var goalAliases = map[string]string{
	"lose":            GoalLoseModerate,
	"lose_weight":     GoalLoseModerate,
	"weight_loss":     GoalLoseModerate,
	"fat_loss":        GoalLoseModerate,
	"lose_fat":        GoalLoseModerate,
	"cut":             GoalLoseModerate,
	"shred":           GoalLoseModerate,
	"slow_cut":        GoalLoseSlow,
	"aggressive_cut":  GoalLoseAggressive,
	"maintenance":     GoalMaintain,
	"recomp":          GoalMaintain,
	"gain":            GoalGainModerate,
	"gain_weight":     GoalGainModerate,
	"gain_muscle":     GoalGainModerate,
	"build_muscle":    GoalGainModerate,
	"muscle_gain":     GoalGainModerate,
	"bulk":            GoalGainModerate,
	"lean_bulk":       GoalGainSlow,
	"aggressive_bulk": GoalGainAggressive,
}

// normalizeLabel lowercases and turns spaces and hyphens into underscores.
func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// ActivityMultiplier returns the canonical level and its multiplier.
// Unknown or empty levels fall back to sedentary.
func ActivityMultiplier(level string) (string, float64) {
	key := normalizeLabel(level)
	if alias, ok := activityAliases[key]; ok {
		key = alias
	}
	if m, ok := activityMultipliers[key]; ok {
		return key, m
	}
	return ActivitySedentary, activityMultipliers[ActivitySedentary]
}

// GoalAdjustment maps a goal label to a daily kcal adjustment.
// Unknown goals fall back to maintain.
func GoalAdjustment(goal string) (string, float64) {
	key := normalizeLabel(goal)
	if alias, ok := goalAliases[key]; ok {
		key = alias
	}
	if adj, ok := goalAdjustments[key]; ok {
		return key, adj
	}
	switch goalDirectionFromText(goal) {
	case "lose":
		return GoalLoseModerate, goalAdjustments[GoalLoseModerate]
	case "gain":
		return GoalGainModerate, goalAdjustments[GoalGainModerate]
	}
	return GoalMaintain, 0
}

// Word stems that mark a free-text goal ("I want to lose fat", "get bigger").
var (
	loseGoalStems = []string{"lose", "losing", "loss", "fat", "cut", "shred", "lean", "slim", "drop", "deficit"}
	gainGoalStems = []string{"gain", "bulk", "build", "muscle", "mass", "size", "surplus", "bigger", "grow"}
)

// goalDirectionFromText scans free text for goal stems at word start. Text
// naming both directions, such as a recomposition, counts as maintenance.
func goalDirectionFromText(goal string) string {
	words := strings.FieldsFunc(strings.ToLower(goal), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	var lose, gain bool
	for _, w := range words {
		lose = lose || hasStem(w, loseGoalStems)
		gain = gain || hasStem(w, gainGoalStems)
	}
	switch {
	case lose && !gain:
		return "lose"
	case gain && !lose:
		return "gain"
	default:
		return GoalMaintain
	}
}

func hasStem(word string, stems []string) bool {
	for _, s := range stems {
		if strings.HasPrefix(word, s) {
			return true
		}
	}
	return false
}

// GoalDirection reduces a goal to "lose", "gain" or "maintain".
func GoalDirection(goal string) string {
	label, _ := GoalAdjustment(goal)
	switch {
	case strings.HasPrefix(label, "lose"):
		return "lose"
	case strings.HasPrefix(label, "gain"):
		return "gain"
	default:
		return GoalMaintain
	}
}

// TDEE multiplies BMR by the activity multiplier and rounds to whole kcal.
func TDEE(bmr float64, level string) Result {
	canonical, multiplier := ActivityMultiplier(level)
	var s stepper
	raw := s.step("TDEE = BMR × activity multiplier ("+canonical+")", n(bmr)+"*"+n(multiplier))
	s.step("Round to whole kcal", n(math.Round(raw)))
	return s.result(FormulaTDEE, map[string]float64{"bmr": bmr, "activity_multiplier": multiplier})
}

// TargetCalories applies the goal adjustment to TDEE.
func TargetCalories(tdee float64, goal string) Result {
	label, adjustment := GoalAdjustment(goal)
	var s stepper
	s.step("Target = TDEE + goal adjustment ("+label+")", n(tdee)+"+"+n(adjustment))
	return s.result(FormulaTargetCalories, map[string]float64{"tdee": tdee, "goal_adjustment": adjustment})
}
