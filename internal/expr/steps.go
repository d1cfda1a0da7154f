package expr

import "math"

// MatchEpsilon is the tolerance used when a step is checked against an expected value.
const MatchEpsilon = 0.01

// Step is one named expression in an ordered calculation.
type Step struct {
	Description string
	Expression  string
	// Expected is optional; when set, the step reports whether the result matched it.
	Expected *float64
}

// StepResult is the audited outcome of a single Step.
type StepResult struct {
	Description string   `json:"description"`
	Expression  string   `json:"expression"`
	Result      float64  `json:"result"`
	IsValid     bool     `json:"is_valid"`
	Error       string   `json:"error,omitempty"`
	Expected    *float64 `json:"expected,omitempty"`
	Matched     *bool    `json:"matched,omitempty"`
}

// StepByStep evaluates each step in order and returns every intermediate result.
// A failing step does not stop later steps; callers decide what a failure means.
func StepByStep(steps []Step) []StepResult {
	results := make([]StepResult, 0, len(steps))
	for _, s := range steps {
		ev := Evaluate(s.Expression)
		r := StepResult{
			Description: s.Description,
			Expression:  s.Expression,
			Result:      ev.Result,
			IsValid:     ev.IsValid,
			Error:       ev.Error,
		}
		if s.Expected != nil {
			expected := *s.Expected
			matched := ev.IsValid && math.Abs(ev.Result-expected) <= MatchEpsilon
			r.Expected = &expected
			r.Matched = &matched
		}
		results = append(results, r)
	}
	return results
}

// AllValid reports whether every step evaluated successfully.
func AllValid(results []StepResult) bool {
	for _, r := range results {
		if !r.IsValid {
			return false
		}
	}
	return len(results) > 0
}
