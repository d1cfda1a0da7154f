package expr

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Arithmetic(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"2+2", 4},
		{"10 * 5", 50},
		{"(12 + 3) * 4", 60},
		{"7 / 2", 3.5},
		{"10 / 3", 3.33},
		{"2 / 3", 0.67},
		{"-5 + 3", -2},
		{"800+1125-150+5", 1780},
		{"3 × 4", 12},
		{"12 ÷ 4", 3},
		{"1780*1.55", 2759},
		{"-(2+3)*2", -10},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			ev := Evaluate(tc.in)
			require.True(t, ev.IsValid, ev.Error)
			assert.Equal(t, tc.want, ev.Result)
		})
	}
}

func TestEvaluate_PercentRewrite(t *testing.T) {
	a := Evaluate("15% of 200")
	b := Evaluate("(15/100)*200")
	require.True(t, a.IsValid)
	require.True(t, b.IsValid)
	assert.Equal(t, 30.0, a.Result)
	assert.Equal(t, a.Result, b.Result)
	assert.Equal(t, "(15/100)*200", a.Sanitized)

	bare := Evaluate("20%")
	require.True(t, bare.IsValid)
	assert.Equal(t, 0.2, bare.Result)

	mixed := Evaluate("200 * 25%")
	require.True(t, mixed.IsValid)
	assert.Equal(t, 50.0, mixed.Result)
}

func TestEvaluate_UnbalancedParenthesesRejected(t *testing.T) {
	for _, in := range []string{"(10*5", "10*5)", ")(", "((1+2)"} {
		ev := Evaluate(in)
		assert.False(t, ev.IsValid, in)
		assert.Equal(t, errUnbalanced.Error(), ev.Error, in)
	}
}

func TestEvaluate_InvalidInputs(t *testing.T) {
	for _, in := range []string{"", "hello", "5 / 0", "0/0", "2 +", "*3", "1..2+1", "()"} {
		ev := Evaluate(in)
		assert.False(t, ev.IsValid, in)
		assert.NotEmpty(t, ev.Error, in)
	}
}

func TestEvaluate_HugeResultsStayFinite(t *testing.T) {
	ev := Evaluate("1" + strings.Repeat("0", 307))
	require.True(t, ev.IsValid)
	assert.False(t, math.IsInf(ev.Result, 0))
	assert.Equal(t, 1e307, ev.Result)
	_, err := json.Marshal(ev)
	assert.NoError(t, err)

	ev = Evaluate("1" + strings.Repeat("0", 307) + "*100")
	assert.False(t, ev.IsValid)
}

func TestIsRange(t *testing.T) {
	assert.True(t, IsRange("8-12", "do ", " reps"))
	assert.True(t, IsRange("5-10", "between ", ""))
	assert.False(t, IsRange("10-3", "what is ", "?"))
	assert.False(t, IsRange("10 - 3", "", " reps"))
}

func TestEvaluate_StripsEverythingButArithmetic(t *testing.T) {
	ev := Evaluate("os.Exit(1); 2+2")
	// Letters, ';' and spaces are stripped; what is left is not valid arithmetic.
	assert.Equal(t, ".(1)2+2", ev.Sanitized)
	assert.False(t, ev.IsValid)

	ev = Evaluate("what is 6*7?")
	require.True(t, ev.IsValid)
	assert.Equal(t, 42.0, ev.Result)
}

func TestEvaluate_Deterministic(t *testing.T) {
	first := Evaluate("(3.14159 * 2) / 7 + 15% of 80")
	for i := 0; i < 50; i++ {
		again := Evaluate("(3.14159 * 2) / 7 + 15% of 80")
		assert.Equal(t, first.Result, again.Result)
		assert.Equal(t, first.IsValid, again.IsValid)
	}
}

func TestStepByStep_ReportsExpectedMatches(t *testing.T) {
	expected := 800.0
	wrong := 801.0
	results := StepByStep([]Step{
		{Description: "weight", Expression: "10*80", Expected: &expected},
		{Description: "height", Expression: "6.25*180"},
		{Description: "bad", Expression: "10*80", Expected: &wrong},
		{Description: "broken", Expression: "(1+"},
	})

	require.Len(t, results, 4)
	assert.Equal(t, 800.0, results[0].Result)
	require.NotNil(t, results[0].Matched)
	assert.True(t, *results[0].Matched)

	assert.Equal(t, 1125.0, results[1].Result)
	assert.Nil(t, results[1].Matched)

	require.NotNil(t, results[2].Matched)
	assert.False(t, *results[2].Matched)

	assert.False(t, results[3].IsValid)
	assert.False(t, AllValid(results))
	assert.True(t, AllValid(results[:3]))
	assert.False(t, AllValid(nil))
}

func TestNumber_NeverUsesExponent(t *testing.T) {
	assert.Equal(t, "0.00001", Number(0.00001))
	assert.Equal(t, "1500000000", Number(1.5e9))
	assert.Equal(t, "-161", Number(-161))
	assert.Equal(t, "0", Number(0))
}

func TestExtract(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"what is 15% of 200?", []string{"15% of 200"}},
		{"can you work out (12 + 3) * 4 for me", []string{"(12 + 3) * 4"}},
		{"250 x 4 and then 1000/8", []string{"250 * 4", "1000/8"}},
		{"I train 4 days a week", []string{}},
		{"should I do 8-12 reps and lose 5-10 lb", []string{}},
		{"somewhere between 5-10", []string{}},
		{"what is 10-3?", []string{"10-3"}},
		{"10 - 3 reps", []string{"10 - 3"}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract(tc.in))
		})
	}
}
