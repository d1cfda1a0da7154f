// Package expr is the only place in the coaching core where raw arithmetic happens.
//
// Input strings are normalized, percentage forms are rewritten, and every
// character that is not part of plain arithmetic is stripped before a small
// recursive-descent parser evaluates what is left. Nothing other than
// + - * / and parentheses is ever executed.
package expr

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// percentOfRegex matches "15% of 200" (optional spaces, any case for "of").
	percentOfRegex = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%\s*of\s*(\d+(?:\.\d+)?)`)
	// barePercentRegex matches a percentage with nothing after it, e.g. "15%".
	barePercentRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	// disallowedRegex matches everything outside the arithmetic alphabet.
	disallowedRegex = regexp.MustCompile(`[^0-9.+\-*/()]`)
)

var (
	errEmpty          = errors.New("expression is empty after sanitizing")
	errUnbalanced     = errors.New("unbalanced parentheses")
	errNonFinite      = errors.New("result is not a finite number")
	errUnexpectedEnd  = errors.New("unexpected end of expression")
	errTrailingTokens = errors.New("unexpected trailing input")
)

// Evaluation is the outcome of evaluating one expression.
// When IsValid is false, Result carries no meaning and Error explains why.
type Evaluation struct {
	Expression string   `json:"expression"`
	Sanitized  string   `json:"sanitized"`
	Result     float64  `json:"result"`
	Steps      []string `json:"steps"`
	IsValid    bool     `json:"is_valid"`
	Error      string   `json:"error,omitempty"`
}

// Evaluate normalizes, sanitizes and evaluates an arithmetic expression.
// It never panics; any problem yields IsValid=false.
func Evaluate(expression string) Evaluation {
	ev := Evaluation{Expression: expression}

	normalized := strings.NewReplacer("×", "*", "÷", "/").Replace(expression)
	if normalized != expression {
		ev.Steps = append(ev.Steps, "Normalized operators: "+normalized)
	}

	rewritten := percentOfRegex.ReplaceAllString(normalized, "($1/100)*$2")
	rewritten = barePercentRegex.ReplaceAllString(rewritten, "($1/100)")
	if rewritten != normalized {
		ev.Steps = append(ev.Steps, "Rewrote percentages: "+rewritten)
	}

	sanitized := disallowedRegex.ReplaceAllString(rewritten, "")
	ev.Sanitized = sanitized
	ev.Steps = append(ev.Steps, "Sanitized: "+sanitized)

	value, err := evaluateSanitized(sanitized)
	if err != nil {
		ev.Error = err.Error()
		ev.Steps = append(ev.Steps, "Rejected: "+err.Error())
		return ev
	}

	ev.Result = Round2(value)
	if math.IsNaN(ev.Result) || math.IsInf(ev.Result, 0) {
		ev.Result, ev.Error = 0, errNonFinite.Error()
		ev.Steps = append(ev.Steps, "Rejected: "+ev.Error)
		return ev
	}
	ev.IsValid = true
	ev.Steps = append(ev.Steps, fmt.Sprintf("Evaluated: %s = %s", sanitized, Number(ev.Result)))
	return ev
}

func evaluateSanitized(s string) (float64, error) {
	if s == "" {
		return 0, errEmpty
	}
	if !balanced(s) {
		return 0, errUnbalanced
	}
	p := &parser{input: s}
	v, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("%w at position %d", errTrailingTokens, p.pos)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNonFinite
	}
	return v, nil
}

// balanced reports whether every ')' closes an earlier '(' and none are left open.
func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// --- Parser ---

// parser implements:
//
//	expression := term (('+' | '-') term)*
//	term       := factor (('*' | '/') factor)*
//	factor     := '-' factor | '+' factor | '(' expression ')' | number
type parser struct {
	input string
	pos   int
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) parseExpression() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			// Division by zero produces ±Inf or NaN and is rejected by the caller.
			left /= right
		}
	}
}

func (p *parser) parseFactor() (float64, error) {
	switch c := p.peek(); {
	case c == 0:
		return 0, errUnexpectedEnd
	case c == '-':
		p.pos++
		v, err := p.parseFactor()
		return -v, err
	case c == '+':
		p.pos++
		return p.parseFactor()
	case c == '(':
		p.pos++
		v, err := p.parseExpression()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("expected ')' at position %d", p.pos)
		}
		p.pos++
		return v, nil
	case (c >= '0' && c <= '9') || c == '.':
		return p.parseNumber()
	default:
		return 0, fmt.Errorf("unexpected %q at position %d", c, p.pos)
	}
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}
	literal := p.input[start:p.pos]
	v, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", literal)
	}
	return v, nil
}

// --- Formatting helpers ---

// Round2 rounds half away from zero to two decimal places. Magnitudes of
// 1e15 and above have no fractional digits left to round and are returned as is.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= 1e15 {
		return v
	}
	return math.Round(v*100) / 100
}

// Number formats v as a plain decimal literal the evaluator accepts.
// Exponent notation is never produced, since 'e' would be stripped on input.
func Number(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
