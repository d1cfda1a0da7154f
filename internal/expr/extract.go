package expr

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// expressionSpanRegex finds arithmetic spans inside free text. The first
// alternative catches "X% of Y"; the second catches operator chains such as
// "(12 + 3) * 4", "250 x 4" or "2500 ÷ 3".
var expressionSpanRegex = regexp.MustCompile(
	`(?i)\d+(?:\.\d+)?\s*%\s*of\s*\d+(?:\.\d+)?` +
		`|\(*\s*\d+(?:\.\d+)?%?\s*\)*(?:\s*[-+*/×÷x]\s*\(*\s*\d+(?:\.\d+)?%?\s*\)*)+`,
)

// rangeRegex is a bare "8-12" with no spaces around the hyphen.
var rangeRegex = regexp.MustCompile(`^\d+(?:\.\d+)?-\d+(?:\.\d+)?$`)

// Extract returns the arithmetic expressions found in text, in order of appearance.
// Prose is never passed to Evaluate wholesale; only these spans are.
// Ranges such as "8-12 reps" or "between 5-10" are not expressions.
func Extract(text string) []string {
	locs := expressionSpanRegex.FindAllStringIndex(text, -1)
	out := make([]string, 0, len(locs))
	for _, loc := range locs {
		s := strings.TrimSpace(text[loc[0]:loc[1]])
		if IsRange(s, text[:loc[0]], text[loc[1]:]) {
			continue
		}
		if !strings.Contains(strings.ToLower(s), "of") {
			s = strings.NewReplacer("x", "*", "X", "*").Replace(s)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsRange reports whether span, found between before and after, reads as a
// numeric range rather than a subtraction: an unspaced "a-b" that is followed
// by a word ("8-12 reps", "5-10 lb") or preceded by "between" or "from".
func IsRange(span, before, after string) bool {
	if !rangeRegex.MatchString(span) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(strings.TrimLeft(after, " \t"))
	if unicode.IsLetter(next) {
		return true
	}
	words := strings.Fields(strings.ToLower(before))
	if len(words) == 0 {
		return false
	}
	switch words[len(words)-1] {
	case "between", "from":
		return true
	}
	return false
}
