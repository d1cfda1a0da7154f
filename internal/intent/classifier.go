package intent

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Classification is the outcome of one Classify call.
type Classification struct {
	Tags            TagSet           `json:"tags"`
	MatchedKeywords map[Tag][]string `json:"matched_keywords"`
}

type compiledRule struct {
	tag      Tag
	keywords []string
	phrases  []string
	patterns []*regexp.Regexp
}

// Classifier applies a rule table. It is immutable after construction and
// safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

// NewClassifier compiles a rule table. Terms are lowercased; an invalid
// pattern is an error.
func NewClassifier(rules []Rule) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{tag: r.Tag}
		for _, k := range r.Keywords {
			if k = normalize(k); k != "" {
				cr.keywords = append(cr.keywords, k)
			}
		}
		for _, p := range r.Phrases {
			if p = normalize(p); p != "" {
				cr.phrases = append(cr.phrases, p)
			}
		}
		for _, p := range r.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("intent rule %q: invalid pattern %q: %w", r.Tag, p, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	c, err := NewClassifier(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns every tag whose rule matches text.
func (c *Classifier) Classify(text string) Classification {
	out := Classification{Tags: NewTagSet(), MatchedKeywords: make(map[Tag][]string)}
	lower := normalize(text)
	if lower == "" {
		return out
	}
	for _, r := range c.rules {
		var matched []string
		for _, k := range r.keywords {
			if containsWordPrefix(lower, k) {
				matched = append(matched, k)
			}
		}
		for _, p := range r.phrases {
			if strings.Contains(lower, p) {
				matched = append(matched, p)
			}
		}
		for _, re := range r.patterns {
			if m := re.FindString(lower); m != "" {
				matched = append(matched, m)
			}
		}
		if len(matched) > 0 {
			out.Tags.Add(r.tag)
			out.MatchedKeywords[r.tag] = append(out.MatchedKeywords[r.tag], matched...)
		}
	}
	return out
}

// normalize lowercases and collapses runs of whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// containsWordPrefix reports whether term occurs in text starting at a word
// boundary, so "macro" matches "macros" but "cut" does not match "execute".
func containsWordPrefix(text, term string) bool {
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return false
		}
		at := offset + i
		if at == 0 || !isWordByte(text[at-1]) {
			return true
		}
		offset = at + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b < unicode.MaxASCII && (unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b)))
}
