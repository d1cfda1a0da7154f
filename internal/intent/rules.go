package intent

// Rule is the data behind one tag. Keywords match at the start of a word,
// phrases anywhere, patterns as regular expressions over the lowercased text.
type Rule struct {
	Tag      Tag      `yaml:"tag" json:"tag"`
	Keywords []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Phrases  []string `yaml:"phrases,omitempty" json:"phrases,omitempty"`
	Patterns []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// DefaultRules returns a fresh copy of the built-in rule table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Tag:      Arithmetic,
			Keywords: []string{"calculate", "compute"},
			Phrases:  []string{"% of"},
			// An unspaced "8-12" followed by a word is a range, not a subtraction.
			Patterns: []string{
				`\d+(\.\d+)?\s*[+*/×÷x]\s*\(?\s*\d`,
				`\d+(\.\d+)?(\s+-\s*|\s*-\s+)\(?\s*\d`,
				`\d+(\.\d+)?-\(?\d+(\.\d+)?\s*([^\sa-z0-9.]|\.(\s|$)|$)`,
				`\(\s*\d+(\.\d+)?\s*[+*/×÷]`,
				`\(\s*\d+(\.\d+)?\s*-\s*\d+(\.\d+)?\s*\)`,
			},
		},
		{
			Tag: NutritionCalculation,
			Keywords: []string{
				"macro", "calorie", "kcal", "tdee", "bmr", "protein", "carb", "fat",
				"deficit", "surplus", "maintenance", "metabolism", "lean mass", "body fat",
			},
			Phrases: []string{
				"how much should i eat", "how much protein", "how many calories", "lean body mass",
				"basal metabolic", "daily energy", "my targets",
			},
		},
		{
			Tag:      ProgramLookup,
			Keywords: []string{"massive", "shred", "program", "protocol", "refeed", "plateau"},
			Phrases: []string{
				"high day", "low day", "med day", "medium day", "high carb day", "low carb day",
				"carb cycle", "carb cycling", "meal plan", "weekly cycle",
			},
		},
		{
			Tag: ProductLookup,
			Keywords: []string{
				"supplement", "whey", "creatine", "product", "buy", "price", "shop", "discount", "stock",
			},
			Phrases: []string{"protein powder", "pre-workout", "where can i get", "do you sell"},
		},
		{
			Tag: WorkoutTopic,
			Keywords: []string{
				"workout", "exercise", "train", "lift", "squat", "bench", "deadlift",
				"reps", "sets", "cardio", "gym", "hypertrophy", "split",
			},
			Phrases: []string{"leg day", "push pull", "rest day"},
		},
		{
			Tag: SensitiveTopic,
			Keywords: []string{
				"anorexi", "bulimi", "purge", "purging", "starve", "starving", "suicid", "steroid",
				"pregnan", "breastfeed", "diabet", "medication", "insulin", "injur",
			},
			Phrases: []string{"eating disorder", "self harm", "self-harm", "chest pain", "binge"},
		},
	}
}

// MergeRules extends base with extra. Entries for an existing tag add their
// terms to it; entries for a new tag are appended. Neither input is modified.
func MergeRules(base, extra []Rule) []Rule {
	out := make([]Rule, len(base))
	index := make(map[Tag]int, len(base))
	for i, r := range base {
		out[i] = Rule{
			Tag:      r.Tag,
			Keywords: append([]string(nil), r.Keywords...),
			Phrases:  append([]string(nil), r.Phrases...),
			Patterns: append([]string(nil), r.Patterns...),
		}
		index[r.Tag] = i
	}
	for _, r := range extra {
		i, ok := index[r.Tag]
		if !ok {
			out = append(out, Rule{Tag: r.Tag})
			i = len(out) - 1
			index[r.Tag] = i
		}
		out[i].Keywords = appendUnique(out[i].Keywords, r.Keywords...)
		out[i].Phrases = appendUnique(out[i].Phrases, r.Phrases...)
		out[i].Patterns = appendUnique(out[i].Patterns, r.Patterns...)
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range values {
		if !seen[v] {
			dst = append(dst, v)
			seen[v] = true
		}
	}
	return dst
}
