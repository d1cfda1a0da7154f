// Package intent maps free text to the capability tags that apply to it.
//
// Classification is multi-label: every tag is matched on its own and no match
// suppresses another. Zero tags is a valid outcome.
package intent

import (
	"encoding/json"
	"sort"
	"strings"
)

// Tag is a capability label.
type Tag string

const (
	Arithmetic           Tag = "arithmetic"
	NutritionCalculation Tag = "nutrition_calculation"
	ProgramLookup        Tag = "program_lookup"
	ProductLookup        Tag = "product_lookup"
	WorkoutTopic         Tag = "workout_topic"
	SensitiveTopic       Tag = "sensitive_topic"
)

// AllTags lists the known tags in a fixed order.
func AllTags() []Tag {
	return []Tag{Arithmetic, NutritionCalculation, ProgramLookup, ProductLookup, WorkoutTopic, SensitiveTopic}
}

// TagSet is an unordered set of tags.
type TagSet map[Tag]struct{}

// NewTagSet builds a set from the given tags.
func NewTagSet(tags ...Tag) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

func (s TagSet) Add(t Tag) { s[t] = struct{}{} }

func (s TagSet) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the tags in lexical order.
func (s TagSet) Sorted() []Tag {
	out := make([]Tag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted tags as plain strings.
func (s TagSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, t := range sorted {
		out[i] = string(t)
	}
	return out
}

func (s TagSet) String() string {
	return strings.Join(s.Strings(), ",")
}

// MarshalJSON encodes the set as a sorted array.
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}
