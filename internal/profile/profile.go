// Package profile defines the sparse user profile consumed by the coaching core.
//
// Every field is optional. An absent value is meaningful: the calculation and
// program engines either substitute a documented default, estimate the value,
// or report it as missing. The core never mutates or persists a Profile.
package profile

import (
	"fmt"
	"strings"
)

// Sex values understood by the engines.
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Field names used when reporting missing data.
const (
	FieldAge        = "age"
	FieldWeight     = "weight"
	FieldHeight     = "height"
	FieldSex        = "sex"
	FieldBodyFat    = "body_fat_percentage"
	FieldActivity   = "activity_level"
	FieldGoal       = "goal"
	FieldExperience = "training_experience"
)

// Profile is a read-only snapshot of what is known about the user.
// Numeric fields are pointers so that "unknown" is distinct from zero.
type Profile struct {
	Age           *int     `json:"age,omitempty" yaml:"age,omitempty"`
	WeightKg      *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	HeightCm      *float64 `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
	Sex           string   `json:"sex,omitempty" yaml:"sex,omitempty"`
	BodyFatPct    *float64 `json:"body_fat_percentage,omitempty" yaml:"body_fat_percentage,omitempty"`
	ActivityLevel string   `json:"activity_level,omitempty" yaml:"activity_level,omitempty"`
	Experience    string   `json:"training_experience,omitempty" yaml:"training_experience,omitempty"`
	Goal          string   `json:"goal,omitempty" yaml:"goal,omitempty"`
	DietaryNotes  string   `json:"dietary_notes,omitempty" yaml:"dietary_notes,omitempty"`
}

// Ptr returns a pointer to v. It is the usual way to fill optional fields.
func Ptr[T any](v T) *T {
	return &v
}

// NormalizedSex returns "male", "female" or "" for anything unrecognised.
func (p Profile) NormalizedSex() string {
	switch strings.ToLower(strings.TrimSpace(p.Sex)) {
	case "m", "male", "man":
		return SexMale
	case "f", "female", "woman":
		return SexFemale
	default:
		return ""
	}
}

// Missing reports which of the requested fields are absent, in the order asked.
func (p Profile) Missing(fields ...string) []string {
	var missing []string
	for _, f := range fields {
		if !p.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Has reports whether a named field carries a usable value.
func (p Profile) Has(field string) bool {
	switch field {
	case FieldAge:
		return p.Age != nil && *p.Age > 0
	case FieldWeight:
		return p.WeightKg != nil && *p.WeightKg > 0
	case FieldHeight:
		return p.HeightCm != nil && *p.HeightCm > 0
	case FieldSex:
		return p.NormalizedSex() != ""
	case FieldBodyFat:
		return p.BodyFatPct != nil && *p.BodyFatPct > 0 && *p.BodyFatPct < 100
	case FieldActivity:
		return strings.TrimSpace(p.ActivityLevel) != ""
	case FieldGoal:
		return strings.TrimSpace(p.Goal) != ""
	case FieldExperience:
		return strings.TrimSpace(p.Experience) != ""
	default:
		return false
	}
}

// Summary renders the known fields as a short, stable, human-readable line.
func (p Profile) Summary() string {
	var parts []string
	if p.Age != nil {
		parts = append(parts, fmt.Sprintf("age %d", *p.Age))
	}
	if s := p.NormalizedSex(); s != "" {
		parts = append(parts, s)
	}
	if p.WeightKg != nil {
		parts = append(parts, fmt.Sprintf("weight %.1f kg", *p.WeightKg))
	}
	if p.HeightCm != nil {
		parts = append(parts, fmt.Sprintf("height %.1f cm", *p.HeightCm))
	}
	if p.BodyFatPct != nil {
		parts = append(parts, fmt.Sprintf("body fat %.1f%%", *p.BodyFatPct))
	}
	if p.ActivityLevel != "" {
		parts = append(parts, "activity "+p.ActivityLevel)
	}
	if p.Experience != "" {
		parts = append(parts, "experience "+p.Experience)
	}
	if p.Goal != "" {
		parts = append(parts, "goal "+p.Goal)
	}
	if p.DietaryNotes != "" {
		parts = append(parts, "diet notes: "+p.DietaryNotes)
	}
	if len(parts) == 0 {
		return "no profile details provided"
	}
	return strings.Join(parts, ", ")
}
