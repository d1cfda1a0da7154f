package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissing_ReportsAbsentFieldsInOrder(t *testing.T) {
	p := Profile{WeightKg: Ptr(80.0), Sex: "M"}
	assert.Equal(t, []string{FieldAge, FieldHeight}, p.Missing(FieldAge, FieldWeight, FieldHeight, FieldSex))
}

func TestMissing_ZeroValuesCountAsAbsent(t *testing.T) {
	p := Profile{Age: Ptr(0), WeightKg: Ptr(0.0), BodyFatPct: Ptr(0.0)}
	assert.Equal(t, []string{FieldAge, FieldWeight, FieldBodyFat}, p.Missing(FieldAge, FieldWeight, FieldBodyFat))
}

func TestNormalizedSex(t *testing.T) {
	cases := map[string]string{
		"male": SexMale, " Female ": SexFemale, "m": SexMale, "w": "", "": "", "woman": SexFemale,
	}
	for in, want := range cases {
		assert.Equal(t, want, Profile{Sex: in}.NormalizedSex(), in)
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "no profile details provided", Profile{}.Summary())

	p := Profile{Age: Ptr(30), Sex: "male", WeightKg: Ptr(80.0), Goal: "gain"}
	assert.Equal(t, "age 30, male, weight 80.0 kg, goal gain", p.Summary())
}
