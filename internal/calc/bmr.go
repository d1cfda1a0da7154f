package calc

import (
	"fmt"

	"github.com/dileep-u-k/coach-gateway/internal/profile"
)

// Formula selects the BMR regression.
type Formula string

const (
	// MifflinStJeor is the modern regression and the default.
	MifflinStJeor Formula = "mifflin_st_jeor"
	// HarrisBenedict is the revised (Roza & Shizgal) legacy regression.
	HarrisBenedict Formula = "harris_benedict"
)

// bmrRequired lists the profile fields every BMR formula needs.
var bmrRequired = []string{profile.FieldAge, profile.FieldWeight, profile.FieldHeight, profile.FieldSex}

// BMR computes basal metabolic rate in kcal/day.
// Age, weight, height and sex are required; otherwise a *MissingDataError is returned.
func BMR(p profile.Profile, formula Formula) (Result, error) {
	if missing := p.Missing(bmrRequired...); len(missing) > 0 {
		return Result{}, &MissingDataError{Operation: "BMR", Fields: missing}
	}

	age := float64(*p.Age)
	weight := *p.WeightKg
	height := *p.HeightCm
	male := p.NormalizedSex() == profile.SexMale
	inputs := map[string]float64{"age": age, "weight_kg": weight, "height_cm": height}

	switch formula {
	case HarrisBenedict:
		return harrisBenedict(age, weight, height, male, inputs), nil
	case MifflinStJeor, "":
		return mifflinStJeor(age, weight, height, male, inputs), nil
	default:
		return Result{}, fmt.Errorf("unknown BMR formula %q", formula)
	}
}

func mifflinStJeor(age, weight, height float64, male bool, inputs map[string]float64) Result {
	var s stepper
	w := s.step("Weight component (10 × weight kg)", "10*"+n(weight))
	h := s.step("Height component (6.25 × height cm)", "6.25*"+n(height))
	a := s.step("Age component (5 × age)", "5*"+n(age))
	if male {
		s.step("BMR = weight + height − age + 5 (male)", n(w)+"+"+n(h)+"-"+n(a)+"+5")
	} else {
		s.step("BMR = weight + height − age − 161 (female)", n(w)+"+"+n(h)+"-"+n(a)+"-161")
	}
	return s.result(FormulaMifflinStJeor, inputs)
}

func harrisBenedict(age, weight, height float64, male bool, inputs map[string]float64) Result {
	var s stepper
	if male {
		w := s.step("Weight component (13.397 × weight kg)", "13.397*"+n(weight))
		h := s.step("Height component (4.799 × height cm)", "4.799*"+n(height))
		a := s.step("Age component (5.677 × age)", "5.677*"+n(age))
		s.step("BMR = 88.362 + weight + height − age (male)", "88.362+"+n(w)+"+"+n(h)+"-"+n(a))
	} else {
		w := s.step("Weight component (9.247 × weight kg)", "9.247*"+n(weight))
		h := s.step("Height component (3.098 × height cm)", "3.098*"+n(height))
		a := s.step("Age component (4.330 × age)", "4.330*"+n(age))
		s.step("BMR = 447.593 + weight + height − age (female)", "447.593+"+n(w)+"+"+n(h)+"-"+n(a))
	}
	return s.result(FormulaHarrisBenedict, inputs)
}
