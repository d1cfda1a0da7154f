package calc

import (
	"fmt"
	"math"

	"github.com/dileep-u-k/coach-gateway/internal/profile"
)

// Unit system for circumference and height inputs.
type Unit string

const (
	UnitMetric   Unit = "metric"   // centimetres
	UnitImperial Unit = "imperial" // inches
)

// Circumference holds tape measurements for the US Navy body-fat method.
// Hip is only used for women.
type Circumference struct {
	Sex    string  `json:"sex"`
	Unit   Unit    `json:"unit"`
	Height float64 `json:"height"`
	Waist  float64 `json:"waist"`
	Neck   float64 `json:"neck"`
	Hip    float64 `json:"hip,omitempty"`
}

// BodyFatNavy estimates body-fat percentage from circumference measurements.
//
// The logarithms are taken outside the evaluator, which only knows + - * /;
// their values are recorded as inputs so the steps remain reproducible.
func BodyFatNavy(c Circumference) (Result, error) {
	sex := profile.Profile{Sex: c.Sex}.NormalizedSex()
	var missing []string
	if sex == "" {
		missing = append(missing, "sex")
	}
	if c.Height <= 0 {
		missing = append(missing, "height")
	}
	if c.Waist <= 0 {
		missing = append(missing, "waist")
	}
	if c.Neck <= 0 {
		missing = append(missing, "neck")
	}
	if sex == profile.SexFemale && c.Hip <= 0 {
		missing = append(missing, "hip")
	}
	if len(missing) > 0 {
		return Result{}, &MissingDataError{Operation: "body fat (circumference method)", Fields: missing}
	}

	var s stepper
	height, waist, neck, hip := c.Height, c.Waist, c.Neck, c.Hip
	if c.Unit == UnitImperial {
		height = s.step("Height in cm = in × 2.54", n(c.Height)+"*2.54")
		waist = s.step("Waist in cm = in × 2.54", n(c.Waist)+"*2.54")
		neck = s.step("Neck in cm = in × 2.54", n(c.Neck)+"*2.54")
		if sex == profile.SexFemale {
			hip = s.step("Hip in cm = in × 2.54", n(c.Hip)+"*2.54")
		}
	}

	var girth float64
	if sex == profile.SexMale {
		girth = s.step("Girth = waist − neck", n(waist)+"-"+n(neck))
	} else {
		girth = s.step("Girth = waist + hip − neck", n(waist)+"+"+n(hip)+"-"+n(neck))
	}
	if girth <= 0 {
		return Result{}, fmt.Errorf("body fat (circumference method): waist must exceed neck")
	}

	logGirth := round6(math.Log10(girth))
	logHeight := round6(math.Log10(height))
	inputs := map[string]float64{
		"height_cm": height, "waist_cm": waist, "neck_cm": neck,
		"log10_girth": logGirth, "log10_height": logHeight,
	}
	if sex == profile.SexFemale {
		inputs["hip_cm"] = hip
	}

	// The density term is carried in millionths so the evaluator's 2 dp rounding
	// does not swamp it.
	var densityMicro float64
	if sex == profile.SexMale {
		densityMicro = s.step("Density term ×10⁶ = 1032400 − 190770 × log10(girth) + 154560 × log10(height)",
			"1032400-190770*"+n(logGirth)+"+154560*"+n(logHeight))
	} else {
		densityMicro = s.step("Density term ×10⁶ = 1295790 − 350040 × log10(girth) + 221000 × log10(height)",
			"1295790-350040*"+n(logGirth)+"+221000*"+n(logHeight))
	}
	s.step("Body fat % = 495 ÷ density − 450", "495000000/"+n(densityMicro)+"-450")

	return s.result(FormulaBodyFatNavy, inputs), nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// LeanBodyMass computes weight × (1 − body fat %), in the unit of weight.
func LeanBodyMass(weight, bodyFatPct float64) Result {
	var s stepper
	fatMass := s.step("Fat mass = weight × body fat % ÷ 100", n(weight)+"*"+n(bodyFatPct)+"/100")
	s.step("Lean body mass = weight − fat mass", n(weight)+"-"+n(fatMass))
	r := s.result(FormulaLeanBodyMass, map[string]float64{"weight": weight, "body_fat_pct": bodyFatPct})
	if weight <= 0 || bodyFatPct < 0 || bodyFatPct >= 100 {
		r.IsValid = false
		r.FinalResult = 0
	}
	return r
}
