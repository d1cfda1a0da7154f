package calc

const (
	kgPerPound = 0.45359237
	cmPerInch  = 2.54
)

// PoundsToKg converts pounds to kilograms.
func PoundsToKg(lb float64) Result {
	var s stepper
	s.step("kg = lb × 0.45359237", n(lb)+"*"+n(kgPerPound))
	return s.result(FormulaPoundsToKg, map[string]float64{"lb": lb})
}

// KgToPounds converts kilograms to pounds.
func KgToPounds(kg float64) Result {
	var s stepper
	s.step("lb = kg ÷ 0.45359237", n(kg)+"/"+n(kgPerPound))
	return s.result(FormulaKgToPounds, map[string]float64{"kg": kg})
}

// InchesToCm converts inches to centimetres.
func InchesToCm(in float64) Result {
	var s stepper
	s.step("cm = in × 2.54", n(in)+"*"+n(cmPerInch))
	return s.result(FormulaInchesToCm, map[string]float64{"in": in})
}

// CmToInches converts centimetres to inches.
func CmToInches(cm float64) Result {
	var s stepper
	s.step("in = cm ÷ 2.54", n(cm)+"/"+n(cmPerInch))
	return s.result(FormulaCmToInches, map[string]float64{"cm": cm})
}

// FeetInchesToCm converts a height such as 5 ft 11 in to centimetres.
func FeetInchesToCm(feet, inches float64) Result {
	var s stepper
	total := s.step("Total inches = ft × 12 + in", n(feet)+"*12+"+n(inches))
	s.step("cm = total inches × 2.54", n(total)+"*"+n(cmPerInch))
	return s.result(FormulaFeetInchesToCm, map[string]float64{"ft": feet, "in": inches})
}
