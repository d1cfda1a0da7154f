package main

import (
	"github.com/spf13/cobra"

	"github.com/dileep-u-k/coach-gateway/internal/profile"
)

// profileFlags binds the optional profile fields. A numeric field is only set
// on the profile when its flag was given.
type profileFlags struct {
	age      int
	weightKg float64
	heightCm float64
	bodyFat  float64
	sex      string
	activity string
	goal     string
}

func (f *profileFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.age, "age", 0, "Age in years")
	fl.Float64Var(&f.weightKg, "weight", 0, "Body weight in kg")
	fl.Float64Var(&f.heightCm, "height", 0, "Height in cm")
	fl.Float64Var(&f.bodyFat, "body-fat", 0, "Body fat percentage")
	fl.StringVar(&f.sex, "sex", "", "male or female")
	fl.StringVar(&f.activity, "activity", "", "sedentary, light, moderate, active or extreme")
	fl.StringVar(&f.goal, "goal", "", "Goal, e.g. lose, maintain, gain")
}

func (f *profileFlags) profile(cmd *cobra.Command) profile.Profile {
	fl := cmd.Flags()
	p := profile.Profile{Sex: f.sex, ActivityLevel: f.activity, Goal: f.goal}
	if fl.Changed("age") {
		p.Age = profile.Ptr(f.age)
	}
	if fl.Changed("weight") {
		p.WeightKg = profile.Ptr(f.weightKg)
	}
	if fl.Changed("height") {
		p.HeightCm = profile.Ptr(f.heightCm)
	}
	if fl.Changed("body-fat") {
		p.BodyFatPct = profile.Ptr(f.bodyFat)
	}
	return p
}
