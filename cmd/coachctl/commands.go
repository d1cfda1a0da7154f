package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dileep-u-k/coach-gateway/internal/api"
	"github.com/dileep-u-k/coach-gateway/internal/calc"
	"github.com/dileep-u-k/coach-gateway/internal/coach"
	"github.com/dileep-u-k/coach-gateway/internal/expr"
	"github.com/dileep-u-k/coach-gateway/internal/intent"
	"github.com/dileep-u-k/coach-gateway/internal/orchestrator"
	"github.com/dileep-u-k/coach-gateway/internal/program"
	"github.com/dileep-u-k/coach-gateway/internal/tools"
)

func newClassifyCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: "Show the intent tags detected in a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := intent.Default().Classify(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, c)
			}
			if len(c.Tags) == 0 {
				fmt.Fprintln(out, "no tags")
				return nil
			}
			for _, tag := range c.Tags.Sorted() {
				fmt.Fprintf(out, "%s: %s\n", tag, strings.Join(c.MatchedKeywords[tag], ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an arithmetic expression, e.g. \"15% of 200\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := expr.Evaluate(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			for _, s := range ev.Steps {
				fmt.Fprintln(out, "  "+s)
			}
			if !ev.IsValid {
				return fmt.Errorf("cannot evaluate %q: %s", ev.Expression, ev.Error)
			}
			fmt.Fprintf(out, "%s = %s\n", ev.Expression, expr.Number(ev.Result))
			return nil
		},
	}
	return cmd
}

func newTargetsCmd() *cobra.Command {
	var (
		pf       profileFlags
		formula  string
		protein  float64
		fatPct   float64
		asJSON   bool
		showMath bool
	)
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Compute BMR, TDEE, target calories and macros for a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := calc.Targets(pf.profile(cmd), calc.TargetOptions{
				Formula:      calc.Formula(formula),
				ProteinPerKg: protein,
				FatPct:       fatPct / 100,
			})
			var missing *calc.MissingDataError
			if errors.As(err, &missing) {
				return fmt.Errorf("missing profile data: %s (use --%s)",
					strings.Join(missing.Fields, ", "), strings.Join(missing.Fields, ", --"))
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, t)
			}
			printTargets(out, t, showMath)
			return nil
		},
	}
	pf.bind(cmd)
	cmd.Flags().StringVar(&formula, "formula", "", "mifflin_st_jeor or harris_benedict")
	cmd.Flags().Float64Var(&protein, "protein-per-kg", 0, "Protein rate in g/kg (default depends on goal)")
	cmd.Flags().Float64Var(&fatPct, "fat-pct", 0, "Fat share of calories in percent (default 25)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&showMath, "steps", false, "Print every calculation step")
	return cmd
}

func printTargets(w io.Writer, t calc.NutritionTargets, showMath bool) {
	line := func(label string, r calc.Result) {
		fmt.Fprintf(w, "%-16s %s\n", label, expr.Number(r.FinalResult))
		if showMath {
			printSteps(w, r.Steps)
		}
	}
	line("BMR", t.BMR)
	line("TDEE", t.TDEE)
	line("Target kcal", t.TargetCalories)
	m := t.Macros
	fmt.Fprintf(w, "%-16s %s g protein, %s g carbs, %s g fat (%s kcal)\n", "Macros",
		expr.Number(m.Protein.Grams), expr.Number(m.Carbs.Grams), expr.Number(m.Fat.Grams),
		expr.Number(m.TotalCaloriesFromMacros))
	if showMath {
		printSteps(w, m.Steps)
	}
	for _, d := range t.DefaultsApplied {
		fmt.Fprintln(w, "default:", d)
	}
	for _, warn := range append(m.Warnings, t.SafetyWarnings...) {
		fmt.Fprintln(w, "warning:", warn)
	}
}

func printSteps(w io.Writer, steps []expr.StepResult) {
	for _, s := range steps {
		fmt.Fprintf(w, "    %s: %s = %s\n", s.Description, s.Expression, expr.Number(s.Result))
	}
}

func newProgramCmd() *cobra.Command {
	var (
		pf     profileFlags
		day    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "program [massive|shred]",
		Short: "Print a program day; the regimen is inferred from --goal when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req program.DayRequest
			if len(args) == 1 {
				r, err := program.ParseRegimen(args[0])
				if err != nil {
					return err
				}
				req.Regimen, req.Explicit = r, true
			}
			if day != "" {
				d, err := program.ParseDayType(day)
				if err != nil {
					return err
				}
				req.DayType = d
			}
			plan, err := program.GenerateDay(pf.profile(cmd), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, plan)
			}
			printDay(out, plan)
			return nil
		},
	}
	pf.bind(cmd)
	cmd.Flags().StringVar(&day, "day", "", "low, med or high (default med)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func printDay(w io.Writer, plan program.DayPlan) {
	fmt.Fprintf(w, "%s / %s day: %s\n", plan.Regimen, plan.DayType, plan.Description)
	for _, m := range plan.MealPlan {
		fmt.Fprintf(w, "  %s (%s): %s [P %s / C %s / F %s]\n", m.Name, m.Time, strings.Join(m.Foods, ", "),
			expr.Number(m.Protein), expr.Number(m.Carbs), expr.Number(m.Fat))
	}
	t := plan.DailyTotals
	fmt.Fprintf(w, "Daily totals: protein %s g, carbs %s g, fat %s g, %s kcal\n",
		expr.Number(t.Protein), expr.Number(t.Carbs), expr.Number(t.Fat), expr.Number(t.Calories))
	fmt.Fprintln(w, plan.LeanBodyMass.Explanation)
	for _, warn := range plan.LeanBodyMass.EstimationWarnings {
		fmt.Fprintln(w, "estimate:", warn)
	}
	if plan.Suggestion != nil {
		fmt.Fprintf(w, "suggestion: %s (%s)\n", plan.Suggestion.Regimen, plan.Suggestion.Reason)
	}
	for _, n := range plan.Notes {
		fmt.Fprintln(w, "note:", n)
	}
}

func newCycleCmd() *cobra.Command {
	var history []float64
	cmd := &cobra.Command{
		Use:   "cycle <massive|shred>",
		Short: "Print the weekly cycle and apply the plateau rule to weekly weight changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := program.ParseRegimen(args[0])
			if err != nil {
				return err
			}
			c, err := program.Cycle(r)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range c.Days {
				fmt.Fprintf(out, "%-9s %s\n", d.Day, d.DayType)
			}
			for _, n := range c.Notes {
				fmt.Fprintln(out, "note:", n)
			}
			if len(history) > 0 {
				fmt.Fprintln(out, "plateau:", program.CheckPlateau(history).Recommendation)
			}
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&history, "history", nil, "Weekly weight changes in lb, oldest first")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var (
		pf      profileFlags
		history []float64
		payload bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <message>",
		Short: "Run classification and the offline tools, and print the result bundle",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := tools.DefaultRegistry(nil, calc.TargetOptions{})
			svc := coach.NewService(intent.Default(), orchestrator.New(registry))
			res, err := svc.Analyze(cmd.Context(), api.ChatRequest{
				Message:         strings.Join(args, " "),
				Profile:         pf.profile(cmd),
				WeightHistoryLb: history,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if payload {
				fmt.Fprintln(out, res.Payload.SystemInstruction)
				fmt.Fprintln(out, res.Payload.UserPayload)
				return nil
			}
			return writeJSON(out, res)
		},
	}
	pf.bind(cmd)
	cmd.Flags().Float64SliceVar(&history, "history", nil, "Weekly weight changes in lb, oldest first")
	cmd.Flags().BoolVar(&payload, "payload", false, "Print the assembled generation payload instead of JSON")
	return cmd
}
