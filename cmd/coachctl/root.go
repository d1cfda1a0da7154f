package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "coachctl",
		Short:         "Run the coaching calculators and program tables offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newClassifyCmd(),
		newEvalCmd(),
		newTargetsCmd(),
		newProgramCmd(),
		newCycleCmd(),
		newAnalyzeCmd(),
	)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
