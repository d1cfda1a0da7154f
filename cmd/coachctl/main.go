// Command coachctl runs the deterministic coaching core from the terminal,
// without the HTTP service or any external collaborator.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
