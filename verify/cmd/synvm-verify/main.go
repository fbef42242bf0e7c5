package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/synvm/verify"
)

// main runs every scenario file named on the command line and prints a
// report. SYNVM_SCENARIOS names a file when no argument is given.
func main() {
	paths := os.Args[1:]
	if len(paths) == 0 {
		if p := os.Getenv("SYNVM_SCENARIOS"); p != "" {
			paths = []string{p}
		}
	}

	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: synvm-verify SCENARIOS.yaml...")
		atexit.Exit(2)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: slog.LevelError})))

	var scenarios []verify.Scenario
	for _, p := range paths {
		s, err := verify.LoadScenarios(p)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			atexit.Exit(1)
		}
		scenarios = append(scenarios, s...)
	}

	report := verify.GenerateReport(scenarios)
	report.WriteReport(os.Stdout)

	if report.Failed() > 0 {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
