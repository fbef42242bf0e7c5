package verify

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/synvm/api"
	"github.com/sarchlab/synvm/core"
)

var faultNames = map[string]error{
	"invalid-opcode":   core.ErrInvalidOpcode,
	"invalid-operand":  core.ErrInvalidOperand,
	"out-of-bounds":    core.ErrOutOfBounds,
	"division-by-zero": core.ErrDivisionByZero,
	"stack-underflow":  core.ErrStackUnderflow,
}

// Run is the observable outcome of one way of running a scenario.
type Run struct {
	Result    core.Result
	Output    string
	Registers [core.NumRegisters]core.Word
}

// Outcome is the result of checking one scenario.
type Outcome struct {
	Name   string
	Direct Run
	Driven Run
	Issues []Issue

	// Mismatches lists every way the runs disagree with each other or
	// with the expectation.
	Mismatches []string
}

// Passed reports whether the scenario met its expectation.
func (o Outcome) Passed() bool {
	return len(o.Mismatches) == 0
}

// RunScenario runs a scenario directly and on an akita engine, and
// compares both runs against the expectation.
func RunScenario(s Scenario) Outcome {
	o := Outcome{Name: s.Name}

	if s.Lint {
		o.Issues = RunLint(s.Program)
		for _, issue := range o.Issues {
			o.Mismatches = append(o.Mismatches,
				fmt.Sprintf("lint %s at %d: %s", issue.Type, issue.Addr, issue.Message))
		}
	}

	o.Direct = runDirect(s)
	o.Driven = runDriven(s)

	o.Mismatches = append(o.Mismatches, compareRuns(o.Direct, o.Driven)...)
	o.Mismatches = append(o.Mismatches, checkExpectation(s.Expect, o.Direct)...)

	return o
}

// componentName turns a scenario name into an akita component name:
// "mod-by-zero" becomes "ScenarioModByZero".
func componentName(name string) string {
	var sb strings.Builder
	sb.WriteString("Scenario")

	upper := true
	for _, r := range name {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if upper {
				r = unicode.ToUpper(r)
			}
			sb.WriteRune(r)
			upper = false
		default:
			upper = true
		}
	}

	return sb.String()
}

func runDirect(s Scenario) Run {
	var out bytes.Buffer
	t := core.NewTerminal(strings.NewReader(s.Input), &out)

	c := core.NewBuilder().
		WithImage(s.Program).
		WithInput(t).
		WithOutput(t).
		Build(componentName(s.Name) + ".Direct")

	res := c.Run()
	if err := t.Flush(); err != nil && res.Err == nil {
		res.Err = err
	}

	return Run{Result: res, Output: out.String(), Registers: c.Registers()}
}

func runDriven(s Scenario) Run {
	var out bytes.Buffer
	t := core.NewTerminal(strings.NewReader(s.Input), &out)

	driver := api.DriverBuilder{}.
		WithEngine(sim.NewSerialEngine()).
		Build(componentName(s.Name) + ".Driver")
	driver.LoadProgram(s.Program, t, t)

	res, err := driver.Run()
	if err != nil && res.Err == nil {
		res.Err = err
	}

	if err := t.Flush(); err != nil && res.Err == nil {
		res.Err = err
	}

	return Run{
		Result:    res,
		Output:    out.String(),
		Registers: driver.Core().Registers(),
	}
}

func compareRuns(direct, driven Run) []string {
	var diffs []string

	if direct.Result.Status != driven.Result.Status {
		diffs = append(diffs, fmt.Sprintf("status: direct %s, driven %s",
			direct.Result.Status, driven.Result.Status))
	}

	if direct.Result.Reason != driven.Result.Reason {
		diffs = append(diffs, fmt.Sprintf("reason: direct %s, driven %s",
			direct.Result.Reason, driven.Result.Reason))
	}

	if direct.Result.PC != driven.Result.PC {
		diffs = append(diffs, fmt.Sprintf("pc: direct %d, driven %d",
			direct.Result.PC, driven.Result.PC))
	}

	if direct.Result.Steps != driven.Result.Steps {
		diffs = append(diffs, fmt.Sprintf("steps: direct %d, driven %d",
			direct.Result.Steps, driven.Result.Steps))
	}

	if direct.Output != driven.Output {
		diffs = append(diffs, fmt.Sprintf("output: direct %q, driven %q",
			direct.Output, driven.Output))
	}

	if direct.Registers != driven.Registers {
		diffs = append(diffs, fmt.Sprintf("registers: direct %v, driven %v",
			direct.Registers, driven.Registers))
	}

	return diffs
}

func checkExpectation(e Expectation, run Run) []string {
	var diffs []string
	res := run.Result

	if run.Output != e.Output {
		diffs = append(diffs, fmt.Sprintf("output: want %q, got %q",
			e.Output, run.Output))
	}

	if e.Status != "" && e.Status != res.Status.String() {
		diffs = append(diffs, fmt.Sprintf("status: want %s, got %s",
			e.Status, res.Status))
	}

	if e.Reason != "" && e.Reason != res.Reason.String() {
		diffs = append(diffs, fmt.Sprintf("reason: want %s, got %s",
			e.Reason, res.Reason))
	}

	if e.Fault != "" {
		kind, ok := faultNames[e.Fault]
		switch {
		case !ok:
			diffs = append(diffs, fmt.Sprintf("fault: unknown kind %q", e.Fault))
		case !errors.Is(res.Err, kind):
			diffs = append(diffs, fmt.Sprintf("fault: want %s, got %v",
				e.Fault, res.Err))
		}
	} else if res.Status == core.Faulted && e.Status == "" {
		diffs = append(diffs, fmt.Sprintf("unexpected fault: %v", res.Err))
	}

	regs := make([]int, 0, len(e.Registers))
	for r := range e.Registers {
		regs = append(regs, r)
	}
	sort.Ints(regs)

	for _, r := range regs {
		want := e.Registers[r]
		if r < 0 || r >= core.NumRegisters {
			diffs = append(diffs, fmt.Sprintf("register %d does not exist", r))
			continue
		}

		if got := run.Registers[r]; got != want {
			diffs = append(diffs, fmt.Sprintf("r%d: want %d, got %d", r, want, got))
		}
	}

	return diffs
}
