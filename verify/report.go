package verify

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Report represents a complete verification report
type Report struct {
	Outcomes []Outcome
}

// GenerateReport runs every scenario and collects the outcomes.
func GenerateReport(scenarios []Scenario) *Report {
	r := &Report{}
	for _, s := range scenarios {
		r.Outcomes = append(r.Outcomes, RunScenario(s))
	}

	return r
}

// Failed returns the number of scenarios that did not pass.
func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Passed() {
			n++
		}
	}

	return n
}

// WriteReport writes a formatted report to a writer
func (r *Report) WriteReport(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Scenarios")
	t.AppendHeader(table.Row{"Scenario", "Status", "Reason", "Steps", "PC", "Result"})

	for _, o := range r.Outcomes {
		res := o.Direct.Result
		verdict := "PASS"
		if !o.Passed() {
			verdict = "FAIL"
		}

		t.AppendRow(table.Row{
			o.Name, res.Status, res.Reason, res.Steps, res.PC, verdict,
		})
	}

	t.AppendFooter(table.Row{
		"", "", "", "", "Failed", fmt.Sprintf("%d/%d", r.Failed(), len(r.Outcomes)),
	})
	t.Render()

	for _, o := range r.Outcomes {
		if o.Passed() {
			continue
		}

		fmt.Fprintf(w, "\n%s:\n", o.Name)
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, m := range o.Mismatches {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}
}
