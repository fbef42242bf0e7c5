package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1

	// stackRows bounds how much of the stack a state dump shows.
	stackRows = 16
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// TraceEnabled reports whether Trace records reach the default logger.
func TraceEnabled() bool {
	return slog.Default().Enabled(context.Background(), LevelTrace)
}

// WriteState renders the registers, the top of the stack and the program
// counter of the core as tables.
func (c *Core) WriteState(w io.Writer) {
	writeState(w, &c.state)
}

func writeState(w io.Writer, state *coreState) {
	regTable := table.NewWriter()
	regTable.SetOutputMirror(w)
	regTable.SetTitle(fmt.Sprintf("Registers (pc=%d)", state.PC))

	header := table.Row{}
	row := table.Row{}
	for r := 0; r < NumRegisters; r++ {
		header = append(header, fmt.Sprintf("r%d", r))
		row = append(row, state.Registers[r])
	}
	regTable.AppendHeader(header)
	regTable.AppendRow(row)
	regTable.Render()

	stackTable := table.NewWriter()
	stackTable.SetOutputMirror(w)
	stackTable.SetTitle(fmt.Sprintf("Stack (depth=%d)", len(state.Stack)))
	stackTable.AppendHeader(table.Row{"Depth", "Value"})

	for d := 0; d < len(state.Stack) && d < stackRows; d++ {
		stackTable.AppendRow(table.Row{d, state.Stack[len(state.Stack)-1-d]})
	}
	if len(state.Stack) > stackRows {
		stackTable.AppendFooter(table.Row{"...", len(state.Stack) - stackRows})
	}
	stackTable.Render()
}

func LogState(state *coreState) {
	slog.Debug("StateCheckpoint",
		"PC", state.PC,
		"Registers", state.Registers,
		"StackDepth", len(state.Stack),
		"PendingInput", state.Input.Len(),
	)
}
