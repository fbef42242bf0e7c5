// Command synvm runs a program image on the interpreter, connected to the
// terminal.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/synvm/api"
	"github.com/sarchlab/synvm/config"
	"github.com/sarchlab/synvm/core"
	"github.com/sarchlab/synvm/program"
)

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, config.ErrUsage) {
			fmt.Fprintln(os.Stderr,
				"usage: synvm [-config FILE] [-log-level LEVEL] [-trace FILE] [-monitor] [IMAGE]")
		}
		atexit.Exit(1)
	}

	handler, traceFile, err := newLogHandler(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	if traceFile != nil {
		atexit.Register(func() { traceFile.Close() })
	}
	slog.SetDefault(slog.New(handler))

	image, err := program.LoadFile(cfg.ImagePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	engine := sim.NewSerialEngine()
	builder := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(sim.Freq(cfg.FreqMHz) * sim.MHz)

	var monitor *monitoring.Monitor
	if cfg.Monitor {
		monitor = monitoring.NewMonitor()
		builder = builder.WithMonitor(monitor)
	}

	driver := builder.Build("Driver")

	term := core.NewTerminal(os.Stdin, os.Stdout)
	atexit.Register(func() {
		if err := term.Flush(); err != nil {
			slog.Error("FlushFailed", "Error", err.Error())
		}
	})

	driver.LoadProgram(image, term, term)

	if monitor != nil {
		monitor.StartServer()
	}

	res, err := driver.Run()
	if err != nil {
		if flushErr := term.Flush(); flushErr != nil {
			slog.Error("FlushFailed", "Error", flushErr.Error())
		}

		fmt.Fprintf(os.Stderr, "\nsynvm: %v\n", err)
		if res.Status == core.Faulted {
			driver.Core().WriteState(os.Stderr)
		}
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// newLogHandler returns a text handler on stderr at the configured level.
// With a trace file, it returns a JSON handler on that file at trace level
// instead, along with the file to close at exit.
func newLogHandler(cfg config.Config, stderr io.Writer) (slog.Handler, io.Closer, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}

	if cfg.TraceFile == "" {
		return slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}), nil, nil
	}

	f, err := os.Create(cfg.TraceFile)
	if err != nil {
		return nil, nil, fmt.Errorf("trace file: %w", err)
	}

	return slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: core.LevelTrace,
	}), f, nil
}
