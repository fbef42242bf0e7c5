// Package api defines the driver API for running programs on the interpreter.
package api

import (
	"errors"
	"log/slog"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/synvm/core"
)

// ErrNoProgram is returned by Run when no program has been loaded.
var ErrNoProgram = errors.New("no program loaded")

// Driver provides the interface to run a program.
type Driver interface {
	// LoadProgram creates the interpreter core with the image as its
	// initial memory. The core reads input lines from in and writes output
	// bytes to out.
	LoadProgram(image []core.Word, in core.LineReader, out core.ByteWriter)

	// Core returns the core created by LoadProgram, or nil.
	Core() *core.Core

	// Run runs the loaded program until it halts or faults. A fault is
	// returned as the error, together with the result that carries it.
	Run() (core.Result, error)
}

type driverImpl struct {
	name    string
	engine  sim.Engine
	freq    sim.Freq
	monitor *monitoring.Monitor

	newMachine machineFactory
	machine    machine
	core       *core.Core
}

// LoadProgram creates the core that runs the image.
func (d *driverImpl) LoadProgram(
	image []core.Word,
	in core.LineReader,
	out core.ByteWriter,
) {
	d.machine = d.newMachine(d.name+".Core", d.engine, d.freq, image, in, out)
	d.core, _ = d.machine.(*core.Core)

	if comp, ok := d.machine.(sim.Component); ok && d.monitor != nil {
		d.monitor.RegisterComponent(comp)
	}

	slog.Info("ProgramLoaded",
		"Driver", d.name,
		"Words", len(image),
	)
}

func (d *driverImpl) Core() *core.Core {
	return d.core
}

// Run starts the core and runs the engine until the core stops ticking.
func (d *driverImpl) Run() (core.Result, error) {
	if d.machine == nil {
		return core.Result{}, ErrNoProgram
	}

	d.machine.Start()

	if err := d.engine.Run(); err != nil {
		return d.machine.Result(), err
	}

	res := d.machine.Result()

	slog.Info("RunFinished",
		"Driver", d.name,
		"Status", res.Status.String(),
		"Reason", res.Reason.String(),
		"Steps", res.Steps,
	)

	return res, res.Err
}
