package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
)

// Status is the state of the run.
type Status int

const (
	Running Status = iota
	Halted
	Faulted
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the observable outcome of a run.
type Result struct {
	Status Status
	Reason HaltReason

	// Err is set when the run aborted. Fault is set as well when the
	// abort was a machine fault rather than an I/O failure.
	Err   error
	Fault *Fault

	Steps uint64
	PC    Word
}

// Core is an interpreter that executes one instruction per tick.
type Core struct {
	*sim.TickingComponent

	state  coreState
	emu    instEmulator
	result Result
}

// Step decodes and executes a single instruction. Once the machine has
// halted or faulted, Step does nothing and reports the final status.
func (c *Core) Step() (Status, error) {
	if c.result.Status != Running {
		return c.result.Status, c.result.Err
	}

	pc := c.state.PC

	inst, next, err := Decode(c.state.Memory, pc)
	if err != nil {
		return c.abort(err), err
	}

	if TraceEnabled() {
		Trace("Inst",
			"PC", pc,
			"Inst", inst.String(),
			"Step", c.result.Steps,
		)
	}

	c.state.PC = next

	reason, err := c.emu.RunInst(inst, &c.state)
	c.result.Steps++

	if err != nil {
		c.state.PC = pc
		return c.abort(attach(err, pc, &inst)), c.result.Err
	}

	if reason != NotHalted {
		c.result.Status = Halted
		c.result.Reason = reason
		c.result.PC = pc

		slog.Info("Halted",
			"Name", c.Name(),
			"Reason", reason.String(),
			"PC", pc,
			"Steps", c.result.Steps,
		)
	}

	return c.result.Status, nil
}

func (c *Core) abort(err error) Status {
	c.result.Status = Faulted
	c.result.Err = err
	c.result.PC = c.state.PC

	var f *Fault
	if errors.As(err, &f) {
		c.result.Fault = f
	}

	slog.Warn("Faulted",
		"Name", c.Name(),
		"Error", err.Error(),
		"PC", c.state.PC,
		"Steps", c.result.Steps,
	)
	LogState(&c.state)

	return Faulted
}

// Run executes instructions until the machine halts or faults.
func (c *Core) Run() Result {
	for {
		status, _ := c.Step()
		if status != Running {
			return c.result
		}
	}
}

// Tick runs the program for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	status, _ := c.Step()

	return status == Running
}

// Result returns the outcome of the run so far.
func (c *Core) Result() Result {
	r := c.result
	if r.Status == Running {
		r.PC = c.state.PC
	}

	return r
}

// Start schedules the first tick on the engine.
func (c *Core) Start() {
	c.TickNow()
}

// Register returns the contents of register r.
func (c *Core) Register(r int) Word {
	return c.state.Registers[r]
}

// SetRegister overwrites register r, reducing the value to a literal.
func (c *Core) SetRegister(r int, v Word) {
	c.state.Registers[r] = v % Modulus
}

// Registers returns a copy of the register file.
func (c *Core) Registers() [NumRegisters]Word {
	return c.state.Registers
}

// Stack returns a copy of the stack, bottom first.
func (c *Core) Stack() []Word {
	out := make([]Word, len(c.state.Stack))
	copy(out, c.state.Stack)

	return out
}

// PC returns the program counter.
func (c *Core) PC() Word {
	return c.state.PC
}

// Memory returns the machine memory.
func (c *Core) Memory() *Memory {
	return c.state.Memory
}
