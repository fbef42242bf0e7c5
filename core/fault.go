package core

import (
	"errors"
	"fmt"
	"strings"
)

// Fault kinds. A fault aborts the run; the machine defines no handler for
// any of them.
var (
	ErrInvalidOpcode  = errors.New("invalid opcode")
	ErrInvalidOperand = errors.New("invalid operand")
	ErrOutOfBounds    = errors.New("memory access out of bounds")
	ErrDivisionByZero = errors.New("division by zero")
	ErrStackUnderflow = errors.New("stack underflow")
)

// Fault describes the machine invariant an instruction violated.
type Fault struct {
	Kind error

	// PC is the address of the faulting instruction.
	PC Word

	// Opcode is the faulting instruction. It is only meaningful when
	// HasOpcode is set, since a fault may occur while decoding.
	Opcode    Opcode
	HasOpcode bool

	// Operand is the index of the offending operand, or -1.
	Operand int
	Word    Word

	// Addr is the memory address involved in an out of bounds access. It
	// may be one past the largest Word.
	Addr int
}

func (f *Fault) Error() string {
	var sb strings.Builder

	sb.WriteString(f.Kind.Error())
	fmt.Fprintf(&sb, " at pc %d", f.PC)

	if f.HasOpcode {
		fmt.Fprintf(&sb, " (%s)", f.Opcode)
	}

	switch {
	case errors.Is(f.Kind, ErrInvalidOpcode):
		fmt.Fprintf(&sb, ": tag %d", f.Word)
	case errors.Is(f.Kind, ErrOutOfBounds):
		fmt.Fprintf(&sb, ": address %d", f.Addr)
	case f.Operand >= 0:
		fmt.Fprintf(&sb, ": operand %d is %d", f.Operand, f.Word)
	}

	return sb.String()
}

// Unwrap returns the fault kind so that errors.Is matches the sentinels.
func (f *Fault) Unwrap() error {
	return f.Kind
}

// attach records where a fault happened. Faults raised below the emulator
// (memory, decoder) do not know the instruction they belong to.
func attach(err error, pc Word, inst *Instruction) error {
	var f *Fault
	if !errors.As(err, &f) {
		return err
	}

	f.PC = pc
	if inst != nil {
		f.Opcode = inst.Opcode
		f.HasOpcode = true
	}

	return f
}
