package core

import "fmt"

// Opcode represents the operation code for an instruction
type Opcode Word

const (
	Hlt Opcode = iota
	Set
	Push
	Pop
	Eq
	Gt
	Jmp
	Jt
	Jf
	Add
	Mul
	Mod
	And
	Or
	Not
	Rmem
	Wmem
	Call
	Ret
	Out
	In
	Noop

	numOpcodes
)

var opcodeArity = [numOpcodes]int{
	0, 2, 1, 1, 3, 3, 1, 2, 2, 3, 3, 3, 3, 3, 2, 2, 2, 1, 0, 1, 1, 0,
}

var opcodeNames = [numOpcodes]string{
	"halt", "set", "push", "pop", "eq", "gt", "jmp", "jt", "jf", "add",
	"mult", "mod", "and", "or", "not", "rmem", "wmem", "call", "ret",
	"out", "in", "noop",
}

// Opcodes whose first operand names the register they write.
var opcodeDest = [numOpcodes]bool{
	Set: true, Pop: true, Eq: true, Gt: true, Add: true, Mul: true,
	Mod: true, And: true, Or: true, Not: true, Rmem: true, In: true,
}

// Valid returns true if the opcode is one of the known opcodes.
func (o Opcode) Valid() bool {
	return o < numOpcodes
}

// Arity returns the number of operand words following the opcode.
func (o Opcode) Arity() int {
	if !o.Valid() {
		return 0
	}

	return opcodeArity[o]
}

// HasDest returns true if the first operand is a destination register.
func (o Opcode) HasDest() bool {
	return o.Valid() && opcodeDest[o]
}

func (o Opcode) String() string {
	if !o.Valid() {
		return fmt.Sprintf("op(%d)", Word(o))
	}

	return opcodeNames[o]
}

// Instruction is a decoded instruction. Operands hold the raw words that
// followed the opcode; they are resolved only when executed.
type Instruction struct {
	Opcode   Opcode
	Operands [3]Word
	Addr     Word
}

// Operand returns the i-th raw operand word.
func (i Instruction) Operand(n int) Word {
	return i.Operands[n]
}

func (i Instruction) String() string {
	s := i.Opcode.String()
	for n := 0; n < i.Opcode.Arity(); n++ {
		w := i.Operands[n]
		if w.IsRegister() {
			s += fmt.Sprintf(" r%d", w.Register())
		} else {
			s += fmt.Sprintf(" %d", w)
		}
	}

	return s
}
