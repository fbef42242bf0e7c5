package core

import (
	"fmt"
)

// HaltReason tells why the machine stopped gracefully.
type HaltReason int

const (
	// NotHalted means the machine keeps running.
	NotHalted HaltReason = iota
	// HaltInstruction is the halt opcode.
	HaltInstruction
	// HaltReturn is a ret with an empty stack.
	HaltReturn
	// HaltEndOfInput is an in with no input left.
	HaltEndOfInput
)

func (r HaltReason) String() string {
	switch r {
	case NotHalted:
		return "running"
	case HaltInstruction:
		return "halt"
	case HaltReturn:
		return "return"
	case HaltEndOfInput:
		return "end-of-input"
	default:
		return fmt.Sprintf("HaltReason(%d)", int(r))
	}
}

type coreState struct {
	PC        Word
	Registers [NumRegisters]Word
	Stack     []Word
	Memory    *Memory

	Input  inputBuffer
	Output ByteWriter
}

type instEmulator struct {
}

// RunInst executes a decoded instruction. The PC in the state must
// already point past the instruction.
func (i instEmulator) RunInst(inst Instruction, state *coreState) (HaltReason, error) {
	var err error

	switch inst.Opcode {
	case Hlt:
		return HaltInstruction, nil
	case Set:
		err = i.runSet(inst, state)
	case Push:
		err = i.runPush(inst, state)
	case Pop:
		err = i.runPop(inst, state)
	case Eq, Gt:
		err = i.runCmp(inst, state)
	case Jmp:
		err = i.runJmp(inst, state)
	case Jt, Jf:
		err = i.runCondJmp(inst, state)
	case Add, Mul, Mod, And, Or:
		err = i.runArith(inst, state)
	case Not:
		err = i.runNot(inst, state)
	case Rmem:
		err = i.runRmem(inst, state)
	case Wmem:
		err = i.runWmem(inst, state)
	case Call:
		err = i.runCall(inst, state)
	case Ret:
		return i.runRet(state), nil
	case Out:
		err = i.runOut(inst, state)
	case In:
		return i.runIn(inst, state)
	case Noop:
	default:
		err = &Fault{Kind: ErrInvalidOpcode, Operand: -1, Word: Word(inst.Opcode)}
	}

	return NotHalted, err
}

// readOperand resolves the n-th operand as a value: literals denote
// themselves and register references the register contents.
func (i instEmulator) readOperand(inst Instruction, n int, state *coreState) (Word, error) {
	w := inst.Operands[n]

	switch {
	case w.IsLiteral():
		return w, nil
	case w.IsRegister():
		return state.Registers[w.Register()], nil
	default:
		return 0, i.operandFault(inst, n)
	}
}

// writeOperand stores a value into the register named by the n-th
// operand. The operand is taken as a register index without resolution.
func (i instEmulator) writeOperand(inst Instruction, n int, value Word, state *coreState) error {
	reg := int(inst.Operands[n]) % Modulus
	if reg >= NumRegisters {
		return i.operandFault(inst, n)
	}

	state.Registers[reg] = value % Modulus

	return nil
}

func (i instEmulator) operandFault(inst Instruction, n int) error {
	return &Fault{
		Kind:      ErrInvalidOperand,
		PC:        inst.Addr,
		Opcode:    inst.Opcode,
		HasOpcode: true,
		Operand:   n,
		Word:      inst.Operands[n],
	}
}

func (i instEmulator) readOperands(inst Instruction, state *coreState, idx ...int) ([]Word, error) {
	vals := make([]Word, len(idx))
	for k, n := range idx {
		v, err := i.readOperand(inst, n, state)
		if err != nil {
			return nil, err
		}

		vals[k] = v
	}

	return vals, nil
}

func (i instEmulator) runSet(inst Instruction, state *coreState) error {
	b, err := i.readOperand(inst, 1, state)
	if err != nil {
		return err
	}

	return i.writeOperand(inst, 0, b, state)
}

func (i instEmulator) runPush(inst Instruction, state *coreState) error {
	a, err := i.readOperand(inst, 0, state)
	if err != nil {
		return err
	}

	state.Stack = append(state.Stack, a)

	return nil
}

func (i instEmulator) runPop(inst Instruction, state *coreState) error {
	if len(state.Stack) == 0 {
		return &Fault{
			Kind:      ErrStackUnderflow,
			PC:        inst.Addr,
			Opcode:    inst.Opcode,
			HasOpcode: true,
			Operand:   -1,
		}
	}

	// Validate the destination before the stack is touched.
	if err := i.writeOperand(inst, 0, state.Stack[len(state.Stack)-1], state); err != nil {
		return err
	}

	state.Stack = state.Stack[:len(state.Stack)-1]

	return nil
}

func (i instEmulator) runCmp(inst Instruction, state *coreState) error {
	vals, err := i.readOperands(inst, state, 1, 2)
	if err != nil {
		return err
	}

	var res Word
	switch inst.Opcode {
	case Eq:
		if vals[0] == vals[1] {
			res = 1
		}
	case Gt:
		if vals[0] > vals[1] {
			res = 1
		}
	}

	return i.writeOperand(inst, 0, res, state)
}

func (i instEmulator) runJmp(inst Instruction, state *coreState) error {
	a, err := i.readOperand(inst, 0, state)
	if err != nil {
		return err
	}

	state.PC = a

	return nil
}

func (i instEmulator) runCondJmp(inst Instruction, state *coreState) error {
	vals, err := i.readOperands(inst, state, 0, 1)
	if err != nil {
		return err
	}

	cond, target := vals[0], vals[1]
	if (inst.Opcode == Jt) == (cond != 0) {
		state.PC = target
	}

	return nil
}

func (i instEmulator) runArith(inst Instruction, state *coreState) error {
	vals, err := i.readOperands(inst, state, 1, 2)
	if err != nil {
		return err
	}

	b, c := uint32(vals[0]), uint32(vals[1])

	var res uint32
	switch inst.Opcode {
	case Add:
		res = (b + c) % Modulus
	case Mul:
		res = (b * c) % Modulus
	case Mod:
		if c == 0 {
			return &Fault{
				Kind:      ErrDivisionByZero,
				PC:        inst.Addr,
				Opcode:    inst.Opcode,
				HasOpcode: true,
				Operand:   2,
				Word:      inst.Operands[2],
			}
		}
		res = b % c
	case And:
		// Both inputs are below 32768, so is the result.
		res = b & c
	case Or:
		res = b | c
	}

	return i.writeOperand(inst, 0, Word(res), state)
}

func (i instEmulator) runNot(inst Instruction, state *coreState) error {
	b, err := i.readOperand(inst, 1, state)
	if err != nil {
		return err
	}

	return i.writeOperand(inst, 0, b^literalMask, state)
}

func (i instEmulator) runRmem(inst Instruction, state *coreState) error {
	addr, err := i.readOperand(inst, 1, state)
	if err != nil {
		return err
	}

	v, err := state.Memory.Read(addr)
	if err != nil {
		return attach(err, inst.Addr, &inst)
	}

	return i.writeOperand(inst, 0, v, state)
}

func (i instEmulator) runWmem(inst Instruction, state *coreState) error {
	vals, err := i.readOperands(inst, state, 0, 1)
	if err != nil {
		return err
	}

	if err := state.Memory.Write(vals[0], vals[1]); err != nil {
		return attach(err, inst.Addr, &inst)
	}

	return nil
}

func (i instEmulator) runCall(inst Instruction, state *coreState) error {
	a, err := i.readOperand(inst, 0, state)
	if err != nil {
		return err
	}

	state.Stack = append(state.Stack, state.PC)
	state.PC = a

	return nil
}

func (i instEmulator) runRet(state *coreState) HaltReason {
	if len(state.Stack) == 0 {
		return HaltReturn
	}

	state.PC = state.Stack[len(state.Stack)-1]
	state.Stack = state.Stack[:len(state.Stack)-1]

	return NotHalted
}

func (i instEmulator) runOut(inst Instruction, state *coreState) error {
	a, err := i.readOperand(inst, 0, state)
	if err != nil {
		return err
	}

	if err := state.Output.WriteByte(byte(a % 256)); err != nil {
		return fmt.Errorf("writing output at pc %d: %w", inst.Addr, err)
	}

	return nil
}

func (i instEmulator) runIn(inst Instruction, state *coreState) (HaltReason, error) {
	// The destination is checked before input is consumed.
	if reg := int(inst.Operands[0]) % Modulus; reg >= NumRegisters {
		return NotHalted, i.operandFault(inst, 0)
	}

	c, ok, err := state.Input.next()
	if err != nil {
		return NotHalted, fmt.Errorf("reading input at pc %d: %w", inst.Addr, err)
	}

	if !ok {
		return HaltEndOfInput, nil
	}

	return NotHalted, i.writeOperand(inst, 0, Word(c), state)
}
