package core

// addressSpace is the number of addresses a Word can hold.
const addressSpace = 1 << 16

// Decode reads the instruction at pc. It returns the instruction and the
// address of the word following it. Operand words are copied verbatim.
//
// An instruction whose operands run past the end of memory faults with
// OutOfBounds. So does one ending on the last address of a full 65536
// word memory, unless it never continues to the next address.
func Decode(mem *Memory, pc Word) (Instruction, Word, error) {
	tag, err := mem.Read(pc)
	if err != nil {
		return Instruction{}, pc, attach(err, pc, nil)
	}

	op := Opcode(tag)
	if !op.Valid() {
		return Instruction{}, pc, &Fault{
			Kind:    ErrInvalidOpcode,
			PC:      pc,
			Operand: -1,
			Word:    tag,
		}
	}

	inst := Instruction{Opcode: op, Addr: pc}
	for n := 0; n < op.Arity(); n++ {
		addr := int(pc) + 1 + n
		if addr >= mem.Size() {
			return Instruction{}, pc, attach(
				&Fault{Kind: ErrOutOfBounds, Addr: addr, Operand: -1}, pc, &inst)
		}

		inst.Operands[n] = mem.words[addr]
	}

	end := int(pc) + 1 + op.Arity()
	if end >= addressSpace && !endsFlow(op) {
		return Instruction{}, pc, attach(
			&Fault{Kind: ErrOutOfBounds, Addr: end, Operand: -1}, pc, &inst)
	}

	return inst, Word(end % addressSpace), nil
}

// endsFlow reports whether an instruction never continues at the address
// after it.
func endsFlow(op Opcode) bool {
	return op == Hlt || op == Jmp || op == Ret
}
