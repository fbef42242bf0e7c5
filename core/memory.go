package core

// Memory is the combined code and data store of the machine. Its size is
// fixed when it is created.
type Memory struct {
	words []Word
}

// NewMemory creates a memory initialized with a copy of the image.
func NewMemory(image []Word) *Memory {
	m := &Memory{words: make([]Word, len(image))}
	copy(m.words, image)

	return m
}

// Size returns the number of addressable words.
func (m *Memory) Size() int {
	return len(m.words)
}

// Read returns the word at addr.
func (m *Memory) Read(addr Word) (Word, error) {
	if int(addr) >= len(m.words) {
		return 0, &Fault{Kind: ErrOutOfBounds, Addr: int(addr), Operand: -1}
	}

	return m.words[addr], nil
}

// Write stores value at addr as-is.
func (m *Memory) Write(addr, value Word) error {
	if int(addr) >= len(m.words) {
		return &Fault{Kind: ErrOutOfBounds, Addr: int(addr), Operand: -1}
	}

	m.words[addr] = value

	return nil
}

// Words returns a snapshot of the memory contents.
func (m *Memory) Words() []Word {
	out := make([]Word, len(m.words))
	copy(out, m.words)

	return out
}
