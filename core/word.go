package core

// Word is the basic unit of memory, register and stack content.
type Word uint16

const (
	// MaxLiteral is the largest word that denotes itself.
	MaxLiteral Word = 32767

	// Modulus is the reduction applied to every arithmetic result.
	Modulus = 32768

	// RegisterBase is the word that refers to register 0.
	RegisterBase Word = 32768

	// NumRegisters is the size of the register file.
	NumRegisters = 8

	literalMask Word = 0x7fff
)

// IsLiteral returns true if the word denotes itself.
func (w Word) IsLiteral() bool {
	return w <= MaxLiteral
}

// IsRegister returns true if the word is a register reference.
func (w Word) IsRegister() bool {
	return w >= RegisterBase && w < RegisterBase+NumRegisters
}

// Register returns the register index a register reference points to.
func (w Word) Register() int {
	return int(w - RegisterBase)
}

// Reg returns the register reference word for register r.
func Reg(r int) Word {
	return RegisterBase + Word(r)
}
