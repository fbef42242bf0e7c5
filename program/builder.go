package program

import (
	"fmt"

	"github.com/sarchlab/synvm/core"
)

// Builder assembles an image instruction by instruction.
type Builder struct {
	words  []core.Word
	labels map[string]core.Word
	fixups map[int]string
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		labels: make(map[string]core.Word),
		fixups: make(map[int]string),
	}
}

// Reg returns the operand word for register r.
func Reg(r int) core.Word {
	return core.Reg(r)
}

// Op appends an instruction. It panics if the operand count does not
// match the opcode.
func (b *Builder) Op(op core.Opcode, operands ...core.Word) *Builder {
	if len(operands) != op.Arity() {
		panic(fmt.Sprintf("%s takes %d operands, got %d",
			op, op.Arity(), len(operands)))
	}

	b.words = append(b.words, core.Word(op))
	b.words = append(b.words, operands...)

	return b
}

// Word appends raw words.
func (b *Builder) Word(values ...core.Word) *Builder {
	b.words = append(b.words, values...)
	return b
}

// Print appends an out instruction for every byte of s.
func (b *Builder) Print(s string) *Builder {
	for i := 0; i < len(s); i++ {
		b.Op(core.Out, core.Word(s[i]))
	}

	return b
}

// Label names the address of the next word.
func (b *Builder) Label(name string) *Builder {
	b.labels[name] = core.Word(len(b.words))
	return b
}

// Ref appends an instruction whose last operand is the address of a
// label. The label may be defined later.
func (b *Builder) Ref(op core.Opcode, label string, operands ...core.Word) *Builder {
	b.Op(op, append(operands, 0)...)
	b.fixups[len(b.words)-1] = label

	return b
}

// Len returns the number of words emitted so far.
func (b *Builder) Len() int {
	return len(b.words)
}

// Words resolves label references and returns the image.
func (b *Builder) Words() ([]core.Word, error) {
	out := make([]core.Word, len(b.words))
	copy(out, b.words)

	for at, label := range b.fixups {
		addr, ok := b.labels[label]
		if !ok {
			return nil, fmt.Errorf("undefined label %q", label)
		}

		out[at] = addr
	}

	return out, nil
}

// MustWords is like Words but panics on undefined labels.
func (b *Builder) MustWords() []core.Word {
	words, err := b.Words()
	if err != nil {
		panic(err)
	}

	return words
}
