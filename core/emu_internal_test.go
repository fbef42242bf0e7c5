package core

import (
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = Describe("Memory", func() {
	It("should copy the image", func() {
		image := []Word{1, 2, 3}
		m := NewMemory(image)
		image[0] = 9

		v, err := m.Read(0)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(v).To(gomega.Equal(Word(1)))
		gomega.Expect(m.Size()).To(gomega.Equal(3))
	})

	It("should store words as-is", func() {
		m := NewMemory(make([]Word, 4))
		gomega.Expect(m.Write(3, 40000)).To(gomega.Succeed())
		gomega.Expect(m.Words()).To(gomega.Equal([]Word{0, 0, 0, 40000}))
	})

	It("should fault past the end", func() {
		m := NewMemory(make([]Word, 4))

		_, err := m.Read(4)
		gomega.Expect(errors.Is(err, ErrOutOfBounds)).To(gomega.BeTrue())
		gomega.Expect(errors.Is(m.Write(4, 1), ErrOutOfBounds)).To(gomega.BeTrue())
	})
})

var _ = Describe("Decoder", func() {
	It("should know every arity", func() {
		arity := map[Opcode]int{
			Hlt: 0, Set: 2, Push: 1, Pop: 1, Eq: 3, Gt: 3, Jmp: 1, Jt: 2,
			Jf: 2, Add: 3, Mul: 3, Mod: 3, And: 3, Or: 3, Not: 2, Rmem: 2,
			Wmem: 2, Call: 1, Ret: 0, Out: 1, In: 1, Noop: 0,
		}
		gomega.Expect(arity).To(gomega.HaveLen(22))

		for op, n := range arity {
			gomega.Expect(op.Arity()).To(gomega.Equal(n), op.String())
		}
	})

	It("should know which opcodes write a register", func() {
		gomega.Expect(Set.HasDest()).To(gomega.BeTrue())
		gomega.Expect(In.HasDest()).To(gomega.BeTrue())
		gomega.Expect(Wmem.HasDest()).To(gomega.BeFalse())
		gomega.Expect(Push.HasDest()).To(gomega.BeFalse())
		gomega.Expect(Opcode(40).HasDest()).To(gomega.BeFalse())
	})

	It("should decode operands verbatim and advance the pc", func() {
		m := NewMemory([]Word{21, 9, Reg(0), 40000, 1, 0})

		i, next, err := Decode(m, 0)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(i.Opcode).To(gomega.Equal(Noop))
		gomega.Expect(next).To(gomega.Equal(Word(1)))

		i, next, err = Decode(m, 1)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(i.Opcode).To(gomega.Equal(Add))
		gomega.Expect(i.Operands).To(gomega.Equal([3]Word{Reg(0), 40000, 1}))
		gomega.Expect(i.Addr).To(gomega.Equal(Word(1)))
		gomega.Expect(next).To(gomega.Equal(Word(5)))
	})

	It("should reject unknown opcodes", func() {
		m := NewMemory([]Word{22})

		_, _, err := Decode(m, 0)
		gomega.Expect(errors.Is(err, ErrInvalidOpcode)).To(gomega.BeTrue())
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("tag 22"))
	})

	It("should fault when the instruction runs past memory", func() {
		m := NewMemory([]Word{19})

		_, _, err := Decode(m, 0)
		gomega.Expect(errors.Is(err, ErrOutOfBounds)).To(gomega.BeTrue())

		var f *Fault
		gomega.Expect(errors.As(err, &f)).To(gomega.BeTrue())
		gomega.Expect(f.PC).To(gomega.Equal(Word(0)))
		gomega.Expect(f.Opcode).To(gomega.Equal(Out))
		gomega.Expect(f.Addr).To(gomega.Equal(1))
	})

	Context("at the top of a full memory", func() {
		var m *Memory

		BeforeEach(func() {
			m = NewMemory(make([]Word, addressSpace))
			gomega.Expect(m.Write(0, Word(Noop))).To(gomega.Succeed())
		})

		It("should not read operands from address 0", func() {
			gomega.Expect(m.Write(65535, Word(Out))).To(gomega.Succeed())

			_, _, err := Decode(m, 65535)
			gomega.Expect(errors.Is(err, ErrOutOfBounds)).To(gomega.BeTrue())

			var f *Fault
			gomega.Expect(errors.As(err, &f)).To(gomega.BeTrue())
			gomega.Expect(f.PC).To(gomega.Equal(Word(65535)))
			gomega.Expect(f.Addr).To(gomega.Equal(65536))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("address 65536"))
		})

		It("should not fall through to address 0", func() {
			gomega.Expect(m.Write(65535, Word(Noop))).To(gomega.Succeed())

			_, _, err := Decode(m, 65535)
			gomega.Expect(errors.Is(err, ErrOutOfBounds)).To(gomega.BeTrue())
		})

		It("should decode a final halt", func() {
			gomega.Expect(m.Write(65535, Word(Hlt))).To(gomega.Succeed())

			i, _, err := Decode(m, 65535)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(i.Opcode).To(gomega.Equal(Hlt))
		})

		It("should decode operands that end on the last word", func() {
			gomega.Expect(m.Write(65533, Word(Jmp))).To(gomega.Succeed())
			gomega.Expect(m.Write(65534, 7)).To(gomega.Succeed())

			i, next, err := Decode(m, 65533)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(i.Operand(0)).To(gomega.Equal(Word(7)))
			gomega.Expect(next).To(gomega.Equal(Word(65535)))
		})
	})

	It("should see memory writes on the next decode", func() {
		m := NewMemory([]Word{21, 0})
		gomega.Expect(m.Write(0, 0)).To(gomega.Succeed())

		i, _, err := Decode(m, 0)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(i.Opcode).To(gomega.Equal(Hlt))
	})

	It("should print instructions", func() {
		i := Instruction{Opcode: Add, Operands: [3]Word{Reg(1), 5, Reg(7)}}
		gomega.Expect(i.String()).To(gomega.Equal("add r1 5 r7"))
		gomega.Expect(Opcode(30).String()).To(gomega.Equal("op(30)"))
	})
})

var _ = Describe("Terminal", func() {
	It("should return lines with their newline", func() {
		t := NewTerminal(strings.NewReader("ab\ncd"), io.Discard)

		line, err := t.ReadLine()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(string(line)).To(gomega.Equal("ab\n"))

		line, err = t.ReadLine()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(string(line)).To(gomega.Equal("cd"))

		line, err = t.ReadLine()
		gomega.Expect(err).To(gomega.Equal(io.EOF))
		gomega.Expect(line).To(gomega.BeEmpty())
	})

	It("should flush output before reading", func() {
		var sb strings.Builder
		t := NewTerminal(strings.NewReader("x\n"), &sb)

		gomega.Expect(t.WriteByte('>')).To(gomega.Succeed())
		gomega.Expect(sb.String()).To(gomega.BeEmpty())

		_, err := t.ReadLine()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(sb.String()).To(gomega.Equal(">"))
	})
})
