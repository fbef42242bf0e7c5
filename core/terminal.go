package core

import (
	"bufio"
	"errors"
	"io"
)

// LineReader supplies input one line at a time. A line includes its
// trailing newline, except possibly the last one. ReadLine returns io.EOF
// with no data once the input is exhausted.
type LineReader interface {
	ReadLine() ([]byte, error)
}

// ByteWriter receives the bytes emitted by the out instruction.
type ByteWriter interface {
	WriteByte(c byte) error
}

// Discard is a ByteWriter that drops every byte.
var Discard ByteWriter = discard{}

type discard struct{}

func (discard) WriteByte(byte) error {
	return nil
}

// A Terminal connects the machine to a reader and a writer.
type Terminal struct {
	in  *bufio.Reader
	out *bufio.Writer
}

// NewTerminal creates a terminal reading lines from r and writing to w.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(r),
		out: bufio.NewWriter(w),
	}
}

// ReadLine reads up to and including the next newline. Pending output is
// flushed first so that prompts are visible while the machine waits.
func (t *Terminal) ReadLine() ([]byte, error) {
	if err := t.out.Flush(); err != nil {
		return nil, err
	}

	line, err := t.in.ReadBytes('\n')
	if len(line) > 0 && errors.Is(err, io.EOF) {
		return line, nil
	}

	return line, err
}

// WriteByte buffers one output byte.
func (t *Terminal) WriteByte(c byte) error {
	return t.out.WriteByte(c)
}

// Flush writes any buffered output.
func (t *Terminal) Flush() error {
	return t.out.Flush()
}

// inputBuffer queues the bytes of the most recently read line.
type inputBuffer struct {
	src     LineReader
	pending []byte
}

// next returns the next input byte. ok is false when the source is
// exhausted.
func (b *inputBuffer) next() (c byte, ok bool, err error) {
	if len(b.pending) == 0 {
		if b.src == nil {
			return 0, false, nil
		}

		line, err := b.src.ReadLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, false, err
		}

		if len(line) == 0 {
			return 0, false, nil
		}

		b.pending = append(b.pending[:0], line...)
	}

	c = b.pending[0]
	b.pending = b.pending[1:]

	return c, true, nil
}

// Len returns the number of queued bytes.
func (b *inputBuffer) Len() int {
	return len(b.pending)
}
