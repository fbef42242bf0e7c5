package core

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Builder can create new cores.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	image  []Word
	input  LineReader
	output ByteWriter
}

// NewBuilder returns a builder with a 1 GHz clock.
func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithImage sets the initial memory contents. The memory size equals the
// image length.
func (b Builder) WithImage(image []Word) Builder {
	b.image = image
	return b
}

// WithInput sets where the in instruction reads lines from. Without an
// input, in halts as if the input had ended.
func (b Builder) WithInput(in LineReader) Builder {
	b.input = in
	return b
}

// WithOutput sets where the out instruction writes to. Without an output,
// the core writes to Discard.
func (b Builder) WithOutput(out ByteWriter) Builder {
	b.output = out
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	c := &Core{}

	output := b.output
	if output == nil {
		output = Discard
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.state = coreState{
		Memory: NewMemory(b.image),
		Input:  inputBuffer{src: b.input},
		Output: output,
	}

	return c
}
