package api

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/synvm/core"
)

// machine is what the driver needs from a core.
type machine interface {
	Start()
	Result() core.Result
}

type machineFactory func(
	name string,
	engine sim.Engine,
	freq sim.Freq,
	image []core.Word,
	in core.LineReader,
	out core.ByteWriter,
) machine

func defaultMachineFactory(
	name string,
	engine sim.Engine,
	freq sim.Freq,
	image []core.Word,
	in core.LineReader,
	out core.ByteWriter,
) machine {
	return core.NewBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithImage(image).
		WithInput(in).
		WithOutput(out).
		Build(name)
}
