package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/synvm/api"
	"github.com/sarchlab/synvm/core"
	"github.com/sarchlab/synvm/program"
)

// greetProgram asks for a name and greets it, one line at a time, until
// the input ends.
func greetProgram() []core.Word {
	r0, r1 := program.Reg(0), program.Reg(1)

	b := program.NewBuilder()
	b.Label("prompt")
	b.Print("name? ")
	b.Op(core.In, r0)
	b.Op(core.Eq, r1, r0, '\n')
	b.Ref(core.Jt, "prompt", r1)
	b.Print("hello, ")

	b.Label("echo")
	b.Op(core.Out, r0)
	b.Op(core.In, r0)
	b.Op(core.Eq, r1, r0, '\n')
	b.Ref(core.Jf, "echo", r1)
	b.Print("!\n")
	b.Ref(core.Jmp, "prompt")

	return b.MustWords()
}

func main() {
	monitor := monitoring.NewMonitor()

	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithMonitor(monitor).
		Build("Driver")

	term := core.NewTerminal(os.Stdin, os.Stdout)
	driver.LoadProgram(greetProgram(), term, term)

	monitor.StartServer()

	res, err := driver.Run()
	term.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Printf("\n%s after %d steps\n", res.Reason, res.Steps)

	atexit.Exit(0)
}
