package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/synvm/api"
	"github.com/sarchlab/synvm/core"
	"github.com/sarchlab/synvm/program"
)

// fibProgram computes fib(n) recursively into r1.
func fibProgram(n core.Word) []core.Word {
	r0, r1, r2 := program.Reg(0), program.Reg(1), program.Reg(2)

	b := program.NewBuilder()
	b.Op(core.Set, r0, n)
	b.Ref(core.Call, "fib")
	b.Op(core.Hlt)

	b.Label("fib")
	b.Op(core.Gt, r2, 2, r0)
	b.Ref(core.Jf, "rec", r2)
	b.Op(core.Set, r1, r0)
	b.Op(core.Ret)

	b.Label("rec")
	b.Op(core.Push, r0)
	b.Op(core.Add, r0, r0, 32767)
	b.Ref(core.Call, "fib")
	b.Op(core.Pop, r0)
	b.Op(core.Push, r1)
	b.Op(core.Add, r0, r0, 32766)
	b.Ref(core.Call, "fib")
	b.Op(core.Pop, r2)
	b.Op(core.Add, r1, r1, r2)
	b.Op(core.Ret)

	return b.MustWords()
}

func main() {
	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Driver")

	driver.LoadProgram(fibProgram(20), nil, nil)

	res, err := driver.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Printf("fib(20) = %d after %d steps (%.3f us simulated)\n",
		driver.Core().Register(1), res.Steps, float64(engine.CurrentTime())*1e6)

	atexit.Exit(0)
}
