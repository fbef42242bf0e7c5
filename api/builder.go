package api

import (
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine  sim.Engine
	freq    sim.Freq
	monitor *monitoring.Monitor
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core the driver creates.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithMonitor registers the engine and the core with a monitor.
func (b DriverBuilder) WithMonitor(monitor *monitoring.Monitor) DriverBuilder {
	b.monitor = monitor
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	d := &driverImpl{
		name:       name,
		engine:     b.engine,
		freq:       b.freq,
		monitor:    b.monitor,
		newMachine: defaultMachineFactory,
	}

	if d.engine == nil {
		d.engine = sim.NewSerialEngine()
	}

	if d.freq == 0 {
		d.freq = 1 * sim.GHz
	}

	if d.monitor != nil {
		d.monitor.RegisterEngine(d.engine)
	}

	return d
}
