// Package program assembles validated pulses and a register into the single
// hardware program object an execution backend consumes.
package program

import (
	"github.com/atomlab/pulsebridge/internal/modules/register"
	"github.com/atomlab/pulsebridge/internal/modules/timegrid"
)

// DrivingField is the global, uniform-in-space control: amplitude (rad/s),
// phase (rad) and detuning (rad/s) time series sharing one grid.
type DrivingField struct {
	Amplitude timegrid.TimeSeries `json:"amplitude" msgpack:"amplitude"`
	Phase     timegrid.TimeSeries `json:"phase" msgpack:"phase"`
	Detuning  timegrid.TimeSeries `json:"detuning" msgpack:"detuning"`
}

// Magnitude couples the shared shifting-field time-shape with the per-site
// scale pattern that broadcasts it.
type Magnitude struct {
	Series  timegrid.TimeSeries `json:"series" msgpack:"series"`
	Pattern []float64           `json:"pattern" msgpack:"pattern"`
}

// ShiftingField is the local, per-site control: one non-negative shared shape
// scaled by a static per-site pattern in [0, 1].
type ShiftingField struct {
	Magnitude Magnitude `json:"magnitude" msgpack:"magnitude"`
}

// Program is one executable hardware program: the site register plus the
// driving field and, when local detunings exist, the shifting field. A
// program is assembled once per execution request and never mutated after.
type Program struct {
	Register register.Register `json:"register" msgpack:"register"`
	Driving  DrivingField      `json:"driving" msgpack:"driving"`
	Shifting *ShiftingField    `json:"shifting,omitempty" msgpack:"shifting"`
}

// Assemble combines the pieces into a program.
func Assemble(reg register.Register, drive DrivingField, shift *ShiftingField) Program {
	return Program{Register: reg, Driving: drive, Shifting: shift}
}
