// Package pulse models the control pulses of a pulse Hamiltonian: per-channel
// amplitude, phase and detuning specifications, parameter binding, conversion
// to hardware time series, and validation of legal pulse layouts.
package pulse

import (
	"github.com/atomlab/pulsebridge/internal/modules/timegrid"
)

// ParamFn is a parametrized control function of (parameters, time). Time is
// in the framework's microsecond convention.
type ParamFn func(p []float64, t float64) float64

// TimeFn is a control function whose parameters have already been bound,
// leaving a pure function of time.
type TimeFn func(t float64) float64

// Channel is one control channel of a pulse: a real constant, a parametrized
// function awaiting its parameters, or a bound function of time.
type Channel struct {
	value float64
	fn    TimeFn
	pfn   ParamFn
}

// Constant returns a channel with a fixed value.
func Constant(v float64) Channel {
	return Channel{value: v}
}

// Parametrized returns a channel backed by a function of (parameters, time).
// It must be bound before it can be evaluated.
func Parametrized(fn ParamFn) Channel {
	return Channel{pfn: fn}
}

// Bound returns a channel backed by a function of time only.
func Bound(fn TimeFn) Channel {
	return Channel{fn: fn}
}

// IsCallable reports whether the channel is time dependent (bound or not),
// as opposed to a plain constant.
func (c Channel) IsCallable() bool {
	return c.fn != nil || c.pfn != nil
}

// NeedsBinding reports whether the channel still awaits its parameters.
func (c Channel) NeedsBinding() bool {
	return c.pfn != nil && c.fn == nil
}

// Value returns the constant value of the channel. Meaningful only when the
// channel is not callable.
func (c Channel) Value() float64 {
	return c.value
}

// IsZero reports whether the channel is the constant zero.
func (c Channel) IsZero() bool {
	return !c.IsCallable() && c.value == 0
}

// At evaluates the channel at time t. Constants ignore t. Calling At on an
// unbound parametrized channel returns the zero value; callers are expected
// to bind first (see EvaluatePulses).
func (c Channel) At(t float64) float64 {
	if c.fn != nil {
		return c.fn(t)
	}
	if c.pfn != nil {
		return 0
	}
	return c.value
}

// Bind partially applies the channel's parametrized function with p,
// producing a bound channel. Non-parametrized channels pass through
// unchanged.
func (c Channel) Bind(p []float64) Channel {
	if c.pfn == nil {
		return c
	}
	fn := c.pfn
	return Channel{fn: func(t float64) float64 { return fn(p, t) }}
}

// Pulse is one control specification: amplitude, phase and detuning channels
// plus the set of register sites it addresses. Site indices must be non-empty
// and a subset of the device's sites; ValidatePulses enforces this.
type Pulse struct {
	Amplitude Channel
	Phase     Channel
	Detuning  Channel
	Wires     []int
}

// IsGlobal reports whether the pulse addresses exactly the full device
// register, regardless of ordering.
func (p Pulse) IsGlobal(deviceWires []int) bool {
	if len(p.Wires) != len(deviceWires) {
		return false
	}
	set := make(map[int]struct{}, len(deviceWires))
	for _, w := range deviceWires {
		set[w] = struct{}{}
	}
	for _, w := range p.Wires {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

// ConvertToTimeSeries samples the channel at every grid point, applying the
// unit bridge between the framework convention (microseconds, linear
// frequency) and the hardware convention (seconds, angular frequency):
// callables are evaluated at t·1e6 and the result is multiplied by scale
// (2π·1e6 for frequency channels, 1 for phase). The returned series' times
// equal the grid exactly.
func ConvertToTimeSeries(c Channel, times []float64, scale float64) timegrid.TimeSeries {
	ts := timegrid.TimeSeries{
		Times:  make([]float64, len(times)),
		Values: make([]float64, len(times)),
	}
	copy(ts.Times, times)
	for i, t := range times {
		if c.IsCallable() {
			ts.Values[i] = c.At(t*1e6) * scale
		} else {
			ts.Values[i] = c.value * scale
		}
	}
	return ts
}
