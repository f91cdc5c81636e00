package pulse

// LocalDetunings expands a set of local (non-global) pulses into one detuning
// channel per device site, in device-site order. Sites not addressed by any
// local pulse are padded with zero: the constant 0 when the detunings are
// constants, a zero function of time when they are callables, so the result
// stays homogeneous in kind.
//
// Returns nil when there are no local pulses; callers then skip the shifting
// field entirely.
func LocalDetunings(locals []Pulse, deviceWires []int) []Channel {
	if len(locals) == 0 {
		return nil
	}

	callable := locals[0].Detuning.IsCallable()
	zero := Constant(0)
	if callable {
		zero = Bound(func(float64) float64 { return 0 })
	}

	bySite := make(map[int]Channel, len(deviceWires))
	for _, p := range locals {
		for _, w := range p.Wires {
			bySite[w] = p.Detuning
		}
	}

	out := make([]Channel, len(deviceWires))
	for i, w := range deviceWires {
		if ch, ok := bySite[w]; ok {
			out[i] = ch
		} else {
			out[i] = zero
		}
	}
	return out
}
