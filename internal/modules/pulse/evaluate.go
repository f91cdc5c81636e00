package pulse

import "errors"

// ErrParameterCount is returned when the flat parameter list does not line up
// one-to-one with the parametrized channels across all pulses.
var ErrParameterCount = errors.New("parameter count does not match the number of parametrized pulse channels")

// EvaluatePulses binds trainable parameters to every parametrized channel,
// returning pulses whose callable channels are pure functions of time.
//
// Parameters are consumed in declaration order: amplitude, then phase, then
// detuning, pulse by pulse. Constant and already-bound channels pass through
// unchanged and consume nothing. The parameter list must be exhausted
// exactly.
func EvaluatePulses(pulses []Pulse, params [][]float64) ([]Pulse, error) {
	out := make([]Pulse, len(pulses))
	idx := 0

	bind := func(c Channel) (Channel, error) {
		if !c.NeedsBinding() {
			return c, nil
		}
		if idx >= len(params) {
			return Channel{}, ErrParameterCount
		}
		b := c.Bind(params[idx])
		idx++
		return b, nil
	}

	for i, p := range pulses {
		var err error
		bound := Pulse{Wires: p.Wires}
		if bound.Amplitude, err = bind(p.Amplitude); err != nil {
			return nil, err
		}
		if bound.Phase, err = bind(p.Phase); err != nil {
			return nil, err
		}
		if bound.Detuning, err = bind(p.Detuning); err != nil {
			return nil, err
		}
		out[i] = bound
	}

	if idx != len(params) {
		return nil, ErrParameterCount
	}
	return out, nil
}
