package server

import (
	"fmt"

	"github.com/atomlab/pulsebridge/internal/modules/device"
	"github.com/atomlab/pulsebridge/internal/modules/pulse"
	"github.com/atomlab/pulsebridge/internal/modules/tasks"
)

// channelSpec is the JSON form of one control channel. Exactly one of the
// fields must be set.
type channelSpec struct {
	Value     *float64       `json:"value,omitempty"`
	Waveform  *waveformSpec  `json:"waveform,omitempty"`
	Piecewise *piecewiseSpec `json:"piecewise,omitempty"`
}

// waveformSpec names a parametric waveform. Inline params bind the channel
// immediately; without them the channel consumes one entry of the request's
// params list during translation.
type waveformSpec struct {
	Kind   string    `json:"kind"`
	Params []float64 `json:"params,omitempty"`
}

// piecewiseSpec gives linear interpolation knots. Times are in microseconds
// and must be strictly increasing.
type piecewiseSpec struct {
	Times  []float64 `json:"times"`
	Values []float64 `json:"values"`
}

// pulseSpec is the JSON form of one pulse. Empty wires address the full
// register.
type pulseSpec struct {
	Amplitude channelSpec `json:"amplitude"`
	Phase     channelSpec `json:"phase"`
	Detuning  channelSpec `json:"detuning"`
	Wires     []int       `json:"wires,omitempty"`
}

// translateRequest is the wire format shared by /api/translate and task
// creation. Register coordinates are in micrometers, the interval in
// microseconds.
type translateRequest struct {
	Register [][2]float64 `json:"register"`
	Wires    []int        `json:"wires,omitempty"` // defaults to 0..len(register)-1
	Interval [2]float64   `json:"interval_us"`
	Pulses   []pulseSpec  `json:"pulses"`
	Params   [][]float64  `json:"params,omitempty"`
	Shots    int          `json:"shots,omitempty"`
}

func (c channelSpec) toChannel(name string) (pulse.Channel, error) {
	set := 0
	if c.Value != nil {
		set++
	}
	if c.Waveform != nil {
		set++
	}
	if c.Piecewise != nil {
		set++
	}
	if set != 1 {
		return pulse.Channel{}, fmt.Errorf("%s channel: exactly one of value, waveform or piecewise must be set", name)
	}

	switch {
	case c.Value != nil:
		return pulse.Constant(*c.Value), nil
	case c.Piecewise != nil:
		ch, err := pulse.PiecewiseLinear(c.Piecewise.Times, c.Piecewise.Values)
		if err != nil {
			return pulse.Channel{}, fmt.Errorf("%s channel: %w", name, err)
		}
		return ch, nil
	default:
		ch, err := pulse.WaveformByName(c.Waveform.Kind)
		if err != nil {
			return pulse.Channel{}, fmt.Errorf("%s channel: %w", name, err)
		}
		if c.Waveform.Params != nil {
			ch = ch.Bind(c.Waveform.Params)
		}
		return ch, nil
	}
}

// toRequest converts the wire format into a service request, applying the
// configured default shot count when the request leaves shots unset.
func (r translateRequest) toRequest(defaultShots int) (tasks.Request, error) {
	if len(r.Register) == 0 {
		return tasks.Request{}, fmt.Errorf("register must contain at least one site")
	}
	if len(r.Pulses) == 0 {
		return tasks.Request{}, fmt.Errorf("at least one pulse is required")
	}
	if r.Interval[1] <= r.Interval[0] {
		return tasks.Request{}, fmt.Errorf("interval end %g must be after start %g", r.Interval[1], r.Interval[0])
	}

	wires := r.Wires
	if len(wires) == 0 {
		wires = make([]int, len(r.Register))
		for i := range wires {
			wires[i] = i
		}
	}

	pulses := make([]pulse.Pulse, len(r.Pulses))
	for i, ps := range r.Pulses {
		var p pulse.Pulse
		var err error
		if p.Amplitude, err = ps.Amplitude.toChannel("amplitude"); err != nil {
			return tasks.Request{}, fmt.Errorf("pulse %d: %w", i, err)
		}
		if p.Phase, err = ps.Phase.toChannel("phase"); err != nil {
			return tasks.Request{}, fmt.Errorf("pulse %d: %w", i, err)
		}
		if p.Detuning, err = ps.Detuning.toChannel("detuning"); err != nil {
			return tasks.Request{}, fmt.Errorf("pulse %d: %w", i, err)
		}
		p.Wires = ps.Wires
		if len(p.Wires) == 0 {
			p.Wires = wires
		}
		pulses[i] = p
	}

	shots := r.Shots
	if shots == 0 {
		shots = defaultShots
	}

	return tasks.Request{
		Wires: wires,
		Shots: shots,
		Evolution: device.Evolution{
			Pulses:      pulses,
			Params:      r.Params,
			StartUs:     r.Interval[0],
			EndUs:       r.Interval[1],
			Coordinates: r.Register,
		},
	}, nil
}
