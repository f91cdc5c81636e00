package pulse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// Named waveforms let callers that cannot ship a closure (the HTTP surface)
// express time-dependent channels. Each waveform is a ParamFn; its parameters
// are bound through EvaluatePulses like any other parametrized channel.

// Gaussian is amp·exp(-(t-center)²/(2·width²)) with p = [amp, center, width].
func Gaussian(p []float64, t float64) float64 {
	return p[0] * math.Exp(-((t-p[1])*(t-p[1]))/(2*p[2]*p[2]))
}

// Ramp is offset + slope·t with p = [offset, slope].
func Ramp(p []float64, t float64) float64 {
	return p[0] + p[1]*t
}

// Sine is amp·sin(freq·t + phase) with p = [amp, freq, phase].
func Sine(p []float64, t float64) float64 {
	return p[0] * math.Sin(p[1]*t+p[2])
}

// PiecewiseLinear interpolates the given knots and returns a bound channel.
// Knot times are in microseconds and must be strictly increasing; evaluation
// outside the knot span clamps to the boundary values.
func PiecewiseLinear(times, values []float64) (Channel, error) {
	if len(times) != len(values) {
		return Channel{}, fmt.Errorf("piecewise waveform: %d times but %d values", len(times), len(values))
	}
	if len(times) < 2 {
		return Channel{}, fmt.Errorf("piecewise waveform needs at least 2 knots, got %d", len(times))
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(times, values); err != nil {
		return Channel{}, fmt.Errorf("piecewise waveform: %w", err)
	}
	lo, hi := times[0], times[len(times)-1]
	return Bound(func(t float64) float64 {
		if t <= lo {
			return values[0]
		}
		if t >= hi {
			return values[len(values)-1]
		}
		return pl.Predict(t)
	}), nil
}

// WaveformByName resolves a named parametric waveform. The returned channel
// still needs binding.
func WaveformByName(kind string) (Channel, error) {
	switch kind {
	case "gaussian":
		return Parametrized(Gaussian), nil
	case "ramp":
		return Parametrized(Ramp), nil
	case "sine":
		return Parametrized(Sine), nil
	default:
		return Channel{}, fmt.Errorf("unknown waveform kind %q", kind)
	}
}
