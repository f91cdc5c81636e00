package program

import (
	"fmt"
	"math"

	"github.com/atomlab/pulsebridge/internal/modules/pattern"
	"github.com/atomlab/pulsebridge/internal/modules/pulse"
	"github.com/atomlab/pulsebridge/internal/modules/timegrid"
)

// AngularScale converts the framework's MHz (linear frequency) convention to
// the hardware's rad/s convention.
const AngularScale = 2 * math.Pi * 1e6

// TranslateDrive samples the global pulse's channels over the interval
// (microseconds) and returns the driving field. Amplitude and detuning are
// converted to angular frequency; phase is dimensionless and passes through
// unscaled.
func TranslateDrive(p pulse.Pulse, startUs, endUs float64) DrivingField {
	times := timegrid.SampleTimes(startUs, endUs)
	return DrivingField{
		Amplitude: pulse.ConvertToTimeSeries(p.Amplitude, times, AngularScale),
		Phase:     pulse.ConvertToTimeSeries(p.Phase, times, 1),
		Detuning:  pulse.ConvertToTimeSeries(p.Detuning, times, AngularScale),
	}
}

// TranslateShift factors per-site detunings (one channel per device site)
// into the shifting field: the shared shape sampled over the grid in rad/s,
// plus the per-site pattern.
func TranslateShift(detunings []pulse.Channel, times []float64) (*ShiftingField, error) {
	shape, factors, err := pattern.Extract(detunings, times)
	if err != nil {
		return nil, fmt.Errorf("shifting field: %w", err)
	}
	return &ShiftingField{
		Magnitude: Magnitude{
			Series:  pulse.ConvertToTimeSeries(shape, times, AngularScale),
			Pattern: factors,
		},
	}, nil
}
