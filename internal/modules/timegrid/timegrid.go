package timegrid

import "math"

const (
	// timeResolutionNs is the hardware clock resolution in nanoseconds.
	// Every set-point the hardware accepts must sit on this grid.
	timeResolutionNs = 1.0

	// minStepNs is the minimum spacing between program set-points in
	// nanoseconds. The sampler aims for this spacing and never exceeds it.
	minStepNs = 50.0
)

// SampleTimes discretizes the interval [startUs, endUs] (microseconds) into a
// monotonic grid of sample times in seconds.
//
// The grid targets 50 ns spacing: the number of points is
// floor(duration/50ns)+2, evenly spread, so actual spacing is always at or
// just under 50 ns. Interior points are floored to whole nanoseconds (the
// hardware time resolution) while the first and last samples are forced to
// the exact requested boundaries, even when those do not sit on the grid.
//
// The output is a pure function of the inputs. An inverted interval
// (endUs < startUs) is a caller bug and produces an unusable grid.
func SampleTimes(startUs, endUs float64) []float64 {
	startNs := startUs * 1e3
	endNs := endUs * 1e3

	n := int(math.Floor((endNs-startNs)/minStepNs)) + 2
	step := (endNs - startNs) / float64(n-1)

	times := make([]float64, n)
	for i := 1; i < n-1; i++ {
		ns := math.Floor((startNs + float64(i)*step) / timeResolutionNs)
		times[i] = ns * timeResolutionNs * 1e-9
	}
	times[0] = startNs * 1e-9
	times[n-1] = endNs * 1e-9
	return times
}
