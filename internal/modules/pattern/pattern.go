// Package pattern factors an ensemble of per-site detuning channels into one
// shared time-shape and a per-site scale pattern, the form the hardware's
// shifting field requires: a single controllable shape broadcast with static
// per-site weights.
package pattern

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/atomlab/pulsebridge/internal/modules/pulse"
)

var (
	// ErrDetuningMismatch - the detunings are not proportional to a single
	// shared time-shape and cannot be represented by the hardware.
	ErrDetuningMismatch = errors.New("local detunings don't match: not proportional to a shared time-shape")
	// ErrNegativeDetuning - only non-negative local shifts are representable.
	ErrNegativeDetuning = errors.New("found negative value in local detunings")
)

// Ratio comparison tolerances. Absolute 1e-9 absorbs near-zero shapes,
// relative 1e-6 absorbs float64 noise over a few thousand grid points.
const (
	ratioAbsTol = 1e-9
	ratioRelTol = 1e-6
	// shapeZeroTol - samples of the shared shape below this are treated as
	// zero, and sites must also be zero there (0/0 counts as proportional).
	shapeZeroTol = 1e-12
)

// Extract factors one detuning channel per device site into a shared shape
// and a per-site pattern.
//
// Every channel is sampled over the grid, callables in the framework's
// microsecond convention (t·1e6), constants broadcast. Any negative sample is
// rejected. The shared shape is the channel whose samples are the
// pointwise maximum across all sites at every grid point, ties broken by
// first declaration; if no channel dominates pointwise the ensemble is not
// proportional and is rejected. Each site's pattern factor is the constant
// ratio of its samples to the shape's samples, so factors lie in [0, 1] and
// the shape's own factor is exactly 1. If every sample is zero the shape is
// the zero channel and all factors are 1 (all sites idle).
func Extract(detunings []pulse.Channel, times []float64) (pulse.Channel, []float64, error) {
	n := len(detunings)
	if n == 0 {
		return pulse.Channel{}, nil, nil
	}

	vals := make([][]float64, n)
	for i, d := range detunings {
		vals[i] = make([]float64, len(times))
		for j, t := range times {
			v := d.At(t * 1e6)
			if v < 0 {
				return pulse.Channel{}, nil, fmt.Errorf("%w: site %d", ErrNegativeDetuning, i)
			}
			vals[i][j] = v
		}
	}

	shapeIdx := dominantIndex(vals)
	if shapeIdx < 0 {
		return pulse.Channel{}, nil, ErrDetuningMismatch
	}

	if floats.Max(vals[shapeIdx]) <= shapeZeroTol {
		// Degenerate case: every site idles. The shape is the zero function
		// and the pattern is defined as all ones.
		ones := make([]float64, n)
		for i := range ones {
			ones[i] = 1
		}
		return pulse.Constant(0), ones, nil
	}

	factors := make([]float64, n)
	factors[shapeIdx] = 1
	for i := range detunings {
		if i == shapeIdx {
			continue
		}
		f, err := scaleFactor(vals[i], vals[shapeIdx])
		if err != nil {
			return pulse.Channel{}, nil, fmt.Errorf("site %d: %w", i, err)
		}
		factors[i] = f
	}

	return detunings[shapeIdx], factors, nil
}

// dominantIndex returns the first row whose entries are >= every other row at
// every column, or -1 if no row dominates pointwise.
func dominantIndex(vals [][]float64) int {
	for i := range vals {
		if dominates(vals, i) {
			return i
		}
	}
	return -1
}

func dominates(vals [][]float64, i int) bool {
	for k := range vals {
		if k == i {
			continue
		}
		for j := range vals[i] {
			if vals[k][j] > vals[i][j] {
				return false
			}
		}
	}
	return true
}

// scaleFactor derives the constant ratio site/shape across all samples.
// Samples where the shape is zero require the site to be zero as well; the
// ratio at the remaining samples must agree within tolerance.
func scaleFactor(site, shape []float64) (float64, error) {
	ratio := 0.0
	found := false
	for j := range shape {
		if shape[j] <= shapeZeroTol {
			if site[j] > shapeZeroTol {
				return 0, ErrDetuningMismatch
			}
			continue
		}
		r := site[j] / shape[j]
		if !found {
			ratio = r
			found = true
			continue
		}
		if !scalar.EqualWithinAbsOrRel(r, ratio, ratioAbsTol, ratioRelTol) {
			return 0, ErrDetuningMismatch
		}
	}
	if !found {
		// Shape is zero wherever this site is defined, and the site is zero
		// with it: the site idles.
		return 0, nil
	}
	return ratio, nil
}
