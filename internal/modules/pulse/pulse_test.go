package pulse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomlab/pulsebridge/internal/modules/timegrid"
)

func TestChannel_Constant(t *testing.T) {
	c := Constant(4.3)

	assert.False(t, c.IsCallable())
	assert.False(t, c.NeedsBinding())
	assert.Equal(t, 4.3, c.Value())
	assert.Equal(t, 4.3, c.At(1.7))
}

func TestChannel_Bound(t *testing.T) {
	c := Bound(math.Sin)

	assert.True(t, c.IsCallable())
	assert.False(t, c.NeedsBinding())
	assert.Equal(t, math.Sin(1.7), c.At(1.7))
}

func TestChannel_BindPartiallyApplies(t *testing.T) {
	c := Parametrized(func(p []float64, tt float64) float64 {
		return p[0] * math.Cos(p[1]*tt*tt)
	})
	require.True(t, c.NeedsBinding())

	b := c.Bind([]float64{3.4, 5.6})

	assert.False(t, b.NeedsBinding())
	assert.Equal(t, 3.4*math.Cos(5.6*1.7*1.7), b.At(1.7))
}

func TestChannel_IsZero(t *testing.T) {
	assert.True(t, Constant(0).IsZero())
	assert.False(t, Constant(2).IsZero())
	// A callable is never "exactly zero", even if it evaluates to zero.
	assert.False(t, Bound(func(float64) float64 { return 0 }).IsZero())
}

func TestPulse_IsGlobal(t *testing.T) {
	dev := []int{0, 1, 2}

	assert.True(t, Pulse{Wires: []int{0, 1, 2}}.IsGlobal(dev))
	assert.True(t, Pulse{Wires: []int{1, 0, 2}}.IsGlobal(dev), "order should not matter")
	assert.False(t, Pulse{Wires: []int{0, 1}}.IsGlobal(dev))
	assert.False(t, Pulse{Wires: []int{0, 1, 3}}.IsGlobal(dev))
}

func TestConvertToTimeSeries_Constant(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4, 5}

	ts := ConvertToTimeSeries(Constant(4.3), times, 1)

	assert.Equal(t, times, ts.Times)
	for _, v := range ts.Values {
		assert.Equal(t, 4.3, v)
	}
}

func TestConvertToTimeSeries_CallableEvaluatesInMicroseconds(t *testing.T) {
	timesUs := []float64{0, 1, 2, 3, 4, 5}
	timesS := make([]float64, len(timesUs))
	for i, tt := range timesUs {
		timesS[i] = tt * 1e-6
	}

	ts := ConvertToTimeSeries(Bound(math.Sin), timesS, 1)

	assert.Equal(t, timesS, ts.Times)
	for i, tt := range timesUs {
		assert.InDelta(t, math.Sin(tt), ts.Values[i], 1e-12)
	}
}

func TestConvertToTimeSeries_ScalingFactor(t *testing.T) {
	timesS := []float64{0, 1e-6, 2e-6}

	ts := ConvertToTimeSeries(Bound(math.Sin), timesS, 1.7)

	for i, tt := range []float64{0, 1, 2} {
		assert.InDelta(t, math.Sin(tt)*1.7, ts.Values[i], 1e-12)
	}
}

func TestConvertToTimeSeries_ConstantRoundTrip(t *testing.T) {
	times := timegrid.SampleTimes(0, 1.5)

	ts := ConvertToTimeSeries(Constant(2.5), times, 2*math.Pi*1e6)

	require.Equal(t, len(times), ts.Len())
	for _, v := range ts.Values {
		assert.Equal(t, 2.5*2*math.Pi*1e6, v)
	}
}
