package pulse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaussianAmp(p []float64, t float64) float64 {
	return p[0] * math.Exp(-((t-p[1])*(t-p[1]))/(2*p[2]*p[2]))
}

func phaseFn(p []float64, t float64) float64 {
	return p[0] * math.Sin(t) * (t - 1)
}

func detuningFn(p []float64, t float64) float64 {
	return p[0] * math.Cos(p[1]*t*t)
}

func TestEvaluatePulses_AllConstant(t *testing.T) {
	pulses := []Pulse{{
		Amplitude: Constant(4),
		Phase:     Constant(1),
		Detuning:  Constant(3),
		Wires:     []int{0, 1, 2},
	}}

	bound, err := EvaluatePulses(pulses, nil)

	require.NoError(t, err)
	assert.Equal(t, 4.0, bound[0].Amplitude.Value())
	assert.Equal(t, 1.0, bound[0].Phase.Value())
	assert.Equal(t, 3.0, bound[0].Detuning.Value())
}

func TestEvaluatePulses_BindsInDeclarationOrder(t *testing.T) {
	pulses := []Pulse{{
		Amplitude: Parametrized(gaussianAmp),
		Phase:     Parametrized(detuningFn),
		Detuning:  Parametrized(phaseFn),
		Wires:     []int{0, 1, 2},
	}}
	pAmp := []float64{2.5, 0.9, 0.3}
	pPhase := []float64{3.4, 5.6}
	pDet := []float64{1.2}

	bound, err := EvaluatePulses(pulses, [][]float64{pAmp, pPhase, pDet})

	require.NoError(t, err)
	assert.Equal(t, gaussianAmp(pAmp, 1.7), bound[0].Amplitude.At(1.7))
	assert.Equal(t, detuningFn(pPhase, 1.7), bound[0].Phase.At(1.7))
	assert.Equal(t, phaseFn(pDet, 1.7), bound[0].Detuning.At(1.7))
}

func TestEvaluatePulses_MixedChannels(t *testing.T) {
	pulses := []Pulse{{
		Amplitude: Constant(2),
		Phase:     Parametrized(phaseFn),
		Detuning:  Constant(2),
		Wires:     []int{0, 1, 2},
	}}

	bound, err := EvaluatePulses(pulses, [][]float64{{1.2}})

	require.NoError(t, err)
	assert.Equal(t, 2.0, bound[0].Amplitude.Value())
	assert.Equal(t, phaseFn([]float64{1.2}, 1.7), bound[0].Phase.At(1.7))
	assert.Equal(t, 2.0, bound[0].Detuning.Value())
}

func TestEvaluatePulses_MultiplePulses(t *testing.T) {
	pulses := []Pulse{
		{Amplitude: Constant(3), Phase: Constant(4), Detuning: Constant(5), Wires: []int{0, 1, 2}},
		{Amplitude: Constant(0), Phase: Constant(0), Detuning: Parametrized(phaseFn), Wires: []int{1}},
	}

	bound, err := EvaluatePulses(pulses, [][]float64{{2.0}})

	require.NoError(t, err)
	assert.Equal(t, phaseFn([]float64{2.0}, 0.5), bound[1].Detuning.At(0.5))
}

func TestEvaluatePulses_TooFewParameters(t *testing.T) {
	pulses := []Pulse{{
		Amplitude: Parametrized(gaussianAmp),
		Phase:     Parametrized(phaseFn),
		Detuning:  Constant(2),
		Wires:     []int{0, 1, 2},
	}}

	_, err := EvaluatePulses(pulses, [][]float64{{2.5, 0.9, 0.3}})

	assert.ErrorIs(t, err, ErrParameterCount)
}

func TestEvaluatePulses_TooManyParameters(t *testing.T) {
	pulses := []Pulse{{
		Amplitude: Constant(4),
		Phase:     Constant(1),
		Detuning:  Constant(3),
		Wires:     []int{0, 1, 2},
	}}

	_, err := EvaluatePulses(pulses, [][]float64{{1.2}})

	assert.ErrorIs(t, err, ErrParameterCount)
}

func TestEvaluatePulses_Idempotent(t *testing.T) {
	pulses := []Pulse{{
		Amplitude: Parametrized(gaussianAmp),
		Phase:     Constant(1),
		Detuning:  Parametrized(detuningFn),
		Wires:     []int{0, 1, 2},
	}}
	params := [][]float64{{2.5, 0.9, 0.3}, {3.4, 5.6}}

	first, err := EvaluatePulses(pulses, params)
	require.NoError(t, err)
	second, err := EvaluatePulses(pulses, params)
	require.NoError(t, err)

	for _, tt := range []float64{0, 0.3, 1.1, 1.7, 2.9} {
		assert.Equal(t, first[0].Amplitude.At(tt), second[0].Amplitude.At(tt))
		assert.Equal(t, first[0].Detuning.At(tt), second[0].Detuning.At(tt))
	}
}

func TestEvaluatePulses_DoesNotMutateInput(t *testing.T) {
	pulses := []Pulse{{
		Amplitude: Parametrized(gaussianAmp),
		Phase:     Constant(1),
		Detuning:  Constant(2),
		Wires:     []int{0, 1, 2},
	}}

	_, err := EvaluatePulses(pulses, [][]float64{{2.5, 0.9, 0.3}})

	require.NoError(t, err)
	assert.True(t, pulses[0].Amplitude.NeedsBinding(), "input pulse should remain unbound")
}
