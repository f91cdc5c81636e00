package device

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomlab/pulsebridge/internal/modules/decode"
	"github.com/atomlab/pulsebridge/internal/modules/program"
	"github.com/atomlab/pulsebridge/internal/modules/pulse"
)

type fakeBackend struct {
	shots   []decode.Shot
	err     error
	lastRun *program.Program
}

func (f *fakeBackend) Run(_ context.Context, prog program.Program, _ int) ([]decode.Shot, error) {
	f.lastRun = &prog
	return f.shots, f.err
}

func newTestDevice(t *testing.T, cfg Config) *Device {
	t.Helper()
	if cfg.Wires == nil {
		cfg.Wires = []int{0, 1, 2}
	}
	if cfg.Shots == 0 {
		cfg.Shots = 100
	}
	cfg.Log = zerolog.Nop()
	d, err := New(cfg)
	require.NoError(t, err)
	return d
}

func globalDrive() pulse.Pulse {
	return pulse.Pulse{
		Amplitude: pulse.Constant(2.5),
		Phase:     pulse.Constant(0),
		Detuning:  pulse.Constant(1),
		Wires:     []int{0, 1, 2},
	}
}

func testEvolution(pulses ...pulse.Pulse) Evolution {
	return Evolution{
		Pulses:      pulses,
		StartUs:     0,
		EndUs:       4,
		Coordinates: [][2]float64{{0, 0}, {0, 5}, {5, 0}},
	}
}

func TestNew_RejectsZeroShots(t *testing.T) {
	_, err := New(Config{Wires: []int{0}, Shots: 0})
	assert.ErrorIs(t, err, ErrNoShots)

	_, err = New(Config{Wires: []int{0}, Shots: -3})
	assert.ErrorIs(t, err, ErrNoShots)
}

func TestSettings(t *testing.T) {
	d := newTestDevice(t, Config{})
	assert.Equal(t, 862620.0, d.Settings()["interaction_coeff"])
}

func TestValidateOperations(t *testing.T) {
	d := newTestDevice(t, Config{})
	ev := testEvolution(globalDrive())

	assert.NoError(t, d.ValidateOperations([]Evolution{ev}))
	assert.ErrorIs(t, d.ValidateOperations([]Evolution{ev, ev}), ErrMultipleEvolutions)
	assert.ErrorIs(t, d.ValidateOperations(nil), ErrMultipleEvolutions)

	short := ev
	short.Coordinates = [][2]float64{{0, 0}}
	assert.ErrorIs(t, d.ValidateOperations([]Evolution{short}), ErrWireMismatch)
}

func TestValidatePulses_DispatchesRuleSets(t *testing.T) {
	local := pulse.Pulse{
		Amplitude: pulse.Constant(0),
		Phase:     pulse.Constant(0),
		Detuning:  pulse.Constant(2),
		Wires:     []int{1},
	}

	sim := newTestDevice(t, Config{})
	assert.NoError(t, sim.ValidatePulses([]pulse.Pulse{globalDrive(), local}))

	hw := newTestDevice(t, Config{Hardware: true})
	assert.NoError(t, hw.ValidatePulses([]pulse.Pulse{globalDrive()}))
	assert.ErrorIs(t, hw.ValidatePulses([]pulse.Pulse{globalDrive(), local}), pulse.ErrMultiplePulses)
}

func TestValidatePulses_Empty(t *testing.T) {
	d := newTestDevice(t, Config{})
	assert.ErrorIs(t, d.ValidatePulses(nil), ErrNoPulses)
}

func TestCreateProgram_GlobalDriveOnly(t *testing.T) {
	d := newTestDevice(t, Config{})

	prog, err := d.CreateProgram(testEvolution(globalDrive()))

	require.NoError(t, err)
	assert.Equal(t, [2]float64{0, 5e-6}, prog.Register[1], "coordinates converted to meters")
	assert.Nil(t, prog.Shifting, "no local detunings means no shifting field")

	n := prog.Driving.Amplitude.Len()
	assert.Equal(t, 0.0, prog.Driving.Amplitude.Times[0])
	assert.Equal(t, 4e-6, prog.Driving.Amplitude.Times[n-1], "grid spans the interval in seconds")
	assert.InDelta(t, 2.5*program.AngularScale, prog.Driving.Amplitude.Values[0], 1e-6)
	assert.InDelta(t, program.AngularScale, prog.Driving.Detuning.Values[0], 1e-6)
	assert.Equal(t, 0.0, prog.Driving.Phase.Values[0])

	assert.Equal(t, &prog, d.Program(), "the assembled program is retained")
}

func TestCreateProgram_WithLocalDetunings(t *testing.T) {
	d := newTestDevice(t, Config{})
	local := pulse.Pulse{
		Amplitude: pulse.Constant(0),
		Phase:     pulse.Constant(0),
		Detuning:  pulse.Constant(2),
		Wires:     []int{0, 1},
	}

	prog, err := d.CreateProgram(testEvolution(globalDrive(), local))

	require.NoError(t, err)
	require.NotNil(t, prog.Shifting)
	assert.Equal(t, []float64{1, 1, 0}, prog.Shifting.Magnitude.Pattern,
		"driven sites get weight 1, the undriven site 0")
	for _, v := range prog.Shifting.Magnitude.Series.Values {
		assert.InDelta(t, 2*program.AngularScale, v, 1e-6)
	}
}

func TestCreateProgram_BindsParameters(t *testing.T) {
	d := newTestDevice(t, Config{})
	p := globalDrive()
	p.Amplitude = pulse.Parametrized(func(params []float64, t float64) float64 {
		return params[0] * t
	})
	ev := testEvolution(p)
	ev.Params = [][]float64{{2}}

	prog, err := d.CreateProgram(ev)

	require.NoError(t, err)
	n := prog.Driving.Amplitude.Len()
	// At the final grid point the callable sees t = 4 microseconds.
	assert.InDelta(t, 2*4*program.AngularScale, prog.Driving.Amplitude.Values[n-1], 1e-3)
}

func TestCreateProgram_ParameterCountMismatch(t *testing.T) {
	d := newTestDevice(t, Config{})
	p := globalDrive()
	p.Amplitude = pulse.Parametrized(func(params []float64, t float64) float64 { return params[0] })
	ev := testEvolution(p)
	ev.Params = nil

	_, err := d.CreateProgram(ev)

	assert.ErrorIs(t, err, pulse.ErrParameterCount)
}

func TestCreateProgram_RegisterSizeMismatch(t *testing.T) {
	d := newTestDevice(t, Config{})
	ev := testEvolution(globalDrive())
	ev.Coordinates = [][2]float64{{0, 0}, {0, 5}}

	_, err := d.CreateProgram(ev)

	assert.Error(t, err)
}

func TestExecute_DecodesBackendShots(t *testing.T) {
	backend := &fakeBackend{shots: []decode.Shot{
		{Success: true, Pre: []uint8{1, 1, 0}, Post: []uint8{1, 0, 0}},
	}}
	d := newTestDevice(t, Config{Backend: backend})

	samples, err := d.Execute(context.Background(), testEvolution(globalDrive()))

	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 0.0, samples[0][0])
	assert.Equal(t, 1.0, samples[0][1])
	assert.True(t, math.IsNaN(samples[0][2]))
	require.NotNil(t, backend.lastRun)
	assert.Len(t, backend.lastRun.Register, 3)
}

func TestExecute_BackendError(t *testing.T) {
	backend := &fakeBackend{err: errors.New("service unavailable")}
	d := newTestDevice(t, Config{Backend: backend})

	_, err := d.Execute(context.Background(), testEvolution(globalDrive()))

	assert.ErrorContains(t, err, "service unavailable")
}

func TestCapabilities_InteractionCoeff(t *testing.T) {
	caps := DefaultCapabilities()
	assert.InDelta(t, InteractionCoeff, caps.InteractionCoeff(), 1.0,
		"paradigm C6 converts back to the framework coefficient")
}
