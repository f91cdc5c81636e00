package simulator

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomlab/pulsebridge/internal/modules/program"
	"github.com/atomlab/pulsebridge/internal/modules/register"
	"github.com/atomlab/pulsebridge/internal/modules/timegrid"
)

func flatDrive(amplitude float64) program.DrivingField {
	series := func(v float64) timegrid.TimeSeries {
		return timegrid.TimeSeries{Times: []float64{0, 1}, Values: []float64{v, v}}
	}
	return program.DrivingField{Amplitude: series(amplitude), Phase: series(0), Detuning: series(0)}
}

func testProgram(amplitude float64) program.Program {
	reg := register.New([][2]float64{{0, 0}, {0, 5}, {5, 0}})
	return program.Assemble(reg, flatDrive(amplitude), nil)
}

func TestRun_ShapesAndCount(t *testing.T) {
	c := New(Config{Seed: 1})

	shots, err := c.Run(context.Background(), testProgram(0), 25)

	require.NoError(t, err)
	require.Len(t, shots, 25)
	for _, s := range shots {
		assert.Len(t, s.Pre, 3)
		assert.Len(t, s.Post, 3)
	}
}

func TestRun_ZeroDriveKeepsGroundState(t *testing.T) {
	c := New(Config{FillProbability: 1, Seed: 7})

	shots, err := c.Run(context.Background(), testProgram(0), 50)

	require.NoError(t, err)
	for _, s := range shots {
		assert.True(t, s.Success)
		for i := range s.Pre {
			assert.EqualValues(t, 1, s.Pre[i], "full fill traps every site")
			assert.EqualValues(t, 1, s.Post[i], "no drive area means no excitation")
		}
	}
}

func TestRun_PiPulseExcitesEverySite(t *testing.T) {
	c := New(Config{FillProbability: 1, Seed: 7})

	// Constant amplitude pi over a unit interval integrates to a pi pulse.
	shots, err := c.Run(context.Background(), testProgram(math.Pi), 50)

	require.NoError(t, err)
	for _, s := range shots {
		for i := range s.Post {
			assert.EqualValues(t, 0, s.Post[i], "a pi pulse flips every trapped atom")
		}
	}
}

func TestRun_FailureProbability(t *testing.T) {
	c := New(Config{FillProbability: 1, FailureProbability: 1, Seed: 3})

	shots, err := c.Run(context.Background(), testProgram(0), 10)

	require.NoError(t, err)
	for _, s := range shots {
		assert.False(t, s.Success)
	}
}

func TestRun_DeterministicBySeed(t *testing.T) {
	prog := testProgram(1.2)

	a, err := New(Config{Seed: 42}).Run(context.Background(), prog, 30)
	require.NoError(t, err)
	b, err := New(Config{Seed: 42}).Run(context.Background(), prog, 30)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Seed: 1}).Run(ctx, testProgram(0), 5)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_ShiftingPatternDampsExcitation(t *testing.T) {
	prog := testProgram(math.Pi)
	prog.Shifting = &program.ShiftingField{Magnitude: program.Magnitude{
		Series:  timegrid.TimeSeries{Times: []float64{0, 1}, Values: []float64{1, 1}},
		Pattern: []float64{1, 1, 0},
	}}
	c := New(Config{FillProbability: 1, Seed: 11})

	shots, err := c.Run(context.Background(), prog, 400)
	require.NoError(t, err)

	// Site 2 keeps the full pi-pulse flip probability; sites 0 and 1 are
	// shifted off resonance and flip only half the time.
	flips := [3]int{}
	for _, s := range shots {
		for i := range s.Post {
			if s.Post[i] == 0 {
				flips[i]++
			}
		}
	}
	assert.Equal(t, 400, flips[2])
	for _, site := range []int{0, 1} {
		assert.InDelta(t, 200, flips[site], 60, "site %d", site)
	}
}
