// Package simulator is a stand-in local execution backend. It produces
// per-shot pre/post readouts with the right shape and statistics so the
// translation pipeline and decoder run end to end without hardware. It is
// not a physics simulator: the occupancy model below is deliberately coarse.
package simulator

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/atomlab/pulsebridge/internal/modules/decode"
	"github.com/atomlab/pulsebridge/internal/modules/program"
)

// Config configures the stand-in backend.
type Config struct {
	// FillProbability is the chance a site traps an atom before the pulse.
	FillProbability float64
	// FailureProbability is the chance a whole shot is marked failed.
	FailureProbability float64
	// Seed fixes the random stream so tests can pin outcomes.
	Seed int64
	Log  zerolog.Logger
}

// Client is a local Backend implementation.
type Client struct {
	fill    float64
	failure float64
	rng     *rand.Rand
	mu      sync.Mutex
	log     zerolog.Logger
}

// New creates a stand-in backend. Zero-valued config gets sensible defaults
// (99% fill, no shot failures).
func New(cfg Config) *Client {
	if cfg.FillProbability == 0 {
		cfg.FillProbability = 0.99
	}
	return &Client{
		fill:    cfg.FillProbability,
		failure: cfg.FailureProbability,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		log:     cfg.Log.With().Str("backend", "simulator").Logger(),
	}
}

// Run produces shots for the program. The excitation probability follows the
// integrated drive amplitude (a Rabi-area heuristic), scaled per site by the
// shifting-field pattern when present. Shots are independent.
func (c *Client) Run(ctx context.Context, prog program.Program, shots int) ([]decode.Shot, error) {
	sites := len(prog.Register)
	pExcite := excitationProbability(prog.Driving)

	out := make([]decode.Shot, shots)
	c.mu.Lock()
	defer c.mu.Unlock()
	for s := 0; s < shots; s++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		shot := decode.Shot{
			Success: c.rng.Float64() >= c.failure,
			Pre:     make([]uint8, sites),
			Post:    make([]uint8, sites),
		}
		for i := 0; i < sites; i++ {
			if c.rng.Float64() >= c.fill {
				continue // empty site: pre 0, post 0
			}
			shot.Pre[i] = 1
			p := pExcite
			if prog.Shifting != nil {
				// A locally detuned site is shifted off resonance; damp its
				// flip probability by its pattern weight.
				p *= 1 - 0.5*prog.Shifting.Magnitude.Pattern[i]
			}
			if c.rng.Float64() >= p {
				shot.Post[i] = 1 // stayed in (or returned to) the ground state
			}
		}
		out[s] = shot
	}

	c.log.Debug().Int("shots", shots).Int("sites", sites).Msg("Generated shot results")
	return out, nil
}

// excitationProbability maps the pulse area of the drive amplitude onto a
// flip probability via sin²(area/2).
func excitationProbability(d program.DrivingField) float64 {
	area := 0.0
	for i := 1; i < d.Amplitude.Len(); i++ {
		dt := d.Amplitude.Times[i] - d.Amplitude.Times[i-1]
		area += 0.5 * (d.Amplitude.Values[i] + d.Amplitude.Values[i-1]) * dt
	}
	s := math.Sin(area / 2)
	return s * s
}
