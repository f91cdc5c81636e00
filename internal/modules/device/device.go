// Package device holds the per-request device context: register size, shot
// count and execution backend. Each translation request builds its own
// Device; there is no process-global device state.
package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/atomlab/pulsebridge/internal/modules/decode"
	"github.com/atomlab/pulsebridge/internal/modules/program"
	"github.com/atomlab/pulsebridge/internal/modules/pulse"
	"github.com/atomlab/pulsebridge/internal/modules/register"
	"github.com/atomlab/pulsebridge/internal/modules/timegrid"
)

// InteractionCoeff is the Rydberg interaction coefficient in the framework's
// units, MHz·µm⁶.
const InteractionCoeff = 862620.0

var (
	// ErrNoShots - the device samples; a shot count of zero is unusable.
	ErrNoShots = errors.New("this device requires a positive number of shots")
	// ErrMultipleEvolutions - one evolution operator per execution request.
	ErrMultipleEvolutions = errors.New("multiple evolution operators per request are not supported")
	// ErrWireMismatch - the evolution's wires must equal the device wires.
	ErrWireMismatch = errors.New("device wires must match the wires of the evolution")
	// ErrNoPulses - the evolution carries no pulses to translate.
	ErrNoPulses = errors.New("no pulses found in the evolution operator")
)

// Backend executes an assembled program and returns one raw shot per
// repetition. Submission is the only blocking operation in this pipeline.
type Backend interface {
	Run(ctx context.Context, prog program.Program, shots int) ([]decode.Shot, error)
}

// Evolution is one parametrized-evolution request as handed over by the host
// framework: pulses, the flat parameter list for their callable channels, the
// time interval in microseconds and the site coordinates in micrometers.
type Evolution struct {
	Pulses      []pulse.Pulse
	Params      [][]float64
	StartUs     float64
	EndUs       float64
	Coordinates [][2]float64
}

// Wires returns the set of wires covered by the evolution's register.
func (ev Evolution) Wires() int {
	return len(ev.Coordinates)
}

// Config configures a device context.
type Config struct {
	Wires    []int
	Shots    int
	Hardware bool // enforce the hardware-backed validation rules
	Backend  Backend
	Log      zerolog.Logger
}

// Device is the explicit context object for one or more translation calls.
type Device struct {
	wires    []int
	shots    int
	hardware bool
	backend  Backend
	log      zerolog.Logger

	globalIdx int
	prog      *program.Program
}

// New creates a device context. Shots must be positive.
func New(cfg Config) (*Device, error) {
	if cfg.Shots <= 0 {
		return nil, ErrNoShots
	}
	return &Device{
		wires:     cfg.Wires,
		shots:     cfg.Shots,
		hardware:  cfg.Hardware,
		backend:   cfg.Backend,
		log:       cfg.Log.With().Str("module", "device").Logger(),
		globalIdx: -1,
	}, nil
}

// Wires returns the device wire labels.
func (d *Device) Wires() []int { return d.wires }

// Shots returns the configured shot count.
func (d *Device) Shots() int { return d.shots }

// Program returns the last assembled program, or nil before CreateProgram.
func (d *Device) Program() *program.Program { return d.prog }

// Settings exposes device constants the host framework needs to build
// matching interaction terms.
func (d *Device) Settings() map[string]float64 {
	return map[string]float64{"interaction_coeff": InteractionCoeff}
}

// ValidateOperations checks the request shape: exactly one evolution, whose
// wires and register both match this device.
func (d *Device) ValidateOperations(evs []Evolution) error {
	if len(evs) != 1 {
		return ErrMultipleEvolutions
	}
	ev := evs[0]
	if ev.Wires() != len(d.wires) {
		return fmt.Errorf("%w: evolution covers %d wires, device has %d", ErrWireMismatch, ev.Wires(), len(d.wires))
	}
	return nil
}

// ValidatePulses applies the pulse layout rules (hardware or simulator rule
// set) and records the global drive index for CreateProgram.
func (d *Device) ValidatePulses(pulses []pulse.Pulse) error {
	if len(pulses) == 0 {
		return ErrNoPulses
	}
	var (
		idx int
		err error
	)
	if d.hardware {
		idx, err = pulse.ValidateHardwarePulses(pulses, d.wires)
	} else {
		idx, err = pulse.ValidatePulses(pulses, d.wires)
	}
	if err != nil {
		return err
	}
	d.globalIdx = idx
	return nil
}

// CreateProgram translates one evolution into an executable program: binds
// parameters, samples the global drive over the hardware grid, factors local
// detunings into the shifting field when present, and attaches the register.
// ValidatePulses must have been called for the same pulses.
func (d *Device) CreateProgram(ev Evolution) (program.Program, error) {
	if d.globalIdx < 0 {
		if err := d.ValidatePulses(ev.Pulses); err != nil {
			return program.Program{}, err
		}
	}

	bound, err := pulse.EvaluatePulses(ev.Pulses, ev.Params)
	if err != nil {
		return program.Program{}, err
	}

	reg := register.New(ev.Coordinates)
	if err := reg.CheckSiteCount(len(d.wires)); err != nil {
		return program.Program{}, fmt.Errorf("interaction term register: %w", err)
	}

	drive := program.TranslateDrive(bound[d.globalIdx], ev.StartUs, ev.EndUs)

	var shift *program.ShiftingField
	locals := make([]pulse.Pulse, 0, len(bound))
	for i, p := range bound {
		if i != d.globalIdx {
			locals = append(locals, p)
		}
	}
	if detunings := pulse.LocalDetunings(locals, d.wires); detunings != nil {
		times := timegrid.SampleTimes(ev.StartUs, ev.EndUs)
		shift, err = program.TranslateShift(detunings, times)
		if err != nil {
			return program.Program{}, err
		}
	}

	prog := program.Assemble(reg, drive, shift)
	d.prog = &prog

	d.log.Debug().
		Int("sites", len(reg)).
		Int("points", drive.Amplitude.Len()).
		Bool("shifting", shift != nil).
		Msg("Assembled pulse program")

	return prog, nil
}

// Execute translates the evolution, runs it on the backend and decodes the
// raw shots into per-site sample arrays.
func (d *Device) Execute(ctx context.Context, ev Evolution) ([][]float64, error) {
	prog, err := d.CreateProgram(ev)
	if err != nil {
		return nil, err
	}
	shots, err := d.backend.Run(ctx, prog, d.shots)
	if err != nil {
		return nil, fmt.Errorf("backend run: %w", err)
	}
	return decode.DecodeShots(shots), nil
}
