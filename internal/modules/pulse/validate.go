package pulse

import (
	"errors"
	"fmt"
)

// Validation errors for pulse layouts. These are configuration errors: they
// are detected before any execution request is built and surface to the
// caller unchanged.
var (
	// ErrMissingGlobalDrive - no pulse applies a driving field to every device site.
	ErrMissingGlobalDrive = errors.New("pulse program does not apply a global driving field to all device sites")
	// ErrMultipleGlobalDrives - more than one pulse addresses the full register.
	ErrMultipleGlobalDrives = errors.New("pulse program contains multiple global drives")
	// ErrWiresOutOfRange - a pulse addresses sites outside the device register.
	ErrWiresOutOfRange = errors.New("pulse addresses sites which are not a subset of device sites")
	// ErrOverlappingLocalDrives - two local drives address the same site.
	ErrOverlappingLocalDrives = errors.New("local drives must not have overlapping sites")
	// ErrLocalAmplitude - a local drive carries non-zero amplitude or phase.
	ErrLocalAmplitude = errors.New("local drives may only detune: amplitude and phase must be zero")
	// ErrMixedLocalDetunings - local detunings mix constants and callables.
	ErrMixedLocalDetunings = errors.New("found local pulses with both constant and callable detunings")
	// ErrMultiplePulses - the hardware accepts a single pulse per program.
	ErrMultiplePulses = errors.New("multiple pulses in a program are not supported on hardware")
	// ErrNonGlobalDrive - the hardware accepts only a global driving field.
	ErrNonGlobalDrive = errors.New("only a global drive is supported on hardware")
)

// ValidatePulses checks that a multiset of pulses forms a legal program for a
// simulated device and returns the index of the global drive.
//
// Rules are applied in order, first failure wins:
//  1. exactly one pulse addresses the full register (the global drive);
//  2. every other pulse's sites are a subset of the device sites;
//  3. local site sets are pairwise disjoint;
//  4. local pulses carry zero amplitude and phase (detuning only);
//  5. local detunings are homogeneous in kind (all constants or all
//     callables).
func ValidatePulses(pulses []Pulse, deviceWires []int) (int, error) {
	globalIdx := -1
	for i, p := range pulses {
		if !p.IsGlobal(deviceWires) {
			continue
		}
		if globalIdx >= 0 {
			return -1, ErrMultipleGlobalDrives
		}
		globalIdx = i
	}
	if globalIdx < 0 {
		return -1, ErrMissingGlobalDrive
	}

	deviceSet := make(map[int]struct{}, len(deviceWires))
	for _, w := range deviceWires {
		deviceSet[w] = struct{}{}
	}
	for i, p := range pulses {
		if i == globalIdx {
			continue
		}
		for _, w := range p.Wires {
			if _, ok := deviceSet[w]; !ok {
				return -1, fmt.Errorf("%w: site %d", ErrWiresOutOfRange, w)
			}
		}
	}

	seen := make(map[int]struct{})
	for i, p := range pulses {
		if i == globalIdx {
			continue
		}
		for _, w := range p.Wires {
			if _, ok := seen[w]; ok {
				return -1, fmt.Errorf("%w: site %d", ErrOverlappingLocalDrives, w)
			}
			seen[w] = struct{}{}
		}
	}

	for i, p := range pulses {
		if i == globalIdx {
			continue
		}
		if !p.Amplitude.IsZero() || !p.Phase.IsZero() {
			return -1, ErrLocalAmplitude
		}
	}

	sawConstant, sawCallable := false, false
	for i, p := range pulses {
		if i == globalIdx {
			continue
		}
		if p.Detuning.IsCallable() {
			sawCallable = true
		} else {
			sawConstant = true
		}
	}
	if sawConstant && sawCallable {
		return -1, ErrMixedLocalDetunings
	}

	return globalIdx, nil
}

// ValidateHardwarePulses checks pulses against the hardware-backed device,
// which does not yet support local shifting fields: exactly one pulse is
// accepted and it must be a global drive. Returns the global pulse index
// (always 0 on success).
func ValidateHardwarePulses(pulses []Pulse, deviceWires []int) (int, error) {
	if len(pulses) == 0 {
		return -1, ErrMissingGlobalDrive
	}
	if len(pulses) > 1 {
		return -1, ErrMultiplePulses
	}
	if !pulses[0].IsGlobal(deviceWires) {
		return -1, ErrNonGlobalDrive
	}
	return 0, nil
}
