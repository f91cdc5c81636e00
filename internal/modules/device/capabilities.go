package device

import "math"

// Capabilities describes the hardware paradigm properties relevant to
// translation: lattice geometry limits and the global Rydberg drive ranges.
// Values use the hardware's SI conventions (meters, seconds, rad/s).
type Capabilities struct {
	QubitCount int

	// Lattice area and geometry.
	AreaWidth          float64
	AreaHeight         float64
	SpacingRadialMin   float64
	PositionResolution float64
	SitesMax           int

	// Global Rydberg drive.
	C6Coefficient      float64 // rad/s · m⁶
	RabiFrequencyRange [2]float64
	DetuningRange      [2]float64
	PhaseRange         [2]float64
	TimeResolution     float64
	TimeDeltaMin       float64
	TimeMax            float64
}

// InteractionCoeff converts the paradigm C6 coefficient to the framework's
// MHz·µm⁶ convention (the inverse of 2π·C6/1e30).
func (c Capabilities) InteractionCoeff() float64 {
	return c.C6Coefficient * 1e30 / (2 * math.Pi)
}

// DefaultCapabilities returns the published QuEra-style paradigm used when a
// hardware capability discovery is unavailable (local simulation).
func DefaultCapabilities() Capabilities {
	return Capabilities{
		QubitCount:         256,
		AreaWidth:          75e-6,
		AreaHeight:         76e-6,
		SpacingRadialMin:   4e-6,
		PositionResolution: 1e-7,
		SitesMax:           256,
		C6Coefficient:      5.42e-24,
		RabiFrequencyRange: [2]float64{0, 1.58e7},
		DetuningRange:      [2]float64{-1.25e8, 1.25e8},
		PhaseRange:         [2]float64{-99, 99},
		TimeResolution:     1e-9,
		TimeDeltaMin:       5e-8,
		TimeMax:            4e-6,
	}
}
