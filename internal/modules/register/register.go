// Package register converts site coordinate layouts between the framework's
// micrometer convention and the hardware's meter-valued site arrangement.
package register

import "fmt"

// Register is the ordered sequence of 2-D site coordinates, in meters, one
// per device site.
type Register [][2]float64

// New builds a register from micrometer coordinates.
func New(coordsUm [][2]float64) Register {
	r := make(Register, len(coordsUm))
	for i, c := range coordsUm {
		r[i] = [2]float64{c[0] * 1e-6, c[1] * 1e-6}
	}
	return r
}

// Coordinates returns the dim-th coordinate (0 = x, 1 = y) of every site.
func (r Register) Coordinates(dim int) []float64 {
	out := make([]float64, len(r))
	for i, c := range r {
		out[i] = c[dim]
	}
	return out
}

// CheckSiteCount verifies the register places exactly one site per device
// wire.
func (r Register) CheckSiteCount(wires int) error {
	if len(r) != wires {
		return fmt.Errorf("register has %d sites but the device has %d wires", len(r), wires)
	}
	return nil
}
