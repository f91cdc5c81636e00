// Package observables models measurement observables as a tagged variant
// tree with a recursive computational-basis check. The device can only
// measure in the Z basis, so every observable requested of it must be
// diagonal in that basis.
package observables

import (
	"errors"
	"math"
)

// Kind tags the variant of an observable node.
type Kind int

const (
	// PauliZ is diagonal in the computational basis.
	PauliZ Kind = iota
	// PauliX is not diagonal in the computational basis.
	PauliX
	// PauliY is not diagonal in the computational basis.
	PauliY
	// Identity is diagonal in every basis.
	Identity
	// Projector projects onto a state; diagonal only for basis states.
	Projector
	// Sum of sub-observables.
	Sum
	// Prod of sub-observables.
	Prod
	// SProd scales a sub-observable by a constant.
	SProd
	// Exp exponentiates a sub-observable.
	Exp
	// Hamiltonian is a weighted sum of sub-observables.
	Hamiltonian
	// Opaque is an operator with no known measurement basis.
	Opaque
)

var (
	// ErrNotZBasis - the observable is not diagonal in the Z basis.
	ErrNotZBasis = errors.New("observable can only be measured in the Z basis")
	// ErrUnknownBasis - the operator carries no basis information at all.
	ErrUnknownBasis = errors.New("operator has no diagonalizing basis; cannot determine measurement basis")
)

// Observable is one node of an observable tree.
type Observable struct {
	Kind     Kind
	Wires    []int
	State    []float64 // Projector only: state-vector amplitudes
	Basis    []int     // Projector only: basis-state bits (preferred form)
	Coeffs   []float64 // Hamiltonian only: one weight per operand
	Operands []Observable
}

// NewPauliZ returns a Pauli-Z observable on one wire.
func NewPauliZ(wire int) Observable { return Observable{Kind: PauliZ, Wires: []int{wire}} }

// NewPauliX returns a Pauli-X observable on one wire.
func NewPauliX(wire int) Observable { return Observable{Kind: PauliX, Wires: []int{wire}} }

// NewPauliY returns a Pauli-Y observable on one wire.
func NewPauliY(wire int) Observable { return Observable{Kind: PauliY, Wires: []int{wire}} }

// NewIdentity returns the identity on one wire.
func NewIdentity(wire int) Observable { return Observable{Kind: Identity, Wires: []int{wire}} }

// BasisProjector projects onto a computational basis state given as bits.
func BasisProjector(bits []int, wires []int) Observable {
	return Observable{Kind: Projector, Basis: bits, Wires: wires}
}

// StateProjector projects onto an arbitrary state vector.
func StateProjector(state []float64, wires []int) Observable {
	return Observable{Kind: Projector, State: state, Wires: wires}
}

// NewSum sums sub-observables.
func NewSum(ops ...Observable) Observable { return Observable{Kind: Sum, Operands: ops} }

// NewProd multiplies sub-observables.
func NewProd(ops ...Observable) Observable { return Observable{Kind: Prod, Operands: ops} }

// ScalarProd scales a sub-observable.
func ScalarProd(op Observable) Observable { return Observable{Kind: SProd, Operands: []Observable{op}} }

// NewExp exponentiates a sub-observable.
func NewExp(op Observable) Observable { return Observable{Kind: Exp, Operands: []Observable{op}} }

// NewHamiltonian builds a weighted sum.
func NewHamiltonian(coeffs []float64, ops []Observable) Observable {
	return Observable{Kind: Hamiltonian, Coeffs: coeffs, Operands: ops}
}

// ValidateZBasis walks the observable tree and verifies every leaf is
// diagonal in the computational basis. Composite nodes (sum, product, scalar
// product, exponent, weighted sum) are diagonal exactly when all their
// operands are.
func ValidateZBasis(o Observable) error {
	switch o.Kind {
	case PauliZ, Identity:
		return nil
	case PauliX, PauliY:
		return ErrNotZBasis
	case Projector:
		if len(o.Basis) > 0 {
			return nil
		}
		if isBasisState(o.State) {
			return nil
		}
		return ErrNotZBasis
	case Sum, Prod, SProd, Exp, Hamiltonian:
		for _, op := range o.Operands {
			if err := ValidateZBasis(op); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrUnknownBasis
	}
}

// isBasisState reports whether the amplitudes describe a computational basis
// state: exactly one entry of unit magnitude, the rest zero.
func isBasisState(state []float64) bool {
	const tol = 1e-12
	hits := 0
	for _, a := range state {
		switch {
		case math.Abs(a) <= tol:
		case math.Abs(math.Abs(a)-1) <= tol:
			hits++
		default:
			return false
		}
	}
	return hits == 1
}
