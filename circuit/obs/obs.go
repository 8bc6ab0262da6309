// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package obs provides observables for circuit measurements.
//
// Example:
//
//	z := obs.PauliZ(0)
//	zz, _ := obs.Prod(obs.PauliZ(0), obs.PauliZ(1))
//	h, _ := obs.NewHamiltonian([]float64{0.5, -1}, []circuit.Observable{z, zz})
package obs

import (
	"github.com/born-ml/qtape/circuit"
	"github.com/born-ml/qtape/internal/circuit/obs"
)

// Named is a fixed single-wire observable.
type Named = obs.Named

// Hermitian is a matrix observable.
type Hermitian = obs.Hermitian

// Tensor is a tensor product of observables on disjoint wires.
type Tensor = obs.Tensor

// Hamiltonian is a real linear combination of qubit observables.
type Hamiltonian = obs.Hamiltonian

// PauliX on wire.
func PauliX(wire int) *Named { return obs.PauliX(wire) }

// PauliY on wire.
func PauliY(wire int) *Named { return obs.PauliY(wire) }

// PauliZ on wire.
func PauliZ(wire int) *Named { return obs.PauliZ(wire) }

// Hadamard on wire.
func Hadamard(wire int) *Named { return obs.Hadamard(wire) }

// Identity on wire.
func Identity(wire int) *Named { return obs.Identity(wire) }

// X is the position quadrature of a CV mode.
func X(mode int) *Named { return obs.X(mode) }

// P is the momentum quadrature of a CV mode.
func P(mode int) *Named { return obs.P(mode) }

// NumberOperator counts photons in a CV mode.
func NumberOperator(mode int) *Named { return obs.NumberOperator(mode) }

// ByName looks up a named observable such as "PauliZ" or "X".
func ByName(name string, wire int) (*Named, error) { return obs.ByName(name, wire) }

// NewHermitian validates m against the wires and Hermiticity.
func NewHermitian(m circuit.Matrix, wires ...int) (*Hermitian, error) {
	return obs.NewHermitian(m, wires...)
}

// Prod builds a tensor product.
func Prod(factors ...circuit.Observable) (*Tensor, error) { return obs.Prod(factors...) }

// NewHamiltonian pairs coefficients with terms.
func NewHamiltonian(coeffs []float64, terms []circuit.Observable) (*Hamiltonian, error) {
	return obs.NewHamiltonian(coeffs, terms)
}
