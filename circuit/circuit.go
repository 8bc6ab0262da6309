// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package circuit

import (
	"github.com/born-ml/qtape/internal/circuit"
)

// Func is a circuit construction function.
type Func = circuit.Func

// Queue is the recording context of one construction pass.
type Queue = circuit.Queue

// Operation is a gate with its wires and parameters.
type Operation = circuit.Operation

// Measurement is a terminal statistic of an observable or of wire
// probabilities.
type Measurement = circuit.Measurement

// Observable is a measurable quantity. See package obs for constructors.
type Observable = circuit.Observable

// Matrix is a dense complex matrix.
type Matrix = circuit.Matrix

// Model is the execution model ("qubit" or "cv").
type Model = circuit.Model

// Execution models.
const (
	ModelQubit = circuit.ModelQubit
	ModelCV    = circuit.ModelCV
)

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return circuit.NewQueue()
}

// Gates returns the names accepted by Apply.
func Gates() []string {
	return circuit.Gates()
}

// Apply queues the named gate.
//
// Example:
//
//	op, err := circuit.Apply(q, "Rot", []int{0}, 0.1, 0.2, 0.3)
func Apply(q *Queue, name string, wires []int, params ...float64) (*Operation, error) {
	return circuit.Apply(q, name, wires, params...)
}

// Expval queues the expectation value of o.
func Expval(q *Queue, o Observable) *Measurement { return circuit.Expval(q, o) }

// Var queues the variance of o.
func Var(q *Queue, o Observable) *Measurement { return circuit.Var(q, o) }

// Sample queues shot samples of o. Sampled outputs are not differentiable.
func Sample(q *Queue, o Observable) *Measurement { return circuit.Sample(q, o) }

// Probs queues the computational basis probabilities of wires.
func Probs(q *Queue, wires ...int) *Measurement { return circuit.Probs(q, wires...) }

// Hadamard queues a Hadamard gate.
func Hadamard(q *Queue, wire int) *Operation { return circuit.Hadamard(q, wire) }

// PauliX queues a Pauli X gate.
func PauliX(q *Queue, wire int) *Operation { return circuit.PauliX(q, wire) }

// PauliY queues a Pauli Y gate.
func PauliY(q *Queue, wire int) *Operation { return circuit.PauliY(q, wire) }

// PauliZ queues a Pauli Z gate.
func PauliZ(q *Queue, wire int) *Operation { return circuit.PauliZ(q, wire) }

// S queues a phase gate.
func S(q *Queue, wire int) *Operation { return circuit.S(q, wire) }

// T queues a T gate.
func T(q *Queue, wire int) *Operation { return circuit.T(q, wire) }

// CNOT queues a controlled X.
func CNOT(q *Queue, control, target int) *Operation { return circuit.CNOT(q, control, target) }

// CZ queues a controlled Z.
func CZ(q *Queue, control, target int) *Operation { return circuit.CZ(q, control, target) }

// SWAP exchanges two wires.
func SWAP(q *Queue, a, b int) *Operation { return circuit.SWAP(q, a, b) }

// RX queues an X rotation.
func RX(q *Queue, theta float64, wire int) *Operation { return circuit.RX(q, theta, wire) }

// RY queues a Y rotation.
func RY(q *Queue, theta float64, wire int) *Operation { return circuit.RY(q, theta, wire) }

// RZ queues a Z rotation.
func RZ(q *Queue, theta float64, wire int) *Operation { return circuit.RZ(q, theta, wire) }

// PhaseShift queues a phase shift of the |1⟩ amplitude.
func PhaseShift(q *Queue, phi float64, wire int) *Operation {
	return circuit.PhaseShift(q, phi, wire)
}

// Rot queues RZ(omega)·RY(theta)·RZ(phi).
func Rot(q *Queue, phi, theta, omega float64, wire int) *Operation {
	return circuit.Rot(q, phi, theta, omega, wire)
}

// Displacement queues a phase-space displacement.
func Displacement(q *Queue, r, phi float64, mode int) *Operation {
	return circuit.Displacement(q, r, phi, mode)
}

// Rotation queues a phase-space rotation.
func Rotation(q *Queue, phi float64, mode int) *Operation { return circuit.Rotation(q, phi, mode) }

// Squeezing queues a squeezing gate.
func Squeezing(q *Queue, r, phi float64, mode int) *Operation {
	return circuit.Squeezing(q, r, phi, mode)
}

// Beamsplitter queues a beamsplitter between two modes.
func Beamsplitter(q *Queue, theta, phi float64, a, b int) *Operation {
	return circuit.Beamsplitter(q, theta, phi, a, b)
}
