package circuit

// Typed gate constructors. Each queues the gate on q (if q is non-nil) and
// panics on structurally invalid input such as duplicate wires.

// Hadamard queues a Hadamard gate.
func Hadamard(q *Queue, wire int) *Operation { return mustApply(q, "Hadamard", []int{wire}) }

// PauliX queues a Pauli-X gate.
func PauliX(q *Queue, wire int) *Operation { return mustApply(q, "PauliX", []int{wire}) }

// PauliY queues a Pauli-Y gate.
func PauliY(q *Queue, wire int) *Operation { return mustApply(q, "PauliY", []int{wire}) }

// PauliZ queues a Pauli-Z gate.
func PauliZ(q *Queue, wire int) *Operation { return mustApply(q, "PauliZ", []int{wire}) }

// S queues a phase gate.
func S(q *Queue, wire int) *Operation { return mustApply(q, "S", []int{wire}) }

// T queues a T gate.
func T(q *Queue, wire int) *Operation { return mustApply(q, "T", []int{wire}) }

// CNOT queues a controlled-NOT.
func CNOT(q *Queue, control, target int) *Operation {
	return mustApply(q, "CNOT", []int{control, target})
}

// CZ queues a controlled-Z.
func CZ(q *Queue, control, target int) *Operation {
	return mustApply(q, "CZ", []int{control, target})
}

// SWAP queues a swap.
func SWAP(q *Queue, a, b int) *Operation { return mustApply(q, "SWAP", []int{a, b}) }

// RX queues an X rotation.
func RX(q *Queue, theta float64, wire int) *Operation {
	return mustApply(q, "RX", []int{wire}, theta)
}

// RY queues a Y rotation.
func RY(q *Queue, theta float64, wire int) *Operation {
	return mustApply(q, "RY", []int{wire}, theta)
}

// RZ queues a Z rotation.
func RZ(q *Queue, theta float64, wire int) *Operation {
	return mustApply(q, "RZ", []int{wire}, theta)
}

// PhaseShift queues diag(1, e^{iφ}).
func PhaseShift(q *Queue, phi float64, wire int) *Operation {
	return mustApply(q, "PhaseShift", []int{wire}, phi)
}

// Rot queues the general rotation RZ(ω)·RY(θ)·RZ(φ).
func Rot(q *Queue, phi, theta, omega float64, wire int) *Operation {
	return mustApply(q, "Rot", []int{wire}, phi, theta, omega)
}

// Displacement queues a CV displacement with magnitude r and phase phi.
func Displacement(q *Queue, r, phi float64, mode int) *Operation {
	return mustApply(q, "Displacement", []int{mode}, r, phi)
}

// Rotation queues a CV phase-space rotation.
func Rotation(q *Queue, phi float64, mode int) *Operation {
	return mustApply(q, "Rotation", []int{mode}, phi)
}

// Squeezing queues a CV squeezer.
func Squeezing(q *Queue, r, phi float64, mode int) *Operation {
	return mustApply(q, "Squeezing", []int{mode}, r, phi)
}

// Beamsplitter queues a CV beamsplitter between two modes.
func Beamsplitter(q *Queue, theta, phi float64, a, b int) *Operation {
	return mustApply(q, "Beamsplitter", []int{a, b}, theta, phi)
}
