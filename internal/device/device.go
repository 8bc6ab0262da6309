// Package device defines the boundary between the tape and the backends that
// execute circuits.
//
// A backend implements Device. Backends that can differentiate circuits
// themselves additionally implement JacobianProvider (a native jacobian,
// selected with the "device" method) or Backpropagator (differentiation
// through the simulator itself, selected with "backprop").
package device

import (
	"github.com/born-ml/qtape/internal/circuit"
)

// Device executes recorded circuits.
//
// Implementations:
//   - default.qubit: statevector simulator (internal/backend/qubit)
//   - default.gaussian: Gaussian CV simulator (internal/backend/gaussian)
//   - Mock: configurable test double
type Device interface {
	// Name returns the short device name, e.g. "default.qubit".
	Name() string

	// Wires returns the number of wires (qubits or modes).
	Wires() int

	// Capabilities returns the declared capability set.
	Capabilities() Capabilities

	// Execute applies ops in order and evaluates ms, returning one flat
	// result vector ordered exactly as ms.
	Execute(ops []*circuit.Operation, ms []*circuit.Measurement) ([]float64, error)
}

// ParamRef addresses one parameter slot: parameter Index of ops[Op].
type ParamRef struct {
	Op    int
	Index int
}

// JacobianProvider is implemented by devices that compute jacobians natively.
type JacobianProvider interface {
	// Jacobian returns d(result)/d(param) with one row per result entry and
	// one column per element of params.
	Jacobian(ops []*circuit.Operation, ms []*circuit.Measurement, params []ParamRef) ([][]float64, error)
}

// Backpropagator is implemented by devices whose execution is itself
// differentiable through their passthrough interface.
type Backpropagator interface {
	// BackpropJacobian executes the circuit and differentiates the result
	// through the simulation, with the same layout as JacobianProvider.
	BackpropJacobian(ops []*circuit.Operation, ms []*circuit.Measurement, params []ParamRef) ([][]float64, error)
}

// Capability names, as returned by Capabilities.Map.
const (
	CapModel               = "model"
	CapProvidesJacobian    = "provides_jacobian"
	CapPassthruInterface   = "passthru_interface"
	CapSupportsFiniteShots = "supports_finite_shots"
	CapReturnsProbs        = "returns_probs"
)

// Capabilities is the set of features a device declares.
type Capabilities struct {
	// Model is the execution model: "qubit", "cv", or anything else for
	// devices outside both.
	Model circuit.Model

	// ProvidesJacobian is true when the device implements JacobianProvider.
	ProvidesJacobian bool

	// PassthruInterface names the interface whose differentiation the device
	// supports natively; empty when the device has none.
	PassthruInterface string

	SupportsFiniteShots bool
	ReturnsProbs        bool
}

// Map returns the capabilities as a name → value mapping. Unset optional
// values are omitted.
func (c Capabilities) Map() map[string]any {
	m := map[string]any{
		CapModel:               string(c.Model),
		CapProvidesJacobian:    c.ProvidesJacobian,
		CapSupportsFiniteShots: c.SupportsFiniteShots,
		CapReturnsProbs:        c.ReturnsProbs,
	}
	if c.PassthruInterface != "" {
		m[CapPassthruInterface] = c.PassthruInterface
	}
	return m
}
