// Package autodiff implements reverse-mode differentiation of statevector
// simulations.
//
// A simulator records every gate it applies on a GradientTape. Each recorded
// Operation knows how to undo itself (apply U†) and how to apply the
// derivative of its unitary with respect to each tracked parameter. Walking
// the tape backwards from the final state yields the gradient of any
// expectation value in a single reverse sweep, independent of the number of
// parameters.
package autodiff

// Operation is one recorded gate application.
type Operation interface {
	// Adjoint returns U†|state⟩. Implementations may reuse state's storage.
	Adjoint(state []complex128) []complex128

	// Tangents returns ∂U/∂θ|state⟩ for every tracked parameter of the gate.
	// state must not be modified.
	Tangents(state []complex128) []Tangent
}

// Tangent is the derivative of a gate application with respect to one
// tracked parameter.
type Tangent struct {
	Column int          // Gradient column of the parameter
	State  []complex128 // ∂U/∂θ applied to the input state
}
