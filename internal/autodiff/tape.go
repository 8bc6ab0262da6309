package autodiff

// GradientTape records gate applications during the forward pass of a
// statevector simulation and computes parameter gradients during the
// backward pass using reverse-mode (adjoint) differentiation.
//
// Usage:
//
//	tape := NewGradientTape(numParams)
//	tape.StartRecording()
//	// ... apply gates, recording each one ...
//	grads := tape.Backward(finalState, observable)
type GradientTape struct {
	operations []Operation // Recorded operations (in execution order)
	recording  bool        // Whether tape is currently recording
	numParams  int         // Number of gradient columns
}

// NewGradientTape creates a new gradient tape producing numParams columns.
func NewGradientTape(numParams int) *GradientTape {
	return &GradientTape{
		operations: make([]Operation, 0, 64), // Pre-allocate for common case
		numParams:  numParams,
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumParams returns the number of gradient columns.
func (t *GradientTape) NumParams() int {
	return t.numParams
}

// Backward computes d⟨ψ|A|ψ⟩/dθ for every tracked parameter, where ψ is
// the final state and observe applies the Hermitian operator A.
//
// Algorithm:
//  1. λ = A|ψ⟩, φ = |ψ⟩
//  2. Walk operations in reverse order; un-apply each one from φ
//  3. For every tracked parameter of that operation accumulate
//     2·Re⟨λ|∂U|φ⟩
//  4. Un-apply the operation from λ and continue
func (t *GradientTape) Backward(final []complex128, observe func([]complex128) []complex128) []float64 {
	grads := make([]float64, t.numParams)
	if len(t.operations) == 0 {
		return grads
	}

	// Stop recording during backward pass to prevent recording adjoint operations
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	lambda := observe(final)
	phi := append([]complex128(nil), final...)

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		phi = op.Adjoint(phi)
		t.accumulateGrads(op, lambda, phi, grads)
		lambda = op.Adjoint(lambda)
	}

	return grads
}

// accumulateGrads adds the contribution of one operation's tracked parameters.
func (t *GradientTape) accumulateGrads(op Operation, lambda, phi []complex128, grads []float64) {
	for _, tan := range op.Tangents(phi) {
		if tan.Column < 0 || tan.Column >= len(grads) {
			continue
		}
		grads[tan.Column] += 2 * real(inner(lambda, tan.State))
	}
}

// inner returns ⟨a|b⟩.
func inner(a, b []complex128) complex128 {
	var s complex128
	for i := range a {
		s += complex(real(a[i]), -imag(a[i])) * b[i]
	}
	return s
}
