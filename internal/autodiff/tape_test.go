package autodiff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qtape/internal/autodiff"
)

// ry is a single-qubit RY rotation tracked in one gradient column.
type ry struct {
	theta  float64
	column int
}

func rotate(state []complex128, theta float64) []complex128 {
	c, s := complex(math.Cos(theta/2), 0), complex(math.Sin(theta/2), 0)
	a, b := state[0], state[1]
	state[0] = c*a - s*b
	state[1] = s*a + c*b
	return state
}

func (r *ry) Adjoint(state []complex128) []complex128 {
	return rotate(state, -r.theta)
}

func (r *ry) Tangents(state []complex128) []autodiff.Tangent {
	if r.column < 0 {
		return nil
	}
	// ∂RY(θ) = RY(θ+π)/2
	d := rotate(append([]complex128(nil), state...), r.theta+math.Pi)
	d[0] /= 2
	d[1] /= 2
	return []autodiff.Tangent{{Column: r.column, State: d}}
}

func pauliZ(v []complex128) []complex128 {
	return []complex128{v[0], -v[1]}
}

func forward(tape *autodiff.GradientTape, ops ...*ry) []complex128 {
	state := []complex128{1, 0}
	for _, op := range ops {
		state = rotate(state, op.theta)
		tape.Record(op)
	}
	return state
}

// TestTape_Recording tests tape recording on/off.
func TestTape_Recording(t *testing.T) {
	tape := autodiff.NewGradientTape(1)

	if tape.IsRecording() {
		t.Error("Tape should not be recording initially")
	}

	tape.StartRecording()
	if !tape.IsRecording() {
		t.Error("Tape should be recording after StartRecording()")
	}

	tape.StopRecording()
	if tape.IsRecording() {
		t.Error("Tape should not be recording after StopRecording()")
	}
}

func TestTape_RecordOnlyWhileRecording(t *testing.T) {
	state := rotate([]complex128{1, 0}, 0.1)

	tape := autodiff.NewGradientTape(1)
	tape.Record(&ry{theta: 0.1})
	assert.Equal(t, []float64{0}, tape.Backward(state, pauliZ))

	tape.StartRecording()
	tape.Record(&ry{theta: 0.1})
	assert.InDelta(t, -math.Sin(0.1), tape.Backward(state, pauliZ)[0], 1e-12)
}

func TestTape_Clear(t *testing.T) {
	tape := autodiff.NewGradientTape(2)
	tape.StartRecording()
	state := forward(tape, &ry{theta: 0.3}, &ry{theta: 0.4, column: 1})

	tape.Clear()

	assert.Equal(t, []float64{0, 0}, tape.Backward(state, pauliZ))
	assert.True(t, tape.IsRecording(), "Clear preserves the recording state")
	assert.Equal(t, 2, tape.NumParams())
}

func TestBackward_SingleRotation(t *testing.T) {
	theta := 0.7
	tape := autodiff.NewGradientTape(1)
	tape.StartRecording()
	state := forward(tape, &ry{theta: theta, column: 0})

	grads := tape.Backward(state, pauliZ)

	require.Len(t, grads, 1)
	assert.InDelta(t, -math.Sin(theta), grads[0], 1e-12)
}

func TestBackward_ChainedRotations(t *testing.T) {
	a, b := 0.3, -1.1
	tape := autodiff.NewGradientTape(2)
	tape.StartRecording()
	state := forward(tape, &ry{theta: a, column: 0}, &ry{theta: b, column: 1})

	grads := tape.Backward(state, pauliZ)

	// ⟨Z⟩ = cos(a+b)
	assert.InDelta(t, -math.Sin(a+b), grads[0], 1e-12)
	assert.InDelta(t, -math.Sin(a+b), grads[1], 1e-12)
}

func TestBackward_UntrackedAndOutOfRange(t *testing.T) {
	tape := autodiff.NewGradientTape(1)
	tape.StartRecording()
	state := forward(tape,
		&ry{theta: 0.2, column: -1},
		&ry{theta: 0.5, column: 0},
		&ry{theta: 0.9, column: 7},
	)

	grads := tape.Backward(state, pauliZ)

	require.Len(t, grads, 1)
	assert.InDelta(t, -math.Sin(1.6), grads[0], 1e-12)
}

func TestBackward_EmptyTape(t *testing.T) {
	tape := autodiff.NewGradientTape(3)
	grads := tape.Backward([]complex128{1, 0}, pauliZ)
	assert.Equal(t, []float64{0, 0, 0}, grads)
}

func TestBackward_RestoresRecording(t *testing.T) {
	tape := autodiff.NewGradientTape(1)
	tape.StartRecording()
	state := forward(tape, &ry{theta: 0.4})

	first := tape.Backward(state, pauliZ)

	assert.True(t, tape.IsRecording())
	assert.Equal(t, first, tape.Backward(state, pauliZ), "backward pass must not record")
}

// numericalGradient computes the gradient using central differences.
func numericalGradient(f func(float64) float64, x, epsilon float64) float64 {
	return (f(x+epsilon) - f(x-epsilon)) / (2 * epsilon)
}

func TestBackward_MatchesNumericalGradient(t *testing.T) {
	angles := []float64{0.25, 1.3, -0.6}
	expval := func(thetas []float64) float64 {
		state := []complex128{1, 0}
		for _, th := range thetas {
			state = rotate(state, th)
		}
		z := pauliZ(state)
		return real(state[0])*real(z[0]) + imag(state[0])*imag(z[0]) +
			real(state[1])*real(z[1]) + imag(state[1])*imag(z[1])
	}

	tape := autodiff.NewGradientTape(len(angles))
	tape.StartRecording()
	ops := make([]*ry, len(angles))
	for i, a := range angles {
		ops[i] = &ry{theta: a, column: i}
	}
	grads := tape.Backward(forward(tape, ops...), pauliZ)

	for i := range angles {
		f := func(x float64) float64 {
			shifted := append([]float64(nil), angles...)
			shifted[i] = x
			return expval(shifted)
		}
		want := numericalGradient(f, angles[i], 1e-6)
		if math.Abs(grads[i]-want) > 1e-6 {
			t.Errorf("column %d: autodiff %.8f, numerical %.8f", i, grads[i], want)
		}
	}
}
