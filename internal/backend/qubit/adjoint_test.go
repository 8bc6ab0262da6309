package qubit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/circuit/obs"
	"github.com/born-ml/qtape/internal/device"
	"github.com/born-ml/qtape/internal/qerr"
)

// allParams references every parameter of ops in order.
func allParams(ops []*circuit.Operation) []device.ParamRef {
	var refs []device.ParamRef
	for i, op := range ops {
		for j := 0; j < op.NumParams(); j++ {
			refs = append(refs, device.ParamRef{Op: i, Index: j})
		}
	}
	return refs
}

func jacobian(t *testing.T, sim *Simulator, build func(q *circuit.Queue)) [][]float64 {
	t.Helper()
	q := circuit.NewQueue()
	build(q)
	q.Close()
	ops := q.Operations()
	jac, err := sim.Jacobian(ops, q.Measurements(), allParams(ops))
	require.NoError(t, err)
	return jac
}

func TestJacobian_Expval(t *testing.T) {
	a, b := 0.543, -0.654
	jac := jacobian(t, New(2, WithAdjointJacobian()), func(q *circuit.Queue) {
		circuit.RX(q, a, 0)
		circuit.RY(q, b, 1)
		circuit.CNOT(q, 0, 1)
		circuit.Expval(q, obs.PauliZ(0))
		circuit.Expval(q, obs.PauliZ(1))
	})

	require.Len(t, jac, 2)
	assert.InDeltaSlice(t, []float64{-math.Sin(a), 0}, jac[0], tol)
	assert.InDeltaSlice(t, []float64{-math.Sin(a) * math.Cos(b), -math.Cos(a) * math.Sin(b)}, jac[1], tol)
}

func TestJacobian_Variance(t *testing.T) {
	a := 0.8
	jac := jacobian(t, New(1, WithAdjointJacobian()), func(q *circuit.Queue) {
		circuit.RX(q, a, 0)
		circuit.Var(q, obs.PauliZ(0))
	})
	// Var = 1 − cos²a
	assert.InDelta(t, math.Sin(2*a), jac[0][0], tol)
}

func TestJacobian_Probs(t *testing.T) {
	a := 1.2
	jac := jacobian(t, New(1, WithAdjointJacobian()), func(q *circuit.Queue) {
		circuit.RX(q, a, 0)
		circuit.Probs(q, 0)
	})
	require.Len(t, jac, 2)
	assert.InDelta(t, -math.Sin(a)/2, jac[0][0], tol)
	assert.InDelta(t, math.Sin(a)/2, jac[1][0], tol)
}

func TestJacobian_PhaseShiftAndRot(t *testing.T) {
	phi := 0.37
	jac := jacobian(t, New(1, WithAdjointJacobian()), func(q *circuit.Queue) {
		circuit.Hadamard(q, 0)
		circuit.PhaseShift(q, phi, 0)
		circuit.Expval(q, obs.PauliX(0))
	})
	assert.InDelta(t, -math.Sin(phi), jac[0][0], tol)

	theta := 0.9
	jac = jacobian(t, New(1, WithAdjointJacobian()), func(q *circuit.Queue) {
		circuit.Rot(q, 0.2, theta, -0.4, 0)
		circuit.Expval(q, obs.PauliZ(0))
	})
	assert.InDeltaSlice(t, []float64{0, -math.Sin(theta), 0}, jac[0], tol)
}

func TestJacobian_SubsetOfParams(t *testing.T) {
	q := circuit.NewQueue()
	circuit.RX(q, 0.1, 0)
	circuit.RX(q, 0.2, 0)
	circuit.Expval(q, obs.PauliZ(0))

	sim := New(1, WithAdjointJacobian())
	jac, err := sim.Jacobian(q.Operations(), q.Measurements(), []device.ParamRef{{Op: 1, Index: 0}})
	require.NoError(t, err)
	require.Len(t, jac[0], 1)
	assert.InDelta(t, -math.Sin(0.3), jac[0][0], tol)
}

func TestJacobian_ReusesGradientTape(t *testing.T) {
	sim := New(1, WithAdjointJacobian())
	rx := func(angles ...float64) func(q *circuit.Queue) {
		return func(q *circuit.Queue) {
			for _, a := range angles {
				circuit.RX(q, a, 0)
			}
			circuit.Expval(q, obs.PauliZ(0))
		}
	}

	jac := jacobian(t, sim, rx(0.3))
	assert.InDelta(t, -math.Sin(0.3), jac[0][0], tol)
	first := sim.grad

	// Operations from the previous call must not leak into the sweep.
	jac = jacobian(t, sim, rx(0.5))
	assert.InDelta(t, -math.Sin(0.5), jac[0][0], tol)
	assert.Same(t, first, sim.grad)

	jac = jacobian(t, sim, rx(0.2, 0.4))
	assert.InDeltaSlice(t, []float64{-math.Sin(0.6), -math.Sin(0.6)}, jac[0], tol)
	assert.NotSame(t, first, sim.grad)
}

func TestBackpropJacobian_MatchesAdjoint(t *testing.T) {
	build := func(q *circuit.Queue) {
		circuit.RY(q, 0.3, 0)
		circuit.RZ(q, 1.4, 1)
		circuit.Hadamard(q, 1)
		circuit.CNOT(q, 1, 0)
		circuit.RX(q, -0.7, 1)
		circuit.Expval(q, obs.MustProd(obs.PauliX(0), obs.PauliZ(1)))
		circuit.Var(q, obs.PauliY(1))
	}
	q := circuit.NewQueue()
	build(q)
	ops := q.Operations()

	adj, err := New(2, WithAdjointJacobian()).Jacobian(ops, q.Measurements(), allParams(ops))
	require.NoError(t, err)
	bp, err := New(2, WithBackprop()).BackpropJacobian(ops, q.Measurements(), allParams(ops))
	require.NoError(t, err)

	require.Len(t, bp, len(adj))
	for i := range adj {
		assert.InDeltaSlice(t, adj[i], bp[i], tol)
	}
}

func TestJacobian_MatchesCentralDifference(t *testing.T) {
	params := []float64{0.11, -0.52, 1.37}
	build := func(p []float64) *circuit.Queue {
		q := circuit.NewQueue()
		circuit.RX(q, p[0], 0)
		circuit.RY(q, p[1], 1)
		circuit.CNOT(q, 0, 1)
		circuit.PhaseShift(q, p[2], 1)
		circuit.Hadamard(q, 1)
		circuit.Expval(q, obs.PauliZ(1))
		return q
	}

	sim := New(2, WithAdjointJacobian())
	q := build(params)
	jac, err := sim.Jacobian(q.Operations(), q.Measurements(), allParams(q.Operations()))
	require.NoError(t, err)

	h := 1e-6
	for i := range params {
		plus := append([]float64(nil), params...)
		minus := append([]float64(nil), params...)
		plus[i] += h
		minus[i] -= h
		qp, qm := build(plus), build(minus)
		fp, err := sim.Execute(qp.Operations(), qp.Measurements())
		require.NoError(t, err)
		fm, err := sim.Execute(qm.Operations(), qm.Measurements())
		require.NoError(t, err)
		assert.InDelta(t, (fp[0]-fm[0])/(2*h), jac[0][i], 1e-6, "param %d", i)
	}
}

func TestJacobian_Errors(t *testing.T) {
	q := circuit.NewQueue()
	circuit.RX(q, 0.1, 0)
	circuit.Expval(q, obs.PauliZ(0))
	ops, ms := q.Operations(), q.Measurements()
	refs := allParams(ops)

	_, err := New(1).Jacobian(ops, ms, refs)
	assert.ErrorIs(t, err, qerr.ErrDevice)

	_, err = New(1).BackpropJacobian(ops, ms, refs)
	assert.ErrorIs(t, err, qerr.ErrDevice)

	_, err = New(1, WithAdjointJacobian()).Jacobian(ops, ms, []device.ParamRef{{Op: 3, Index: 0}})
	assert.ErrorIs(t, err, qerr.ErrDevice)

	sq := circuit.NewQueue()
	circuit.RX(sq, 0.1, 0)
	circuit.Sample(sq, obs.PauliZ(0))
	_, err = New(1, WithAdjointJacobian(), WithShots(10)).Jacobian(sq.Operations(), sq.Measurements(), refs)
	assert.ErrorIs(t, err, qerr.ErrDevice)
}
