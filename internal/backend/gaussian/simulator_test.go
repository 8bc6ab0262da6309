package gaussian

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/circuit/obs"
	"github.com/born-ml/qtape/internal/qerr"
)

const tol = 1e-10

func run(t *testing.T, sim *Simulator, build func(q *circuit.Queue)) []float64 {
	t.Helper()
	q := circuit.NewQueue()
	build(q)
	q.Close()
	res, err := sim.Execute(q.Operations(), q.Measurements())
	require.NoError(t, err)
	return res
}

func TestSimulator_Capabilities(t *testing.T) {
	sim := New(2)
	assert.Equal(t, "default.gaussian", sim.Name())
	assert.Equal(t, 2, sim.Wires())
	caps := sim.Capabilities()
	assert.Equal(t, circuit.ModelCV, caps.Model)
	assert.False(t, caps.ProvidesJacobian)
	assert.Empty(t, caps.PassthruInterface)
}

func TestExecute_Vacuum(t *testing.T) {
	res := run(t, New(1), func(q *circuit.Queue) {
		circuit.Expval(q, obs.X(0))
		circuit.Var(q, obs.X(0))
		circuit.Expval(q, obs.NumberOperator(0))
		circuit.Var(q, obs.NumberOperator(0))
	})
	assert.InDeltaSlice(t, []float64{0, 1, 0, 0}, res, tol)
}

func TestExecute_Displacement(t *testing.T) {
	r := 0.5
	res := run(t, New(1), func(q *circuit.Queue) {
		circuit.Displacement(q, r, 0, 0)
		circuit.Expval(q, obs.X(0))
		circuit.Expval(q, obs.P(0))
		circuit.Expval(q, obs.NumberOperator(0))
		circuit.Var(q, obs.NumberOperator(0))
	})
	assert.InDeltaSlice(t, []float64{2 * r, 0, r * r, r * r}, res, tol)
}

func TestExecute_Squeezing(t *testing.T) {
	r := 0.3
	res := run(t, New(1), func(q *circuit.Queue) {
		circuit.Squeezing(q, r, 0, 0)
		circuit.Var(q, obs.X(0))
		circuit.Var(q, obs.P(0))
		circuit.Expval(q, obs.NumberOperator(0))
	})
	want := []float64{math.Exp(-2 * r), math.Exp(2 * r), math.Pow(math.Sinh(r), 2)}
	assert.InDeltaSlice(t, want, res, tol)
}

func TestExecute_Rotation(t *testing.T) {
	res := run(t, New(1), func(q *circuit.Queue) {
		circuit.Displacement(q, 0.5, 0, 0)
		circuit.Rotation(q, math.Pi/2, 0)
		circuit.Expval(q, obs.X(0))
		circuit.Expval(q, obs.P(0))
	})
	assert.InDeltaSlice(t, []float64{0, 1}, res, tol)
}

func TestExecute_Beamsplitter(t *testing.T) {
	sim := New(2)
	res := run(t, sim, func(q *circuit.Queue) {
		circuit.Displacement(q, 0.5, 0, 0)
		circuit.Beamsplitter(q, math.Pi/2, 0, 0, 1)
		circuit.Expval(q, obs.X(0))
		circuit.Expval(q, obs.X(1))
	})
	assert.InDeltaSlice(t, []float64{0, 1}, res, tol)

	// A passive transformation keeps the vacuum covariance.
	cov := sim.Covariance()
	r, c := cov.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, cov.At(i, j), tol)
		}
	}
	assert.InDelta(t, 1, sim.Means().AtVec(2), tol)
}

func TestExecute_ResetsBetweenRuns(t *testing.T) {
	sim := New(1)
	build := func(q *circuit.Queue) {
		circuit.Displacement(q, 0.25, 0, 0)
		circuit.Expval(q, obs.X(0))
	}
	first := run(t, sim, build)
	second := run(t, sim, build)
	assert.Equal(t, first, second)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(q *circuit.Queue)
	}{
		{"qubit gate", func(q *circuit.Queue) {
			circuit.Hadamard(q, 0)
			circuit.Expval(q, obs.X(0))
		}},
		{"qubit observable", func(q *circuit.Queue) {
			circuit.Expval(q, obs.PauliZ(0))
		}},
		{"probs", func(q *circuit.Queue) {
			circuit.Probs(q, 0)
		}},
		{"sample", func(q *circuit.Queue) {
			circuit.Sample(q, obs.X(0))
		}},
		{"mode out of range", func(q *circuit.Queue) {
			circuit.Displacement(q, 0.1, 0, 3)
			circuit.Expval(q, obs.X(0))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := circuit.NewQueue()
			tt.build(q)
			_, err := New(1).Execute(q.Operations(), q.Measurements())
			assert.ErrorIs(t, err, qerr.ErrDevice)
		})
	}
}

func TestNew_InvalidModeCount(t *testing.T) {
	for _, modes := range []int{0, -2} {
		q := circuit.NewQueue()
		circuit.Expval(q, obs.X(0))
		_, err := New(modes).Execute(q.Operations(), q.Measurements())
		assert.ErrorIs(t, err, qerr.ErrDevice)
		assert.Contains(t, err.Error(), "at least one mode")
	}
}
