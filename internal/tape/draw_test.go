package tape

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/circuit/obs"
)

func assertGolden(t *testing.T, name string, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}

func TestDraw_TwoWire(t *testing.T) {
	fn := func(q *circuit.Queue, args ...float64) (any, error) {
		circuit.RX(q, args[0], 0)
		circuit.RY(q, args[1], 1)
		circuit.CNOT(q, 0, 1)
		return []any{
			circuit.Expval(q, obs.PauliZ(0)),
			circuit.Var(q, obs.PauliX(1)),
		}, nil
	}
	tp, err := Record(KindBase, fn, 0.1, 0.2)
	require.NoError(t, err)
	assertGolden(t, "draw_two_wire", tp.Draw())
}

func TestDraw_Mixed(t *testing.T) {
	h, err := obs.NewHamiltonian([]float64{1, 2}, []circuit.Observable{obs.PauliZ(0), obs.PauliZ(2)})
	require.NoError(t, err)

	fn := func(q *circuit.Queue, _ ...float64) (any, error) {
		circuit.Hadamard(q, 0)
		circuit.Rot(q, 0.5, 1.25, -0.125, 1)
		circuit.CZ(q, 1, 2)
		circuit.SWAP(q, 0, 2)
		return []any{
			circuit.Expval(q, obs.MustProd(obs.PauliX(0), obs.PauliY(1))),
			circuit.Expval(q, h),
			circuit.Probs(q, 1),
		}, nil
	}
	tp, err := Record(KindBase, fn)
	require.NoError(t, err)
	assertGolden(t, "draw_mixed", tp.Draw())
}

func TestDraw_Empty(t *testing.T) {
	tp := &Tape{}
	assert.Equal(t, "", tp.Draw())
}
