package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/qtape/internal/qerr"
	"github.com/born-ml/qtape/internal/tape"
)

func sampleJacobian() *tape.Jacobian {
	j := tape.NewJacobian(2, 3)
	for i := 0; i < 2; i++ {
		for k := 0; k < 3; k++ {
			j.Set(i, k, float64(i*3+k))
		}
	}
	return j
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"autodiff", "gonum", "tf", "torch"}, Names())
	assert.True(t, Known("tf"))
	assert.False(t, Known("jax"))

	_, err := Lookup("jax")
	assert.Error(t, err)

	r := NewRegistry()
	r.Register(unlinked{name: "jax", library: "JAX"})
	a, ok := r.Get("jax")
	require.True(t, ok)
	assert.Equal(t, "jax", a.Name())
	assert.Len(t, r.Names(), 5)
	assert.False(t, Known("jax"), "custom registries do not affect the defaults")
}

func TestAutodiffAdapter(t *testing.T) {
	a, err := Lookup(Autodiff)
	require.NoError(t, err)

	in := []float64{1, 2}
	vals, err := a.Unwrap(in)
	require.NoError(t, err)
	assert.Equal(t, in, vals)
	vals[0] = 9
	assert.Equal(t, 1.0, in[0], "Unwrap copies")

	vals, err = a.Unwrap(0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, vals)

	vals, err = a.Unwrap(nil)
	require.NoError(t, err)
	assert.Empty(t, vals)

	_, err = a.Unwrap("x")
	assert.Error(t, err)

	out, err := a.Wrap([]float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, out)

	jac, err := a.WrapJacobian(sampleJacobian())
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1, 2}, {3, 4, 5}}, jac)
}

func TestGonumAdapter(t *testing.T) {
	a, err := Lookup(Gonum)
	require.NoError(t, err)

	vals, err := a.Unwrap(mat.NewVecDense(3, []float64{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, vals)

	_, err = a.Unwrap(42)
	assert.Error(t, err)

	out, err := a.Wrap([]float64{0.25, 0.75})
	require.NoError(t, err)
	v, ok := out.(*mat.VecDense)
	require.True(t, ok)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, 0.75, v.AtVec(1))

	_, err = a.Wrap(nil)
	assert.Error(t, err)

	jac, err := a.WrapJacobian(sampleJacobian())
	require.NoError(t, err)
	d, ok := jac.(*mat.Dense)
	require.True(t, ok)
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 5.0, d.At(1, 2))

	_, err = a.WrapJacobian(tape.NewJacobian(0, 0))
	assert.Error(t, err)
}

func TestUnlinkedAdapters(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{TF, "TensorFlow not found. Please install the latest version of TensorFlow to enable the 'tf' interface."},
		{Torch, "PyTorch not found. Please install the latest version of PyTorch to enable the 'torch' interface."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Available(tt.name)
			require.Error(t, err)
			assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
			assert.Contains(t, err.Error(), tt.msg)

			a, err := Lookup(tt.name)
			require.NoError(t, err)
			_, err = a.Unwrap([]float64{1})
			assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
			_, err = a.Wrap([]float64{1})
			assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
			_, err = a.WrapJacobian(sampleJacobian())
			assert.ErrorIs(t, err, qerr.ErrQuantumFunction)
		})
	}

	assert.NoError(t, Available(Autodiff))
	assert.NoError(t, Available(Gonum))
	assert.Error(t, Available("jax"))
}
