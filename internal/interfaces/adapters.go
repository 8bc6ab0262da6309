package interfaces

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/qtape/internal/qerr"
	"github.com/born-ml/qtape/internal/tape"
)

// autodiffAdapter works on plain float64 slices.
type autodiffAdapter struct{}

func (autodiffAdapter) Name() string { return Autodiff }

func (autodiffAdapter) Unwrap(input any) ([]float64, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case []float64:
		return append([]float64(nil), v...), nil
	case float64:
		return []float64{v}, nil
	default:
		return nil, fmt.Errorf("%s interface: unsupported input %T", Autodiff, input)
	}
}

func (autodiffAdapter) Wrap(result []float64) (any, error) {
	return append([]float64(nil), result...), nil
}

func (autodiffAdapter) WrapJacobian(jac *tape.Jacobian) (any, error) {
	return jac.Values(), nil
}

// gonumAdapter works on gonum vectors and dense matrices.
type gonumAdapter struct{}

func (gonumAdapter) Name() string { return Gonum }

func (gonumAdapter) Unwrap(input any) ([]float64, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case mat.Vector:
		out := make([]float64, v.Len())
		for i := range out {
			out[i] = v.AtVec(i)
		}
		return out, nil
	case []float64:
		return append([]float64(nil), v...), nil
	default:
		return nil, fmt.Errorf("%s interface: unsupported input %T", Gonum, input)
	}
}

func (gonumAdapter) Wrap(result []float64) (any, error) {
	if len(result) == 0 {
		return nil, fmt.Errorf("%s interface: empty result", Gonum)
	}
	return mat.NewVecDense(len(result), append([]float64(nil), result...)), nil
}

func (gonumAdapter) WrapJacobian(jac *tape.Jacobian) (any, error) {
	r, c := jac.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%s interface: empty %dx%d jacobian", Gonum, r, c)
	}
	return mat.DenseCopyOf(jac), nil
}

// unlinked stands in for a known interface whose library is not part of this
// build.
type unlinked struct {
	name    string
	library string
}

func (u unlinked) Name() string { return u.name }

func (u unlinked) missing() error {
	return qerr.QuantumFunction("%s not found. Please install the latest version of %s to enable the '%s' interface.",
		u.library, u.library, u.name)
}

func (u unlinked) Unwrap(any) ([]float64, error) { return nil, u.missing() }

func (u unlinked) Wrap([]float64) (any, error) { return nil, u.missing() }

func (u unlinked) WrapJacobian(*tape.Jacobian) (any, error) { return nil, u.missing() }

// Available reports whether the adapter for name can convert values in this
// build. It returns the missing-library error for unlinked interfaces.
func Available(name string) error {
	a, err := Lookup(name)
	if err != nil {
		return err
	}
	if u, ok := a.(unlinked); ok {
		return u.missing()
	}
	return nil
}
