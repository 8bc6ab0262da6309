package tape

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/device"
	"github.com/born-ml/qtape/internal/qerr"
)

// Method is a concrete gradient strategy.
type Method int

// Gradient strategies.
const (
	MethodNumeric Method = iota
	MethodAnalytic
	MethodDevice
	MethodBackprop
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodNumeric:
		return "numeric"
	case MethodAnalytic:
		return "analytic"
	case MethodDevice:
		return "device"
	case MethodBackprop:
		return "backprop"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Default finite-difference settings.
const (
	DefaultStep  = 1e-7
	DefaultOrder = 1
)

// DiffOptions carries the method and its tunables.
type DiffOptions struct {
	Method Method
	Step   float64 // Finite-difference step h
	Order  int     // 1: forward difference, 2: central difference
}

// DefaultDiffOptions returns numeric differentiation with the default step
// and order.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{Method: MethodNumeric, Step: DefaultStep, Order: DefaultOrder}
}

// Jacobian is a dense outputs × parameters matrix. It implements mat.Matrix.
type Jacobian struct {
	rows, cols int
	data       []float64
}

var _ mat.Matrix = (*Jacobian)(nil)

// NewJacobian allocates a zero jacobian.
func NewJacobian(rows, cols int) *Jacobian {
	return &Jacobian{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Dims returns (outputs, parameters).
func (j *Jacobian) Dims() (int, int) { return j.rows, j.cols }

// At returns d(output i)/d(parameter k).
func (j *Jacobian) At(i, k int) float64 { return j.data[i*j.cols+k] }

// Set sets entry (i, k).
func (j *Jacobian) Set(i, k int, v float64) { j.data[i*j.cols+k] = v }

// T returns the transpose.
func (j *Jacobian) T() mat.Matrix { return mat.Transpose{Matrix: j} }

// Row returns a copy of row i.
func (j *Jacobian) Row(i int) []float64 {
	return append([]float64(nil), j.data[i*j.cols:(i+1)*j.cols]...)
}

// Col returns a copy of column k.
func (j *Jacobian) Col(k int) []float64 {
	out := make([]float64, j.rows)
	for i := range out {
		out[i] = j.At(i, k)
	}
	return out
}

// Values returns the jacobian as nested rows.
func (j *Jacobian) Values() [][]float64 {
	out := make([][]float64, j.rows)
	for i := range out {
		out[i] = j.Row(i)
	}
	return out
}

func (j *Jacobian) setCol(k int, v []float64) {
	for i, x := range v {
		j.Set(i, k, x)
	}
}

// Jacobian returns d(result)/d(trainable parameters). When params is
// non-nil it is bound first and the previous values are restored afterwards.
func (t *Tape) Jacobian(dev device.Device, params []float64, opts DiffOptions) (*Jacobian, error) {
	if dev == nil {
		return nil, qerr.QuantumFunction("Invalid device")
	}
	restore, err := t.bind(params)
	if err != nil {
		return nil, err
	}
	defer restore()

	if err := t.checkDifferentiable(); err != nil {
		return nil, err
	}

	idx := make([]int, len(t.trainable))
	for i := range idx {
		idx[i] = i
	}

	switch opts.Method {
	case MethodNumeric:
		return t.NumericPD(dev, idx, opts)
	case MethodAnalytic:
		return t.AnalyticPD(dev, idx, opts)
	case MethodDevice:
		jp, ok := dev.(device.JacobianProvider)
		if !ok || !dev.Capabilities().ProvidesJacobian {
			return nil, qerr.QuantumFunction("The %s device does not provide a native method for computing the jacobian.", dev.Name())
		}
		rows, err := jp.Jacobian(t.ops, t.measurements, t.trainableRefs())
		if err != nil {
			return nil, fmt.Errorf("device jacobian on %s: %w", dev.Name(), err)
		}
		return t.fromRows(rows)
	case MethodBackprop:
		bp, ok := dev.(device.Backpropagator)
		if !ok || dev.Capabilities().PassthruInterface == "" {
			return nil, qerr.QuantumFunction("The %s device does not support native computations with autodifferentiation frameworks.", dev.Name())
		}
		rows, err := bp.BackpropJacobian(t.ops, t.measurements, t.trainableRefs())
		if err != nil {
			return nil, fmt.Errorf("backprop on %s: %w", dev.Name(), err)
		}
		return t.fromRows(rows)
	default:
		return nil, qerr.QuantumFunction("unknown gradient method %s", opts.Method)
	}
}

func (t *Tape) checkDifferentiable() error {
	for _, m := range t.measurements {
		if m.ReturnType() == circuit.Sampled {
			return qerr.QuantumFunction("%s is not differentiable", m)
		}
	}
	return nil
}

func (t *Tape) trainableRefs() []device.ParamRef {
	refs := make([]device.ParamRef, len(t.trainable))
	for i, p := range t.trainable {
		refs[i] = t.params[p]
	}
	return refs
}

func (t *Tape) fromRows(rows [][]float64) (*Jacobian, error) {
	jac := NewJacobian(len(rows), len(t.trainable))
	for i, r := range rows {
		if len(r) != len(t.trainable) {
			return nil, fmt.Errorf("%w: jacobian row %d has %d column(s), want %d", qerr.ErrDevice, i, len(r), len(t.trainable))
		}
		for k, v := range r {
			jac.Set(i, k, v)
		}
	}
	return jac, nil
}

// NumericPD computes finite-difference partial derivatives with respect to
// the trainable parameters at positions idx of TrainableParams.
//
// Order 1 uses (f(x+h) − f(x)) / h with f(x) evaluated once; order 2 uses
// (f(x+h) − f(x−h)) / 2h. Parameters are shifted in place and restored.
func (t *Tape) NumericPD(dev device.Device, idx []int, opts DiffOptions) (*Jacobian, error) {
	if err := validateNumeric(opts); err != nil {
		return nil, err
	}
	if err := t.checkIndices(idx); err != nil {
		return nil, err
	}

	var f0 []float64
	if opts.Order == 1 {
		var err error
		if f0, err = t.Execute(dev); err != nil {
			return nil, err
		}
	}

	var jac *Jacobian
	for k, i := range idx {
		col, err := t.numericColumn(dev, t.trainable[i], f0, opts)
		if err != nil {
			return nil, err
		}
		if jac == nil {
			jac = NewJacobian(len(col), len(idx))
		}
		jac.setCol(k, col)
	}
	if jac == nil {
		n := len(f0)
		if n == 0 {
			res, err := t.Execute(dev)
			if err != nil {
				return nil, err
			}
			n = len(res)
		}
		jac = NewJacobian(n, 0)
	}
	return jac, nil
}

func validateNumeric(opts DiffOptions) error {
	if opts.Order != 1 && opts.Order != 2 {
		return qerr.QuantumFunction("finite-difference order must be 1 or 2, got %d", opts.Order)
	}
	if opts.Step <= 0 {
		return qerr.QuantumFunction("finite-difference step must be positive, got %g", opts.Step)
	}
	return nil
}

func (t *Tape) checkIndices(idx []int) error {
	for _, i := range idx {
		if i < 0 || i >= len(t.trainable) {
			return qerr.QuantumFunction("trainable parameter index %d out of range [0, %d)", i, len(t.trainable))
		}
	}
	return nil
}

// numericColumn differentiates every output with respect to parameter p.
// f0 is required for order 1.
func (t *Tape) numericColumn(dev device.Device, p int, f0 []float64, opts DiffOptions) ([]float64, error) {
	h := opts.Step
	x := t.get(p)
	defer t.set(p, x)

	t.set(p, x+h)
	plus, err := t.Execute(dev)
	if err != nil {
		return nil, err
	}

	if opts.Order == 1 {
		if len(plus) != len(f0) {
			return nil, errResultSize(len(f0), len(plus))
		}
		col := make([]float64, len(plus))
		for i := range col {
			col[i] = (plus[i] - f0[i]) / h
		}
		return col, nil
	}

	t.set(p, x-h)
	minus, err := t.Execute(dev)
	if err != nil {
		return nil, err
	}
	if len(plus) != len(minus) {
		return nil, errResultSize(len(plus), len(minus))
	}
	col := make([]float64, len(plus))
	for i := range col {
		col[i] = (plus[i] - minus[i]) / (2 * h)
	}
	return col, nil
}

var errResultChanged = errors.New("result size changed between executions")

func errResultSize(want, got int) error {
	return fmt.Errorf("%w: %w: want %d, got %d", qerr.ErrDevice, errResultChanged, want, got)
}
