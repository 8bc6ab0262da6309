package tape

import (
	"math"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/circuit/obs"
	"github.com/born-ml/qtape/internal/device"
	"github.com/born-ml/qtape/internal/qerr"
)

// shift is the parameter offset of the two-term rule.
const shift = math.Pi / 2

// AnalyticPD computes partial derivatives with the parameter-shift rule
//
//	∂f/∂θ = [f(θ+π/2) − f(θ−π/2)] / 2
//
// for the trainable parameters at positions idx of TrainableParams.
// Parameters of gates without a shift rule fall back to finite differences,
// and parameters that cannot influence any measured wire get a zero column
// without executing the device. Variances are differentiated through
// ∂Var(A) = ∂⟨A²⟩ − 2⟨A⟩∂⟨A⟩.
func (t *Tape) AnalyticPD(dev device.Device, idx []int, opts DiffOptions) (*Jacobian, error) {
	if t.kind != KindQubitParamShift {
		return nil, qerr.QuantumFunction("analytic differentiation requires a %s, got a %s", KindQubitParamShift, t.kind)
	}
	if err := t.checkIndices(idx); err != nil {
		return nil, err
	}
	if err := t.checkDifferentiable(); err != nil {
		return nil, err
	}

	shifted, variances, err := t.shiftMeasurements()
	if err != nil {
		return nil, err
	}

	f0, err := t.Execute(dev)
	if err != nil {
		return nil, err
	}
	// Variance rows need ⟨A⟩ at the unshifted point.
	var means []float64
	if len(variances) > 0 {
		if means, err = t.execute(dev, shifted[:len(t.measurements)]); err != nil {
			return nil, err
		}
	}

	jac := NewJacobian(len(f0), len(idx))
	measured := t.measuredWires()
	for k, i := range idx {
		p := t.trainable[i]
		ref := t.params[p]
		op := t.ops[ref.Op]

		if !t.inLightCone(ref.Op, measured) {
			continue
		}
		if !op.HasShiftRule() {
			nopts := opts
			if validateNumeric(nopts) != nil {
				nopts.Step, nopts.Order = DefaultStep, DefaultOrder
			}
			col, err := t.numericColumn(dev, p, f0, nopts)
			if err != nil {
				return nil, err
			}
			jac.setCol(k, col)
			continue
		}

		g, err := t.shiftColumn(dev, p, shifted)
		if err != nil {
			return nil, err
		}
		for _, v := range variances {
			g[v.row] = g[v.square] - 2*means[v.row]*g[v.row]
		}
		jac.setCol(k, g[:len(f0)])
	}
	return jac, nil
}

// varianceRow locates the rows of one variance measurement in the shifted
// result: row holds ⟨A⟩, square holds ⟨A²⟩.
type varianceRow struct {
	row    int
	square int
}

// shiftMeasurements replaces every variance by an expectation of the same
// observable and appends an expectation of its square.
func (t *Tape) shiftMeasurements() ([]*circuit.Measurement, []varianceRow, error) {
	ms := make([]*circuit.Measurement, 0, len(t.measurements))
	var squares []*circuit.Measurement
	var vars []varianceRow

	// Variance, expval and sample are one row each on a qubit device;
	// probabilities are 2^k.
	row := 0
	for _, m := range t.measurements {
		if m.ReturnType() != circuit.Variance {
			ms = append(ms, m)
			row += m.Size(1)
			continue
		}
		sq, err := obs.Square(m.Observable())
		if err != nil {
			return nil, nil, qerr.QuantumFunction("cannot differentiate %s: %v", m, err)
		}
		ms = append(ms, circuit.NewMeasurement(circuit.Expectation, m.Observable()))
		squares = append(squares, circuit.NewMeasurement(circuit.Expectation, sq))
		vars = append(vars, varianceRow{row: row})
		row++
	}
	for i := range vars {
		vars[i].square = row + i
	}
	return append(ms, squares...), vars, nil
}

// shiftColumn evaluates the two-term rule for parameter p over ms.
func (t *Tape) shiftColumn(dev device.Device, p int, ms []*circuit.Measurement) ([]float64, error) {
	x := t.get(p)
	defer t.set(p, x)

	t.set(p, x+shift)
	plus, err := t.execute(dev, ms)
	if err != nil {
		return nil, err
	}
	t.set(p, x-shift)
	minus, err := t.execute(dev, ms)
	if err != nil {
		return nil, err
	}
	if len(plus) != len(minus) {
		return nil, errResultSize(len(plus), len(minus))
	}

	g := make([]float64, len(plus))
	for i := range g {
		g[i] = (plus[i] - minus[i]) / 2
	}
	return g, nil
}

func (t *Tape) measuredWires() map[int]bool {
	wires := map[int]bool{}
	for _, m := range t.measurements {
		for _, w := range m.Wires() {
			wires[w] = true
		}
	}
	return wires
}

// inLightCone reports whether operation k can influence a measured wire:
// its wires are propagated forward through every later gate that touches
// them.
func (t *Tape) inLightCone(k int, measured map[int]bool) bool {
	cone := map[int]bool{}
	for _, w := range t.ops[k].Wires() {
		cone[w] = true
	}
	for _, op := range t.ops[k+1:] {
		wires := op.Wires()
		touches := false
		for _, w := range wires {
			if cone[w] {
				touches = true
				break
			}
		}
		if touches {
			for _, w := range wires {
				cone[w] = true
			}
		}
	}
	for w := range cone {
		if measured[w] {
			return true
		}
	}
	return false
}
