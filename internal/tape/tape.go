// Package tape records one construction pass of a quantum circuit and
// differentiates it.
//
// A Tape is produced by Record: the construction function runs against a
// fresh circuit.Queue, and every operation and measurement it builds is kept
// in construction order. After Record returns the structure is fixed; only
// parameter values may be rebound, which is what the finite-difference and
// parameter-shift rules rely on.
package tape

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/device"
	"github.com/born-ml/qtape/internal/qerr"
)

// Kind selects the differentiation capabilities of a tape.
type Kind int

// Tape kinds.
const (
	// KindBase supports numeric differentiation and device-side jacobians.
	KindBase Kind = iota
	// KindQubitParamShift additionally supports the analytic parameter-shift
	// rule for qubit circuits.
	KindQubitParamShift
)

// String returns the tape kind name.
func (k Kind) String() string {
	switch k {
	case KindBase:
		return "QuantumTape"
	case KindQubitParamShift:
		return "QubitParamShiftTape"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tape is the recording of one circuit.
type Tape struct {
	id           string
	kind         Kind
	args         []float64
	ops          []*circuit.Operation
	measurements []*circuit.Measurement

	// params maps a parameter index to its (operation, slot) position.
	params []device.ParamRef

	// trainable lists the parameter indices that are differentiated, in
	// ascending order.
	trainable []int
}

// Record runs fn against a fresh queue and returns the resulting tape.
//
// The declared output of fn must be a *circuit.Measurement, a non-empty
// []*circuit.Measurement or a non-empty []any of measurements (ErrCircuit
// otherwise), and must list exactly the queued measurements in queued order
// (ErrOrdering otherwise). The queue is closed on every exit path.
func Record(kind Kind, fn circuit.Func, args ...float64) (*Tape, error) {
	if fn == nil {
		return nil, qerr.QuantumFunction("no construction function to record")
	}

	q := circuit.NewQueue()
	defer q.Close()

	out, err := fn(q, args...)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	if err := q.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", qerr.ErrCircuit, err)
	}

	declared, err := declaredMeasurements(out)
	if err != nil {
		return nil, err
	}
	queued := q.Measurements()
	if len(declared) != len(queued) {
		return nil, fmt.Errorf("%w: %d measurement(s) returned but %d queued", qerr.ErrOrdering, len(declared), len(queued))
	}
	for i := range declared {
		if declared[i] != queued[i] {
			return nil, fmt.Errorf("%w: returned measurement %d is %s, queued %s", qerr.ErrOrdering, i, declared[i], queued[i])
		}
	}

	t := &Tape{
		id:           uuid.Must(uuid.NewV7()).String(),
		kind:         kind,
		args:         append([]float64(nil), args...),
		ops:          q.Operations(),
		measurements: queued,
	}
	for i, op := range t.ops {
		for j := 0; j < op.NumParams(); j++ {
			t.params = append(t.params, device.ParamRef{Op: i, Index: j})
		}
	}
	t.trainable = make([]int, len(t.params))
	for i := range t.trainable {
		t.trainable[i] = i
	}
	return t, nil
}

func declaredMeasurements(out any) ([]*circuit.Measurement, error) {
	switch v := out.(type) {
	case *circuit.Measurement:
		if v == nil {
			break
		}
		return []*circuit.Measurement{v}, nil
	case []*circuit.Measurement:
		if len(v) == 0 {
			break
		}
		for i, m := range v {
			if m == nil {
				return nil, fmt.Errorf("%w: returned value %d is nil", qerr.ErrCircuit, i)
			}
		}
		return append([]*circuit.Measurement(nil), v...), nil
	case []any:
		if len(v) == 0 {
			break
		}
		ms := make([]*circuit.Measurement, len(v))
		for i, e := range v {
			m, ok := e.(*circuit.Measurement)
			if !ok || m == nil {
				return nil, fmt.Errorf("%w: returned value %d is %T, not a measurement", qerr.ErrCircuit, i, e)
			}
			ms[i] = m
		}
		return ms, nil
	}
	return nil, fmt.Errorf("%w: returned value %T is not a measurement or a non-empty sequence of measurements", qerr.ErrCircuit, out)
}

// ID returns the unique tape identifier.
func (t *Tape) ID() string { return t.id }

// Kind returns the tape kind.
func (t *Tape) Kind() Kind { return t.kind }

// Args returns the arguments the tape was recorded with.
func (t *Tape) Args() []float64 { return append([]float64(nil), t.args...) }

// Operations returns the recorded operations in construction order.
func (t *Tape) Operations() []*circuit.Operation {
	return append([]*circuit.Operation(nil), t.ops...)
}

// Measurements returns the recorded measurements in construction order.
func (t *Tape) Measurements() []*circuit.Measurement {
	return append([]*circuit.Measurement(nil), t.measurements...)
}

// Observables returns the observables of the measurements that have one;
// probability measurements are skipped.
func (t *Tape) Observables() []circuit.Observable {
	var out []circuit.Observable
	for _, m := range t.measurements {
		if o := m.Observable(); o != nil {
			out = append(out, o)
		}
	}
	return out
}

// NumParams returns the total number of parameter slots.
func (t *Tape) NumParams() int { return len(t.params) }

// ParamRef returns the position of parameter i.
func (t *Tape) ParamRef(i int) device.ParamRef { return t.params[i] }

// TrainableParams returns the trainable parameter indices.
func (t *Tape) TrainableParams() []int { return append([]int(nil), t.trainable...) }

// SetTrainable restricts differentiation to the given parameter indices.
// Indices are deduplicated and sorted; jacobian columns follow that order.
func (t *Tape) SetTrainable(idx []int) error {
	seen := make(map[int]bool, len(idx))
	out := make([]int, 0, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(t.params) {
			return qerr.QuantumFunction("parameter index %d out of range [0, %d)", i, len(t.params))
		}
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Ints(out)
	t.trainable = out
	return nil
}

// Parameters returns the values of the trainable parameters.
func (t *Tape) Parameters() []float64 {
	out := make([]float64, len(t.trainable))
	for i, p := range t.trainable {
		out[i] = t.get(p)
	}
	return out
}

// SetParameters rebinds the trainable parameters in place.
func (t *Tape) SetParameters(values []float64) error {
	if len(values) != len(t.trainable) {
		return qerr.QuantumFunction("expected %d parameter value(s), got %d", len(t.trainable), len(values))
	}
	for i, p := range t.trainable {
		t.set(p, values[i])
	}
	return nil
}

func (t *Tape) get(p int) float64 {
	ref := t.params[p]
	return t.ops[ref.Op].Param(ref.Index)
}

func (t *Tape) set(p int, v float64) {
	ref := t.params[p]
	t.ops[ref.Op].SetParam(ref.Index, v)
}

// Execute runs the tape on dev. The result is ordered as the measurements.
func (t *Tape) Execute(dev device.Device) ([]float64, error) {
	return t.execute(dev, t.measurements)
}

// ExecuteWith binds params to the trainable parameters, executes, and
// restores the previous values.
func (t *Tape) ExecuteWith(dev device.Device, params []float64) ([]float64, error) {
	restore, err := t.bind(params)
	if err != nil {
		return nil, err
	}
	defer restore()
	return t.Execute(dev)
}

// bind sets params when non-nil and returns a function restoring the
// previous values.
func (t *Tape) bind(params []float64) (func(), error) {
	if params == nil {
		return func() {}, nil
	}
	prev := t.Parameters()
	if err := t.SetParameters(params); err != nil {
		return nil, err
	}
	return func() { _ = t.SetParameters(prev) }, nil
}

func (t *Tape) execute(dev device.Device, ms []*circuit.Measurement) ([]float64, error) {
	if dev == nil {
		return nil, qerr.QuantumFunction("Invalid device")
	}
	res, err := dev.Execute(t.ops, ms)
	if err != nil {
		return nil, fmt.Errorf("execute on %s: %w", dev.Name(), err)
	}
	return res, nil
}
