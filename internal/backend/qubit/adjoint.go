package qubit

import (
	"github.com/born-ml/qtape/internal/autodiff"
	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/circuit/obs"
	"github.com/born-ml/qtape/internal/device"
	"github.com/born-ml/qtape/internal/qerr"
)

// trackedParam maps a gate parameter to its jacobian column.
type trackedParam struct {
	column int
	index  int
}

// gateRecord is one gate application on the gradient tape.
type gateRecord struct {
	sim     *Simulator
	op      *circuit.Operation
	dagger  circuit.Matrix
	tracked []trackedParam
}

var _ autodiff.Operation = (*gateRecord)(nil)

// Adjoint applies U† in place.
func (g *gateRecord) Adjoint(state []complex128) []complex128 {
	applyMatrix(state, g.sim.wires, g.dagger, g.op.Wires(), g.sim.cfg)
	return state
}

// Tangents applies ∂U/∂θ for each tracked parameter to a copy of state.
func (g *gateRecord) Tangents(state []complex128) []autodiff.Tangent {
	if len(g.tracked) == 0 {
		return nil
	}
	out := make([]autodiff.Tangent, 0, len(g.tracked))
	for _, tp := range g.tracked {
		d := g.op.Derivative(tp.index)
		if d == nil {
			continue
		}
		s := append([]complex128(nil), state...)
		applyMatrix(s, g.sim.wires, d, g.op.Wires(), g.sim.cfg)
		out = append(out, autodiff.Tangent{Column: tp.column, State: s})
	}
	return out
}

// differentiate returns one jacobian row per output value.
func (s *Simulator) differentiate(ops []*circuit.Operation, ms []*circuit.Measurement, params []device.ParamRef) ([][]float64, error) {
	if err := s.validate(ops, ms); err != nil {
		return nil, err
	}
	for _, ref := range params {
		if ref.Op < 0 || ref.Op >= len(ops) || ref.Index < 0 || ref.Index >= ops[ref.Op].NumParams() {
			return nil, qerr.Device("parameter reference %+v is out of range", ref)
		}
		if ops[ref.Op].Derivative(ref.Index) == nil {
			return nil, qerr.Device("%s cannot differentiate operation %s", s.Name(), ops[ref.Op].Name())
		}
	}

	tape := s.gradientTape(len(params))
	tape.StartRecording()
	state := s.evolve(ops, tape, params)
	tape.StopRecording()
	s.state = state

	var rows [][]float64
	for _, m := range ms {
		switch m.ReturnType() {
		case circuit.Expectation:
			row, err := s.expvalGrad(tape, state, m.Observable())
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		case circuit.Variance:
			row, err := s.varianceGrad(tape, state, m.Observable())
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		case circuit.Probability:
			wires := m.Wires()
			for outcome := 0; outcome < 1<<len(wires); outcome++ {
				project := projector(s.wires, wires, outcome)
				rows = append(rows, tape.Backward(state, project))
			}
		default:
			return nil, qerr.Device("%s measurements are not differentiable", m.ReturnType())
		}
	}
	return rows, nil
}

// gradientTape returns the simulator's tape, emptied and sized for numParams
// columns. The tape is reused while the column count stays the same.
func (s *Simulator) gradientTape(numParams int) *autodiff.GradientTape {
	if s.grad == nil || s.grad.NumParams() != numParams {
		s.grad = autodiff.NewGradientTape(numParams)
	}
	s.grad.Clear()
	return s.grad
}

func (s *Simulator) expvalGrad(tape *autodiff.GradientTape, state []complex128, o circuit.Observable) ([]float64, error) {
	// Surface observable errors before the sweep; the closure cannot return them.
	if _, err := s.observe(state, o); err != nil {
		return nil, err
	}
	return tape.Backward(state, func(v []complex128) []complex128 {
		out, _ := s.observe(v, o)
		return out
	}), nil
}

// varianceGrad uses ∂Var = ∂⟨A²⟩ − 2⟨A⟩∂⟨A⟩.
func (s *Simulator) varianceGrad(tape *autodiff.GradientTape, state []complex128, o circuit.Observable) ([]float64, error) {
	ex, err := s.expval(state, o)
	if err != nil {
		return nil, err
	}
	g, err := s.expvalGrad(tape, state, o)
	if err != nil {
		return nil, err
	}
	sq, err := obs.Square(o)
	if err != nil {
		return nil, qerr.Device("%s: %v", s.Name(), err)
	}
	g2, err := s.expvalGrad(tape, state, sq)
	if err != nil {
		return nil, err
	}
	for i := range g {
		g[i] = g2[i] - 2*ex*g[i]
	}
	return g, nil
}

// projector returns the map |v⟩ ↦ Π|v⟩ onto the basis states whose bits on
// wires spell outcome.
func projector(n int, wires []int, outcome int) func([]complex128) []complex128 {
	return func(v []complex128) []complex128 {
		out := make([]complex128, len(v))
		for idx, a := range v {
			var o int
			for _, w := range wires {
				o = o<<1 | (idx>>(n-1-w))&1
			}
			if o == outcome {
				out[idx] = a
			}
		}
		return out
	}
}
