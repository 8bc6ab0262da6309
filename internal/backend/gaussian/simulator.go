// Package gaussian implements default.gaussian, a continuous-variable
// simulator restricted to Gaussian states.
//
// A Gaussian state of N modes is fully described by its vector of means and
// its covariance matrix over the quadratures (x0, p0, x1, p1, ...). Every
// supported gate is a symplectic map plus a displacement in that phase space.
// Units follow ħ = 2, so the vacuum covariance is the identity.
package gaussian

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/circuit/obs"
	"github.com/born-ml/qtape/internal/device"
	"github.com/born-ml/qtape/internal/qerr"
)

// Name is the device name.
const Name = "default.gaussian"

// Hbar is the value of ħ used by the simulator.
const Hbar = 2.0

var _ device.Device = (*Simulator)(nil)

// Simulator is the default.gaussian device.
type Simulator struct {
	modes int
	means *mat.VecDense
	cov   *mat.Dense
}

// New creates a simulator on the given number of modes.
// A mode count below one is reported as a device error by Execute.
func New(modes int) *Simulator {
	s := &Simulator{modes: modes}
	if modes >= 1 {
		s.reset()
	}
	return s
}

// Name returns "default.gaussian".
func (s *Simulator) Name() string {
	return Name
}

// Wires returns the number of modes.
func (s *Simulator) Wires() int {
	return s.modes
}

// Capabilities declares the cv model only.
func (s *Simulator) Capabilities() device.Capabilities {
	return device.Capabilities{Model: circuit.ModelCV}
}

// Means returns a copy of the phase-space means of the last execution.
func (s *Simulator) Means() *mat.VecDense {
	return mat.VecDenseCopyOf(s.means)
}

// Covariance returns a copy of the covariance of the last execution.
func (s *Simulator) Covariance() *mat.Dense {
	return mat.DenseCopyOf(s.cov)
}

// Execute evolves the vacuum through ops and evaluates ms.
func (s *Simulator) Execute(ops []*circuit.Operation, ms []*circuit.Measurement) ([]float64, error) {
	if err := s.validate(ops, ms); err != nil {
		return nil, err
	}

	s.reset()
	for _, op := range ops {
		s.apply(op)
	}

	out := make([]float64, 0, len(ms))
	for _, m := range ms {
		o := m.Observable().(*obs.Named)
		var v float64
		switch m.ReturnType() {
		case circuit.Expectation:
			v = s.expval(o)
		case circuit.Variance:
			v = s.variance(o)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Simulator) reset() {
	n := 2 * s.modes
	s.means = mat.NewVecDense(n, nil)
	s.cov = mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		s.cov.Set(i, i, Hbar/2)
	}
}

func (s *Simulator) validate(ops []*circuit.Operation, ms []*circuit.Measurement) error {
	if s.modes < 1 {
		return qerr.Device("%s needs at least one mode, got %d", Name, s.modes)
	}
	for _, op := range ops {
		if op.Model() != circuit.ModelCV {
			return qerr.Device("%s does not support operation %s", Name, op.Name())
		}
		if err := s.checkModes(op.Wires()); err != nil {
			return err
		}
	}
	for _, m := range ms {
		switch m.ReturnType() {
		case circuit.Expectation, circuit.Variance:
		default:
			return qerr.Device("%s does not support %s measurements", Name, m.ReturnType())
		}
		o, ok := m.Observable().(*obs.Named)
		if !ok || o.Model() != circuit.ModelCV {
			return qerr.Device("%s does not support observable %s", Name, m.Observable().Name())
		}
		if err := s.checkModes(o.Wires()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) checkModes(wires []int) error {
	for _, w := range wires {
		if w < 0 || w >= s.modes {
			return qerr.Device("mode %d is outside the %d-mode register of %s", w, s.modes, Name)
		}
	}
	return nil
}

// apply updates μ ← Sμ + d and V ← S V Sᵀ.
func (s *Simulator) apply(op *circuit.Operation) {
	local, shift := op.Heisenberg()
	modes := op.Wires()
	n := 2 * s.modes

	index := func(i int) int { return 2*modes[i/2] + i%2 }

	sym := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		sym.Set(i, i, 1)
	}
	for i, row := range local {
		for j, v := range row {
			sym.Set(index(i), index(j), v)
		}
	}

	var means mat.VecDense
	means.MulVec(sym, s.means)
	for i, d := range shift {
		means.SetVec(index(i), means.AtVec(index(i))+d)
	}
	s.means = &means

	var tmp, cov mat.Dense
	tmp.Mul(sym, s.cov)
	cov.Mul(&tmp, sym.T())
	s.cov = &cov
}

// quadratures returns the local means and covariance of one mode.
func (s *Simulator) quadratures(mode int) (*mat.VecDense, *mat.Dense) {
	i := 2 * mode
	mu := mat.NewVecDense(2, []float64{s.means.AtVec(i), s.means.AtVec(i + 1)})
	v := mat.NewDense(2, 2, []float64{
		s.cov.At(i, i), s.cov.At(i, i+1),
		s.cov.At(i+1, i), s.cov.At(i+1, i+1),
	})
	return mu, v
}

func (s *Simulator) expval(o *obs.Named) float64 {
	i := 2 * o.Wire()
	switch o.Name() {
	case "X":
		return s.means.AtVec(i)
	case "P":
		return s.means.AtVec(i + 1)
	default: // NumberOperator
		mu, v := s.quadratures(o.Wire())
		return (mat.Trace(v)+mat.Dot(mu, mu))/(2*Hbar) - 0.5
	}
}

func (s *Simulator) variance(o *obs.Named) float64 {
	i := 2 * o.Wire()
	switch o.Name() {
	case "X":
		return s.cov.At(i, i)
	case "P":
		return s.cov.At(i+1, i+1)
	default: // NumberOperator
		mu, v := s.quadratures(o.Wire())
		var vv mat.Dense
		vv.Mul(v, v)
		var vmu mat.VecDense
		vmu.MulVec(v, mu)
		return (mat.Trace(&vv)+2*mat.Dot(mu, &vmu))/(2*Hbar*Hbar) - 0.25
	}
}
