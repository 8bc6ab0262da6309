// Package qubit implements default.qubit, a statevector simulator.
//
// The simulator applies each gate's local unitary to a dense 2^n amplitude
// vector. With WithBackprop or WithAdjointJacobian it additionally records
// the gates on an autodiff.GradientTape and differentiates expectation
// values, variances and probabilities in one reverse sweep per output.
package qubit

import (
	"math"

	"github.com/born-ml/qtape/internal/autodiff"
	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/circuit/obs"
	"github.com/born-ml/qtape/internal/device"
	"github.com/born-ml/qtape/internal/parallel"
	"github.com/born-ml/qtape/internal/qerr"
)

// Device names and the passthrough interface of the backprop variant.
const (
	Name              = "default.qubit"
	BackpropName      = "default.qubit.autodiff"
	PassthruInterface = "autodiff"
)

// MaxWires bounds the register; the state holds 2^wires amplitudes.
const MaxWires = 30

// Verify that Simulator implements the device interfaces.
var (
	_ device.Device           = (*Simulator)(nil)
	_ device.JacobianProvider = (*Simulator)(nil)
	_ device.Backpropagator   = (*Simulator)(nil)
)

// Option configures a Simulator.
type Option func(*Simulator)

// WithShots sets the number of shots used by sample measurements.
// Expectations, variances and probabilities are always exact.
func WithShots(shots int) Option {
	return func(s *Simulator) { s.shots = shots }
}

// WithSeed fixes the sampling seed. A negative seed means random.
func WithSeed(seed int64) Option {
	return func(s *Simulator) { s.seed = seed }
}

// WithBackprop exposes differentiation through the simulator as the
// passthrough "autodiff" interface.
func WithBackprop() Option {
	return func(s *Simulator) { s.backprop = true }
}

// WithAdjointJacobian declares a native jacobian computed by the adjoint
// method.
func WithAdjointJacobian() Option {
	return func(s *Simulator) { s.adjoint = true }
}

// WithParallel sets the amplitude-loop parallelism.
func WithParallel(cfg parallel.Config) Option {
	return func(s *Simulator) { s.cfg = cfg }
}

// Simulator is the default.qubit statevector device.
type Simulator struct {
	wires    int
	shots    int
	seed     int64
	backprop bool
	adjoint  bool
	cfg      parallel.Config
	sampler  *sampler
	state    []complex128
	grad     *autodiff.GradientTape
}

// New creates a simulator on the given number of wires. A wire count outside
// [1, MaxWires] is reported as a device error by every execution.
func New(wires int, opts ...Option) *Simulator {
	s := &Simulator{
		wires: wires,
		seed:  -1,
		cfg:   parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sampler = newSampler(s.seed)
	return s
}

// Name returns default.qubit, or default.qubit.autodiff with backprop.
func (s *Simulator) Name() string {
	if s.backprop {
		return BackpropName
	}
	return Name
}

// Wires returns the number of qubits.
func (s *Simulator) Wires() int {
	return s.wires
}

// Shots returns the configured number of shots.
func (s *Simulator) Shots() int {
	return s.shots
}

// Capabilities returns the qubit model plus the optional jacobian and
// passthrough capabilities.
func (s *Simulator) Capabilities() device.Capabilities {
	caps := device.Capabilities{
		Model:               circuit.ModelQubit,
		ProvidesJacobian:    s.adjoint,
		SupportsFiniteShots: true,
		ReturnsProbs:        true,
	}
	if s.backprop {
		caps.PassthruInterface = PassthruInterface
	}
	return caps
}

// State returns a copy of the final state of the last execution.
func (s *Simulator) State() []complex128 {
	return append([]complex128(nil), s.state...)
}

// Execute runs the circuit and evaluates the measurements in order.
func (s *Simulator) Execute(ops []*circuit.Operation, ms []*circuit.Measurement) ([]float64, error) {
	if err := s.validate(ops, ms); err != nil {
		return nil, err
	}
	state := s.evolve(ops, nil, nil)
	s.state = state

	var out []float64
	for _, m := range ms {
		res, err := s.measure(state, m)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

// Jacobian computes the adjoint jacobian; requires WithAdjointJacobian.
func (s *Simulator) Jacobian(ops []*circuit.Operation, ms []*circuit.Measurement, params []device.ParamRef) ([][]float64, error) {
	if !s.adjoint {
		return nil, qerr.Device("%s does not provide a native jacobian", s.Name())
	}
	return s.differentiate(ops, ms, params)
}

// BackpropJacobian differentiates through the simulation; requires
// WithBackprop.
func (s *Simulator) BackpropJacobian(ops []*circuit.Operation, ms []*circuit.Measurement, params []device.ParamRef) ([][]float64, error) {
	if !s.backprop {
		return nil, qerr.Device("%s does not support backpropagation", s.Name())
	}
	return s.differentiate(ops, ms, params)
}

func (s *Simulator) validate(ops []*circuit.Operation, ms []*circuit.Measurement) error {
	if s.wires < 1 || s.wires > MaxWires {
		return qerr.Device("%s supports 1 to %d wires, got %d", s.Name(), MaxWires, s.wires)
	}
	for _, op := range ops {
		if op.Model() != circuit.ModelQubit {
			return qerr.Device("%s does not support operation %s", s.Name(), op.Name())
		}
		if err := s.checkWires(op.Wires()); err != nil {
			return err
		}
	}
	for _, m := range ms {
		if o := m.Observable(); o != nil && o.Model() != circuit.ModelQubit {
			return qerr.Device("%s does not support observable %s", s.Name(), o.Name())
		}
		if err := s.checkWires(m.Wires()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) checkWires(wires []int) error {
	for _, w := range wires {
		if w < 0 || w >= s.wires {
			return qerr.Device("wire %d is outside the %d-wire register of %s", w, s.wires, s.Name())
		}
	}
	return nil
}

// evolve applies ops to |0…0⟩. When tape is non-nil every gate is recorded
// with the tracked parameters that belong to it.
func (s *Simulator) evolve(ops []*circuit.Operation, tape *autodiff.GradientTape, params []device.ParamRef) []complex128 {
	state := zeroState(s.wires)
	for i, op := range ops {
		m := op.Matrix()
		applyMatrix(state, s.wires, m, op.Wires(), s.cfg)
		if tape == nil || !tape.IsRecording() {
			continue
		}
		rec := &gateRecord{sim: s, op: op, dagger: m.Dagger()}
		for col, ref := range params {
			if ref.Op == i {
				rec.tracked = append(rec.tracked, trackedParam{column: col, index: ref.Index})
			}
		}
		tape.Record(rec)
	}
	return state
}

func (s *Simulator) measure(state []complex128, m *circuit.Measurement) ([]float64, error) {
	switch m.ReturnType() {
	case circuit.Expectation:
		ex, err := s.expval(state, m.Observable())
		if err != nil {
			return nil, err
		}
		return []float64{ex}, nil
	case circuit.Variance:
		v, err := s.variance(state, m.Observable())
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	case circuit.Probability:
		return probabilities(state, s.wires, m.Wires()), nil
	case circuit.Sampled:
		return s.sample(state, m.Observable())
	default:
		return nil, qerr.Device("unsupported measurement %s", m.ReturnType())
	}
}

func (s *Simulator) expval(state []complex128, o circuit.Observable) (float64, error) {
	applied, err := s.observe(state, o)
	if err != nil {
		return 0, err
	}
	return real(inner(state, applied)), nil
}

func (s *Simulator) variance(state []complex128, o circuit.Observable) (float64, error) {
	applied, err := s.observe(state, o)
	if err != nil {
		return 0, err
	}
	ex := real(inner(state, applied))
	sq := real(inner(applied, applied))
	return sq - ex*ex, nil
}

// observe returns O|state⟩ as a new vector.
func (s *Simulator) observe(state []complex128, o circuit.Observable) ([]complex128, error) {
	switch v := o.(type) {
	case *obs.Hamiltonian:
		out := make([]complex128, len(state))
		coeffs := v.Coeffs()
		for i, term := range v.Terms() {
			t, err := s.observe(state, term)
			if err != nil {
				return nil, err
			}
			c := complex(coeffs[i], 0)
			for j := range out {
				out[j] += c * t[j]
			}
		}
		return out, nil
	case *obs.Tensor:
		out := state
		for _, f := range v.Factors() {
			next, err := s.observe(out, f)
			if err != nil {
				return nil, err
			}
			out = next
		}
		if len(v.Factors()) == 0 {
			out = append([]complex128(nil), state...)
		}
		return out, nil
	default:
		m, err := o.Matrix()
		if err != nil {
			return nil, qerr.Device("%s: %v", s.Name(), err)
		}
		out := append([]complex128(nil), state...)
		applyMatrix(out, s.wires, m, o.Wires(), s.cfg)
		return out, nil
	}
}

// sample rotates the state into the eigenbasis of a Pauli word and draws
// eigenvalues.
func (s *Simulator) sample(state []complex128, o circuit.Observable) ([]float64, error) {
	if s.shots <= 0 {
		return nil, qerr.Device("%s: sample measurements require a finite number of shots", s.Name())
	}
	word, err := pauliWord(o)
	if err != nil {
		return nil, err
	}

	rotated := append([]complex128(nil), state...)
	for _, f := range word {
		if m := diagonalizing(f.Name()); m != nil {
			applyMatrix(rotated, s.wires, m, f.Wires(), s.cfg)
		}
	}

	all := make([]int, s.wires)
	for i := range all {
		all[i] = i
	}
	outcomes := s.sampler.draw(probabilities(rotated, s.wires, all), s.shots)

	out := make([]float64, len(outcomes))
	for i, idx := range outcomes {
		ev := 1.0
		for _, f := range word {
			if f.Name() == "Identity" {
				continue
			}
			if idx>>(s.wires-1-f.Wire())&1 == 1 {
				ev = -ev
			}
		}
		out[i] = ev
	}
	return out, nil
}

func pauliWord(o circuit.Observable) ([]*obs.Named, error) {
	switch v := o.(type) {
	case *obs.Named:
		return []*obs.Named{v}, nil
	case *obs.Tensor:
		var word []*obs.Named
		for _, f := range v.Factors() {
			n, ok := f.(*obs.Named)
			if !ok {
				return nil, qerr.Device("sampling is only supported for Pauli-word observables, got factor %s", f.Name())
			}
			word = append(word, n)
		}
		return word, nil
	default:
		return nil, qerr.Device("sampling is only supported for Pauli-word observables, got %s", o.Name())
	}
}

// diagonalizing returns the rotation into the eigenbasis of a named
// observable, or nil when it is already diagonal.
func diagonalizing(name string) circuit.Matrix {
	r2 := complex(1/math.Sqrt2, 0)
	h := circuit.Matrix{{r2, r2}, {r2, -r2}}
	switch name {
	case "PauliX":
		return h
	case "PauliY":
		return h.Mul(circuit.Matrix{{1, 0}, {0, -1i}})
	case "Hadamard":
		c, s := math.Cos(-math.Pi/8), math.Sin(-math.Pi/8)
		return circuit.Matrix{{complex(c, 0), complex(-s, 0)}, {complex(s, 0), complex(c, 0)}}
	default:
		return nil
	}
}
