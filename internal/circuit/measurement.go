package circuit

import "fmt"

// Observable is a measurable quantity over a set of wires.
type Observable interface {
	// Name returns the observable name, e.g. "PauliZ" or "Hamiltonian".
	Name() string
	// Wires returns the wires the observable acts on.
	Wires() []int
	// Model returns the execution model the observable belongs to.
	Model() Model
	// Matrix returns the observable over Wires(). CV observables have no
	// finite matrix and return an error.
	Matrix() (Matrix, error)
	String() string
}

// ReturnType is the kind of statistic a measurement requests.
type ReturnType int

// Measurement return types.
const (
	Expectation ReturnType = iota + 1
	Variance
	Sampled
	Probability
)

// String returns the short name used in drawings and configs.
func (r ReturnType) String() string {
	switch r {
	case Expectation:
		return "expval"
	case Variance:
		return "var"
	case Sampled:
		return "sample"
	case Probability:
		return "probs"
	default:
		return fmt.Sprintf("ReturnType(%d)", int(r))
	}
}

// ParseReturnType maps a short name back to its ReturnType.
func ParseReturnType(s string) (ReturnType, error) {
	for _, r := range []ReturnType{Expectation, Variance, Sampled, Probability} {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown measurement %q", s)
}

// Measurement is a terminal request for a statistic of an observable, or of
// the computational-basis distribution over a set of wires.
type Measurement struct {
	ret   ReturnType
	obs   Observable
	wires []int
}

// Expval queues an expectation-value measurement.
func Expval(q *Queue, obs Observable) *Measurement {
	return measure(q, Expectation, obs)
}

// Var queues a variance measurement.
func Var(q *Queue, obs Observable) *Measurement {
	return measure(q, Variance, obs)
}

// Sample queues a sampling measurement; one output per device shot.
func Sample(q *Queue, obs Observable) *Measurement {
	return measure(q, Sampled, obs)
}

// Probs queues a computational-basis probability measurement over wires.
func Probs(q *Queue, wires ...int) *Measurement {
	m := &Measurement{ret: Probability, wires: append([]int(nil), wires...)}
	q.appendMeasurement(m)
	return m
}

// NewMeasurement builds an unqueued measurement of obs, for callers that
// rewrite measurement lists (for example variance differentiation).
func NewMeasurement(ret ReturnType, obs Observable) *Measurement {
	return &Measurement{ret: ret, obs: obs, wires: obs.Wires()}
}

func measure(q *Queue, ret ReturnType, obs Observable) *Measurement {
	m := NewMeasurement(ret, obs)
	q.appendMeasurement(m)
	return m
}

// ReturnType returns the requested statistic.
func (m *Measurement) ReturnType() ReturnType { return m.ret }

// Observable returns the measured observable; nil for probabilities.
func (m *Measurement) Observable() Observable { return m.obs }

// Wires returns the measured wires.
func (m *Measurement) Wires() []int { return append([]int(nil), m.wires...) }

// Size returns how many result entries the measurement contributes on a
// device taking the given number of shots.
func (m *Measurement) Size(shots int) int {
	switch m.ret {
	case Probability:
		return 1 << len(m.wires)
	case Sampled:
		return shots
	default:
		return 1
	}
}

// String renders the measurement as ret(observable).
func (m *Measurement) String() string {
	if m.ret == Probability {
		return fmt.Sprintf("probs(wires=%v)", m.wires)
	}
	return fmt.Sprintf("%s(%s)", m.ret, m.obs)
}
