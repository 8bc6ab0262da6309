package circuit

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"strconv"
	"strings"
)

// Model names the execution model an operation or observable belongs to.
type Model string

// Execution models.
const (
	ModelQubit Model = "qubit"
	ModelCV    Model = "cv"
)

// gateDef describes one gate family.
type gateDef struct {
	name      string
	numWires  int
	numParams int
	model     Model

	// matrix returns the local unitary (qubit gates).
	matrix func(p []float64) Matrix

	// heisenberg returns the local symplectic matrix over (x0, p0, x1, p1, ...)
	// and the phase-space displacement (CV gates).
	heisenberg func(p []float64) ([][]float64, []float64)

	// derivative returns ∂U/∂p[i] (qubit gates with parameters).
	derivative func(p []float64, i int) Matrix

	// twoTerm marks gates whose expectation values obey
	// ∂f/∂θ = [f(θ+π/2) − f(θ−π/2)] / 2 for every parameter.
	twoTerm bool
}

var gateDefs = map[string]*gateDef{}

func register(d *gateDef) {
	gateDefs[d.name] = d
}

// Gates returns the registered gate names in sorted order.
func Gates() []string {
	names := make([]string, 0, len(gateDefs))
	for n := range gateDefs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Operation is a gate with its target wires and parameters.
//
// Structure (name, wires, arity) is fixed at construction. Parameter values
// may be rebound in place by the owning tape via SetParam.
type Operation struct {
	name   string
	wires  []int
	params []float64
	def    *gateDef
}

// NewOperation builds an operation by gate name without queuing it.
func NewOperation(name string, wires []int, params ...float64) (*Operation, error) {
	def, ok := gateDefs[name]
	if !ok {
		return nil, fmt.Errorf("unknown gate %q", name)
	}
	if len(wires) != def.numWires {
		return nil, fmt.Errorf("%s acts on %d wire(s), got %d", name, def.numWires, len(wires))
	}
	if len(params) != def.numParams {
		return nil, fmt.Errorf("%s takes %d parameter(s), got %d", name, def.numParams, len(params))
	}
	seen := make(map[int]bool, len(wires))
	for _, w := range wires {
		if w < 0 {
			return nil, fmt.Errorf("%s: negative wire %d", name, w)
		}
		if seen[w] {
			return nil, fmt.Errorf("%s: duplicate wire %d", name, w)
		}
		seen[w] = true
	}
	return &Operation{
		name:   name,
		wires:  append([]int(nil), wires...),
		params: append([]float64(nil), params...),
		def:    def,
	}, nil
}

// Apply builds an operation by gate name and queues it on q.
func Apply(q *Queue, name string, wires []int, params ...float64) (*Operation, error) {
	op, err := NewOperation(name, wires, params...)
	if err != nil {
		return nil, err
	}
	q.appendOp(op)
	return op, nil
}

func mustApply(q *Queue, name string, wires []int, params ...float64) *Operation {
	op, err := Apply(q, name, wires, params...)
	if err != nil {
		panic("circuit: " + err.Error())
	}
	return op
}

// Name returns the gate name.
func (o *Operation) Name() string { return o.name }

// Wires returns a copy of the target wires.
func (o *Operation) Wires() []int { return append([]int(nil), o.wires...) }

// NumParams returns the number of parameter slots.
func (o *Operation) NumParams() int { return len(o.params) }

// Params returns a copy of the parameter values.
func (o *Operation) Params() []float64 { return append([]float64(nil), o.params...) }

// Param returns parameter i.
func (o *Operation) Param(i int) float64 { return o.params[i] }

// SetParam rebinds parameter i. Only the tape owning the operation should
// call it.
func (o *Operation) SetParam(i int, v float64) { o.params[i] = v }

// Model returns the execution model of the gate.
func (o *Operation) Model() Model { return o.def.model }

// HasShiftRule reports whether every parameter of the gate can be
// differentiated with the two-term parameter-shift rule.
func (o *Operation) HasShiftRule() bool { return o.def.twoTerm }

// Matrix returns the local unitary of a qubit gate, or nil for CV gates.
func (o *Operation) Matrix() Matrix {
	if o.def.matrix == nil {
		return nil
	}
	return o.def.matrix(o.params)
}

// MatrixAt returns the local unitary with parameter i replaced by v.
func (o *Operation) MatrixAt(i int, v float64) Matrix {
	p := o.Params()
	p[i] = v
	return o.def.matrix(p)
}

// Derivative returns ∂U/∂θ_i of a parametrized qubit gate, or nil when the
// gate has no closed-form derivative.
func (o *Operation) Derivative(i int) Matrix {
	if o.def.derivative == nil {
		return nil
	}
	return o.def.derivative(o.params, i)
}

// Heisenberg returns the local symplectic matrix and displacement of a CV
// gate, or nils for qubit gates.
func (o *Operation) Heisenberg() ([][]float64, []float64) {
	if o.def.heisenberg == nil {
		return nil, nil
	}
	return o.def.heisenberg(o.params)
}

// String renders the operation as Name(params, wires=[...]).
func (o *Operation) String() string {
	var b strings.Builder
	b.WriteString(o.name)
	b.WriteByte('(')
	for _, p := range o.params {
		b.WriteString(strconv.FormatFloat(p, 'g', 4, 64))
		b.WriteString(", ")
	}
	b.WriteString("wires=")
	b.WriteString(fmt.Sprint(o.wires))
	b.WriteByte(')')
	return b.String()
}

func init() {
	fixed := func(name string, wires int, m Matrix) {
		register(&gateDef{name: name, numWires: wires, model: ModelQubit,
			matrix: func([]float64) Matrix { return m }})
	}
	r2 := complex(1/math.Sqrt2, 0)

	fixed("Identity", 1, Identity(2))
	fixed("Hadamard", 1, Matrix{{r2, r2}, {r2, -r2}})
	fixed("PauliX", 1, Matrix{{0, 1}, {1, 0}})
	fixed("PauliY", 1, Matrix{{0, -1i}, {1i, 0}})
	fixed("PauliZ", 1, Matrix{{1, 0}, {0, -1}})
	fixed("S", 1, Matrix{{1, 0}, {0, 1i}})
	fixed("T", 1, Matrix{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}})
	fixed("CNOT", 2, Matrix{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 0, 1}, {0, 0, 1, 0}})
	fixed("CZ", 2, Matrix{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, -1}})
	fixed("SWAP", 2, Matrix{{1, 0, 0, 0}, {0, 0, 1, 0}, {0, 1, 0, 0}, {0, 0, 0, 1}})

	// Every parameter of a rotation enters as exp(−iθσ/2), so
	// ∂U/∂θ = U(θ+π)/2.
	rot := func(name string, params int, m func(p []float64) Matrix) {
		register(&gateDef{name: name, numWires: 1, numParams: params, model: ModelQubit,
			matrix: m, twoTerm: true,
			derivative: func(p []float64, i int) Matrix {
				q := append([]float64(nil), p...)
				q[i] += math.Pi
				return m(q).Scale(0.5)
			}})
	}
	rot("RX", 1, func(p []float64) Matrix {
		c, s := math.Cos(p[0]/2), math.Sin(p[0]/2)
		return Matrix{{complex(c, 0), complex(0, -s)}, {complex(0, -s), complex(c, 0)}}
	})
	rot("RY", 1, func(p []float64) Matrix {
		c, s := math.Cos(p[0]/2), math.Sin(p[0]/2)
		return Matrix{{complex(c, 0), complex(-s, 0)}, {complex(s, 0), complex(c, 0)}}
	})
	rot("RZ", 1, func(p []float64) Matrix {
		return Matrix{{cmplx.Exp(complex(0, -p[0]/2)), 0}, {0, cmplx.Exp(complex(0, p[0]/2))}}
	})
	register(&gateDef{name: "PhaseShift", numWires: 1, numParams: 1, model: ModelQubit, twoTerm: true,
		matrix: func(p []float64) Matrix {
			return Matrix{{1, 0}, {0, cmplx.Exp(complex(0, p[0]))}}
		},
		derivative: func(p []float64, _ int) Matrix {
			return Matrix{{0, 0}, {0, 1i * cmplx.Exp(complex(0, p[0]))}}
		}})
	rot("Rot", 3, func(p []float64) Matrix {
		phi, theta, omega := p[0], p[1], p[2]
		c, s := complex(math.Cos(theta/2), 0), complex(math.Sin(theta/2), 0)
		return Matrix{
			{cmplx.Exp(complex(0, -(phi+omega)/2)) * c, -cmplx.Exp(complex(0, (phi-omega)/2)) * s},
			{cmplx.Exp(complex(0, -(phi-omega)/2)) * s, cmplx.Exp(complex(0, (phi+omega)/2)) * c},
		}
	})

	cv := func(name string, wires, params int, h func(p []float64) ([][]float64, []float64)) {
		register(&gateDef{name: name, numWires: wires, numParams: params, model: ModelCV, heisenberg: h})
	}
	// ħ = 2 throughout, so the vacuum covariance is the identity.
	cv("Displacement", 1, 2, func(p []float64) ([][]float64, []float64) {
		r, phi := p[0], p[1]
		return [][]float64{{1, 0}, {0, 1}}, []float64{2 * r * math.Cos(phi), 2 * r * math.Sin(phi)}
	})
	cv("Rotation", 1, 1, func(p []float64) ([][]float64, []float64) {
		c, s := math.Cos(p[0]), math.Sin(p[0])
		return [][]float64{{c, -s}, {s, c}}, nil
	})
	cv("Squeezing", 1, 2, func(p []float64) ([][]float64, []float64) {
		ch, sh := math.Cosh(p[0]), math.Sinh(p[0])
		cp, sp := math.Cos(p[1]), math.Sin(p[1])
		return [][]float64{{ch - cp*sh, -sp * sh}, {-sp * sh, ch + cp*sh}}, nil
	})
	cv("Beamsplitter", 2, 2, func(p []float64) ([][]float64, []float64) {
		c, s := math.Cos(p[0]), math.Sin(p[0])
		cp, sp := math.Cos(p[1]), math.Sin(p[1])
		return [][]float64{
			{c, 0, -s * cp, -s * sp},
			{0, c, s * sp, -s * cp},
			{s * cp, -s * sp, c, 0},
			{s * sp, s * cp, 0, c},
		}, nil
	})
}
