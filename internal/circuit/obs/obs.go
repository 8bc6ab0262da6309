// Package obs defines the observables that measurements act on: named
// single-wire observables, Hermitian matrices, tensor products and
// Hamiltonians.
package obs

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/born-ml/qtape/internal/circuit"
)

// Named is a fixed single-wire observable such as PauliZ or the CV
// quadrature X.
type Named struct {
	name   string
	wire   int
	model  circuit.Model
	matrix circuit.Matrix
}

var r2 = complex(1/math.Sqrt2, 0)

var namedMatrices = map[string]circuit.Matrix{
	"Identity": circuit.Identity(2),
	"PauliX":   {{0, 1}, {1, 0}},
	"PauliY":   {{0, -1i}, {1i, 0}},
	"PauliZ":   {{1, 0}, {0, -1}},
	"Hadamard": {{r2, r2}, {r2, -r2}},
}

func qubit(name string, wire int) *Named {
	return &Named{name: name, wire: wire, model: circuit.ModelQubit, matrix: namedMatrices[name]}
}

func cv(name string, mode int) *Named {
	return &Named{name: name, wire: mode, model: circuit.ModelCV}
}

// PauliX returns the Pauli-X observable on wire.
func PauliX(wire int) *Named { return qubit("PauliX", wire) }

// PauliY returns the Pauli-Y observable on wire.
func PauliY(wire int) *Named { return qubit("PauliY", wire) }

// PauliZ returns the Pauli-Z observable on wire.
func PauliZ(wire int) *Named { return qubit("PauliZ", wire) }

// Hadamard returns the Hadamard observable on wire.
func Hadamard(wire int) *Named { return qubit("Hadamard", wire) }

// Identity returns the identity observable on wire.
func Identity(wire int) *Named { return qubit("Identity", wire) }

// X returns the position quadrature of a CV mode.
func X(mode int) *Named { return cv("X", mode) }

// P returns the momentum quadrature of a CV mode.
func P(mode int) *Named { return cv("P", mode) }

// NumberOperator returns the photon-number observable of a CV mode.
func NumberOperator(mode int) *Named { return cv("NumberOperator", mode) }

// ByName builds a named observable from its name, for config-driven circuits.
func ByName(name string, wire int) (*Named, error) {
	if _, ok := namedMatrices[name]; ok {
		return qubit(name, wire), nil
	}
	switch name {
	case "X", "P", "NumberOperator":
		return cv(name, wire), nil
	}
	return nil, fmt.Errorf("unknown observable %q", name)
}

// Name returns the observable name.
func (n *Named) Name() string { return n.name }

// Wire returns the single wire the observable acts on.
func (n *Named) Wire() int { return n.wire }

// Wires returns []int{Wire()}.
func (n *Named) Wires() []int { return []int{n.wire} }

// Model returns the execution model.
func (n *Named) Model() circuit.Model { return n.model }

// Matrix returns the 2×2 matrix of a qubit observable.
func (n *Named) Matrix() (circuit.Matrix, error) {
	if n.matrix == nil {
		return nil, fmt.Errorf("%s has no finite matrix representation", n.name)
	}
	return n.matrix, nil
}

func (n *Named) String() string {
	return fmt.Sprintf("%s(wires=[%d])", n.name, n.wire)
}

// Hermitian is an arbitrary Hermitian matrix observable.
type Hermitian struct {
	matrix circuit.Matrix
	wires  []int
}

// NewHermitian validates m against the wire count and Hermiticity.
func NewHermitian(m circuit.Matrix, wires ...int) (*Hermitian, error) {
	if len(wires) == 0 {
		return nil, errors.New("hermitian observable needs at least one wire")
	}
	if m.Dim() != 1<<len(wires) {
		return nil, fmt.Errorf("hermitian matrix of dimension %d does not act on %d wire(s)", m.Dim(), len(wires))
	}
	if !m.IsHermitian(1e-10) {
		return nil, errors.New("observable matrix is not Hermitian")
	}
	return &Hermitian{matrix: m, wires: append([]int(nil), wires...)}, nil
}

// Name returns "Hermitian".
func (h *Hermitian) Name() string { return "Hermitian" }

// Wires returns the wires the matrix acts on.
func (h *Hermitian) Wires() []int { return append([]int(nil), h.wires...) }

// Model returns circuit.ModelQubit.
func (h *Hermitian) Model() circuit.Model { return circuit.ModelQubit }

// Matrix returns the matrix.
func (h *Hermitian) Matrix() (circuit.Matrix, error) { return h.matrix, nil }

func (h *Hermitian) String() string {
	return fmt.Sprintf("Hermitian(wires=%v)", h.wires)
}

// Tensor is a product of observables on disjoint wires.
type Tensor struct {
	factors []circuit.Observable
}

// Prod builds the tensor product of observables acting on disjoint wires.
func Prod(factors ...circuit.Observable) (*Tensor, error) {
	if len(factors) == 0 {
		return nil, errors.New("tensor product needs at least one factor")
	}
	seen := map[int]bool{}
	for _, f := range factors {
		if f.Model() != circuit.ModelQubit {
			return nil, fmt.Errorf("tensor factor %s is not a qubit observable", f)
		}
		for _, w := range f.Wires() {
			if seen[w] {
				return nil, fmt.Errorf("tensor factors overlap on wire %d", w)
			}
			seen[w] = true
		}
	}
	return &Tensor{factors: append([]circuit.Observable(nil), factors...)}, nil
}

// MustProd is Prod for statically known factors.
func MustProd(factors ...circuit.Observable) *Tensor {
	t, err := Prod(factors...)
	if err != nil {
		panic("obs: " + err.Error())
	}
	return t
}

// Name returns "Tensor".
func (t *Tensor) Name() string { return "Tensor" }

// Factors returns the product factors.
func (t *Tensor) Factors() []circuit.Observable {
	return append([]circuit.Observable(nil), t.factors...)
}

// Wires returns the concatenated factor wires.
func (t *Tensor) Wires() []int {
	var ws []int
	for _, f := range t.factors {
		ws = append(ws, f.Wires()...)
	}
	return ws
}

// Model returns circuit.ModelQubit.
func (t *Tensor) Model() circuit.Model { return circuit.ModelQubit }

// Matrix returns the Kronecker product of the factor matrices.
func (t *Tensor) Matrix() (circuit.Matrix, error) {
	var out circuit.Matrix
	for _, f := range t.factors {
		m, err := f.Matrix()
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = m
			continue
		}
		out = out.Kron(m)
	}
	return out, nil
}

func (t *Tensor) String() string {
	parts := make([]string, len(t.factors))
	for i, f := range t.factors {
		parts[i] = f.String()
	}
	return strings.Join(parts, " @ ")
}

// Hamiltonian is a real linear combination of qubit observables.
type Hamiltonian struct {
	coeffs []float64
	terms  []circuit.Observable
}

// NewHamiltonian pairs coefficients with terms.
func NewHamiltonian(coeffs []float64, terms []circuit.Observable) (*Hamiltonian, error) {
	if len(coeffs) != len(terms) {
		return nil, fmt.Errorf("hamiltonian has %d coefficient(s) for %d term(s)", len(coeffs), len(terms))
	}
	for _, t := range terms {
		if t.Model() != circuit.ModelQubit {
			return nil, fmt.Errorf("hamiltonian term %s is not a qubit observable", t)
		}
	}
	return &Hamiltonian{
		coeffs: append([]float64(nil), coeffs...),
		terms:  append([]circuit.Observable(nil), terms...),
	}, nil
}

// Add returns h + o as a new Hamiltonian.
func (h *Hamiltonian) Add(o *Hamiltonian) *Hamiltonian {
	return &Hamiltonian{
		coeffs: append(append([]float64(nil), h.coeffs...), o.coeffs...),
		terms:  append(append([]circuit.Observable(nil), h.terms...), o.terms...),
	}
}

// Coeffs returns the term coefficients.
func (h *Hamiltonian) Coeffs() []float64 { return append([]float64(nil), h.coeffs...) }

// Terms returns the term observables.
func (h *Hamiltonian) Terms() []circuit.Observable {
	return append([]circuit.Observable(nil), h.terms...)
}

// Len returns the number of terms.
func (h *Hamiltonian) Len() int { return len(h.terms) }

// Name returns "Hamiltonian".
func (h *Hamiltonian) Name() string { return "Hamiltonian" }

// Wires returns the union of term wires in first-seen order.
func (h *Hamiltonian) Wires() []int {
	seen := map[int]bool{}
	var ws []int
	for _, t := range h.terms {
		for _, w := range t.Wires() {
			if !seen[w] {
				seen[w] = true
				ws = append(ws, w)
			}
		}
	}
	return ws
}

// Model returns circuit.ModelQubit.
func (h *Hamiltonian) Model() circuit.Model { return circuit.ModelQubit }

// Matrix returns the dense matrix over Wires().
func (h *Hamiltonian) Matrix() (circuit.Matrix, error) {
	wires := h.Wires()
	out := circuit.NewMatrix(1 << len(wires))
	for i, t := range h.terms {
		m, err := t.Matrix()
		if err != nil {
			return nil, err
		}
		big, err := circuit.Expand(m, t.Wires(), wires)
		if err != nil {
			return nil, err
		}
		out = out.Add(big.Scale(complex(h.coeffs[i], 0)))
	}
	return out, nil
}

// String renders one term per line, as in "  (0.5) [Z0]\n+ (-1) [X1 Z2]".
func (h *Hamiltonian) String() string {
	var b strings.Builder
	for i, t := range h.terms {
		if i == 0 {
			b.WriteString("  ")
		} else {
			b.WriteString("\n+ ")
		}
		b.WriteString("(")
		b.WriteString(strconv.FormatFloat(h.coeffs[i], 'g', -1, 64))
		b.WriteString(") [")
		b.WriteString(shortName(t))
		b.WriteString("]")
	}
	return b.String()
}

func shortName(o circuit.Observable) string {
	switch v := o.(type) {
	case *Named:
		letter := map[string]string{"PauliX": "X", "PauliY": "Y", "PauliZ": "Z", "Identity": "I", "Hadamard": "H"}[v.name]
		if letter == "" {
			letter = v.name
		}
		return letter + strconv.Itoa(v.wire)
	case *Tensor:
		parts := make([]string, len(v.factors))
		for i, f := range v.factors {
			parts[i] = shortName(f)
		}
		return strings.Join(parts, " ")
	default:
		return o.String()
	}
}

// Square returns A·A as a Hermitian observable over A's wires. It is used to
// differentiate variances through ⟨A²⟩.
func Square(a circuit.Observable) (*Hermitian, error) {
	m, err := a.Matrix()
	if err != nil {
		return nil, err
	}
	return &Hermitian{matrix: m.Mul(m), wires: a.Wires()}, nil
}
