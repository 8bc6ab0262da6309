// Package qaoa builds the observables of the maximum-weighted-cycle problem.
//
// Every edge of a directed graph is assigned one wire; a computational basis
// state then selects a subset of edges. LossHamiltonian scores a selection by
// the logarithm of its edge weight product and CycleMixer transitions only
// between selections that form cycles.
package qaoa

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/circuit/obs"
)

// Errors returned by LossHamiltonian.
var (
	ErrSelfLoop      = errors.New("graph contains self-loops")
	ErrMissingWeight = errors.New("edge does not contain weight data")
	ErrWeight        = errors.New("edge weight must be positive")
)

// EdgesToWires maps each edge to its position in g.Edges().
func EdgesToWires(g *Graph) map[Edge]int {
	edges := g.Edges()
	m := make(map[Edge]int, len(edges))
	for i, e := range edges {
		m[e] = i
	}
	return m
}

// WiresToEdges is the inverse of EdgesToWires.
func WiresToEdges(g *Graph) map[int]Edge {
	edges := g.Edges()
	m := make(map[int]Edge, len(edges))
	for i, e := range edges {
		m[i] = e
	}
	return m
}

// LossHamiltonian returns H = Σ ln(c_ij) Z_ij, one PauliZ term per edge on
// its mapped wire. Minimising ⟨H⟩ maximises the product of selected weights.
func LossHamiltonian(g *Graph) (*obs.Hamiltonian, error) {
	wires := EdgesToWires(g)
	edges := g.Edges()
	coeffs := make([]float64, 0, len(edges))
	terms := make([]circuit.Observable, 0, len(edges))

	for _, e := range edges {
		if e.From == e.To {
			return nil, fmt.Errorf("%w: edge %s", ErrSelfLoop, e)
		}
		w, ok := g.Attr(e, WeightAttr)
		if !ok {
			return nil, fmt.Errorf("%w: edge %s", ErrMissingWeight, e)
		}
		if w <= 0 {
			return nil, fmt.Errorf("%w: edge %s has weight %g", ErrWeight, e, w)
		}
		coeffs = append(coeffs, math.Log(w))
		terms = append(terms, obs.PauliZ(wires[e]))
	}
	return obs.NewHamiltonian(coeffs, terms)
}

// CycleMixer returns the mixer Hamiltonian that preserves the set of valid
// cycles:
//
//	¼ Σ_(i,j) Σ_k [X_ij X_ik X_kj + Y_ij Y_ik X_kj + Y_ij X_ik Y_kj − X_ij Y_ik Y_kj]
//
// where k ranges over nodes other than i and j with (i,k) and (k,j) in the
// graph.
func CycleMixer(g *Graph) (*obs.Hamiltonian, error) {
	h, err := obs.NewHamiltonian(nil, nil)
	if err != nil {
		return nil, err
	}
	wires := EdgesToWires(g)
	for _, e := range g.Edges() {
		part, err := cycleMixerOnEdge(g, wires, e)
		if err != nil {
			return nil, err
		}
		h = h.Add(part)
	}
	return h, nil
}

func cycleMixerOnEdge(g *Graph, wires map[Edge]int, e Edge) (*obs.Hamiltonian, error) {
	var coeffs []float64
	var terms []circuit.Observable

	for _, k := range g.Nodes() {
		out := Edge{From: e.From, To: k}
		in := Edge{From: k, To: e.To}
		if k == e.From || k == e.To || !g.HasEdge(out) || !g.HasEdge(in) {
			continue
		}
		w, wo, wi := wires[e], wires[out], wires[in]
		for _, p := range [][3]func(int) *obs.Named{
			{obs.PauliX, obs.PauliX, obs.PauliX},
			{obs.PauliY, obs.PauliY, obs.PauliX},
			{obs.PauliY, obs.PauliX, obs.PauliY},
			{obs.PauliX, obs.PauliY, obs.PauliY},
		} {
			t, err := obs.Prod(p[0](w), p[1](wo), p[2](wi))
			if err != nil {
				return nil, err
			}
			terms = append(terms, t)
		}
		coeffs = append(coeffs, 0.25, 0.25, 0.25, -0.25)
	}
	return obs.NewHamiltonian(coeffs, terms)
}

// Matrix returns the dense matrix of h on wires 0..nWires-1 in the standard
// basis, wire 0 being the most significant bit.
func Matrix(h *obs.Hamiltonian, nWires int) (circuit.Matrix, error) {
	all := make([]int, nWires)
	for i := range all {
		all[i] = i
	}
	out := circuit.NewMatrix(1 << nWires)
	coeffs := h.Coeffs()
	for i, t := range h.Terms() {
		for _, w := range t.Wires() {
			if w < 0 || w >= nWires {
				return nil, fmt.Errorf("term %s acts on wire %d outside 0..%d", t, w, nWires-1)
			}
		}
		m, err := t.Matrix()
		if err != nil {
			return nil, err
		}
		big, err := circuit.Expand(m, t.Wires(), all)
		if err != nil {
			return nil, err
		}
		out = out.Add(big.Scale(complex(coeffs[i], 0)))
	}
	return out, nil
}
