// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package qaoa builds observables for the maximum-weighted-cycle problem.
//
// Each directed edge of a graph is mapped to one wire. The loss Hamiltonian
// weighs every selected edge by the logarithm of its weight, and the cycle
// mixer moves only between edge selections that form cycles:
//
//	g := qaoa.NewGraph()
//	g.AddWeightedEdge(0, 1, 0.5)
//	g.AddWeightedEdge(1, 0, 2.0)
//	loss, err := qaoa.LossHamiltonian(g)
package qaoa

import (
	"gonum.org/v1/gonum/graph"

	"github.com/born-ml/qtape/circuit"
	"github.com/born-ml/qtape/circuit/obs"
	"github.com/born-ml/qtape/internal/qaoa"
)

// Graph is a directed graph with float edge attributes.
type Graph = qaoa.Graph

// Edge is a directed edge.
type Edge = qaoa.Edge

// WeightAttr is the edge attribute read by LossHamiltonian.
const WeightAttr = qaoa.WeightAttr

// Errors returned by LossHamiltonian.
var (
	ErrSelfLoop      = qaoa.ErrSelfLoop
	ErrMissingWeight = qaoa.ErrMissingWeight
	ErrWeight        = qaoa.ErrWeight
)

// NewGraph creates an empty graph.
func NewGraph() *Graph { return qaoa.NewGraph() }

// CompleteDirected returns the complete directed graph on n nodes.
func CompleteDirected(n int) *Graph { return qaoa.CompleteDirected(n) }

// FromGonum converts a gonum directed graph, copying weights of weighted
// graphs.
func FromGonum(g graph.Directed) *Graph { return qaoa.FromGonum(g) }

// EdgesToWires maps each edge to its wire.
func EdgesToWires(g *Graph) map[Edge]int { return qaoa.EdgesToWires(g) }

// WiresToEdges maps each wire to its edge.
func WiresToEdges(g *Graph) map[int]Edge { return qaoa.WiresToEdges(g) }

// LossHamiltonian returns Σ ln(w_e) Z_e over the edges of g.
func LossHamiltonian(g *Graph) (*obs.Hamiltonian, error) { return qaoa.LossHamiltonian(g) }

// CycleMixer returns the cycle-preserving mixer Hamiltonian of g.
func CycleMixer(g *Graph) (*obs.Hamiltonian, error) { return qaoa.CycleMixer(g) }

// Matrix returns the dense matrix of h on nWires wires.
func Matrix(h *obs.Hamiltonian, nWires int) (circuit.Matrix, error) { return qaoa.Matrix(h, nWires) }
