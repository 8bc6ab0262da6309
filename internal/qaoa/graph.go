package qaoa

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
)

// WeightAttr is the edge attribute read by LossHamiltonian.
const WeightAttr = "weight"

// Edge is a directed edge between two nodes.
type Edge struct {
	From, To int
}

func (e Edge) String() string {
	return fmt.Sprintf("(%d, %d)", e.From, e.To)
}

// Graph is a directed graph with numeric edge attributes.
//
// Edges are enumerated node by node in node insertion order, and each
// node's outgoing edges in insertion order. This enumeration defines the
// edge/wire mapping.
type Graph struct {
	nodes []int
	seen  map[int]bool
	out   map[int][]int
	attrs map[Edge]map[string]float64
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		seen:  make(map[int]bool),
		out:   make(map[int][]int),
		attrs: make(map[Edge]map[string]float64),
	}
}

// AddNode adds n if it is not present.
func (g *Graph) AddNode(n int) {
	if g.seen[n] {
		return
	}
	g.seen[n] = true
	g.nodes = append(g.nodes, n)
}

// AddEdge adds the edge from → to, adding missing nodes. Adding an existing
// edge keeps its position and attributes.
func (g *Graph) AddEdge(from, to int) Edge {
	e := Edge{From: from, To: to}
	g.AddNode(from)
	g.AddNode(to)
	if _, ok := g.attrs[e]; !ok {
		g.out[from] = append(g.out[from], to)
		g.attrs[e] = make(map[string]float64)
	}
	return e
}

// AddWeightedEdge adds the edge from → to with the given weight.
func (g *Graph) AddWeightedEdge(from, to int, w float64) Edge {
	e := g.AddEdge(from, to)
	g.attrs[e][WeightAttr] = w
	return e
}

// SetAttr sets an attribute on an existing edge.
func (g *Graph) SetAttr(e Edge, key string, v float64) error {
	a, ok := g.attrs[e]
	if !ok {
		return fmt.Errorf("edge %s not in graph", e)
	}
	a[key] = v
	return nil
}

// Attr returns an edge attribute.
func (g *Graph) Attr(e Edge, key string) (float64, bool) {
	v, ok := g.attrs[e][key]
	return v, ok
}

// HasEdge reports whether e is in the graph.
func (g *Graph) HasEdge(e Edge) bool {
	_, ok := g.attrs[e]
	return ok
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []int {
	return append([]int(nil), g.nodes...)
}

// Edges returns the edges in enumeration order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.attrs))
	for _, n := range g.nodes {
		for _, to := range g.out[n] {
			edges = append(edges, Edge{From: n, To: to})
		}
	}
	return edges
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int {
	return len(g.attrs)
}

// CompleteDirected returns the complete directed graph on nodes 0..n-1, with
// edges (i, j) for every i ≠ j in lexicographic order.
func CompleteDirected(n int) *Graph {
	g := NewGraph()
	for i := 0; i < n; i++ {
		g.AddNode(i)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				g.AddEdge(i, j)
			}
		}
	}
	return g
}

// FromGonum converts a gonum directed graph. Nodes and each node's
// successors are visited in ascending ID order. Edge weights are copied when
// src implements graph.Weighted.
func FromGonum(src graph.Directed) *Graph {
	ids := sortedIDs(src.Nodes())
	weighted, _ := src.(graph.Weighted)

	g := NewGraph()
	for _, id := range ids {
		g.AddNode(int(id))
	}
	for _, u := range ids {
		for _, v := range sortedIDs(src.From(u)) {
			e := g.AddEdge(int(u), int(v))
			if weighted == nil {
				continue
			}
			if w, ok := weighted.Weight(u, v); ok {
				g.attrs[e][WeightAttr] = w
			}
		}
	}
	return g
}

func sortedIDs(it graph.Nodes) []int64 {
	var ids []int64
	for it.Next() {
		ids = append(ids, it.Node().ID())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
