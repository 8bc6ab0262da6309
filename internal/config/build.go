package config

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/born-ml/qtape/internal/backend/gaussian"
	"github.com/born-ml/qtape/internal/backend/qubit"
	"github.com/born-ml/qtape/internal/circuit"
	"github.com/born-ml/qtape/internal/circuit/obs"
	"github.com/born-ml/qtape/internal/device"
	"github.com/born-ml/qtape/internal/qaoa"
	"github.com/born-ml/qtape/internal/qnode"
)

// NewDevice constructs the configured backend.
func (c *Circuit) NewDevice() (device.Device, error) {
	d := c.Device
	switch d.Name {
	case qubit.Name, "":
		var opts []qubit.Option
		if d.Shots > 0 {
			opts = append(opts, qubit.WithShots(d.Shots))
		}
		if d.Seed != nil {
			opts = append(opts, qubit.WithSeed(*d.Seed))
		}
		if d.Backprop {
			opts = append(opts, qubit.WithBackprop())
		}
		if d.Adjoint {
			opts = append(opts, qubit.WithAdjointJacobian())
		}
		return qubit.New(d.Wires, opts...), nil
	case gaussian.Name:
		if d.Shots > 0 || d.Backprop || d.Adjoint {
			return nil, fmt.Errorf("device %s supports neither shots, backprop nor adjoint", d.Name)
		}
		return gaussian.New(d.Wires), nil
	default:
		return nil, fmt.Errorf("unknown device %q", d.Name)
	}
}

// QNodeOptions returns the interface and differentiation options.
func (c *Circuit) QNodeOptions(logger *log.Logger) []qnode.Option {
	opts := []qnode.Option{
		qnode.WithInterface(c.Interface),
		qnode.WithDiffMethod(c.DiffMethod),
		qnode.WithLogger(logger),
	}
	if c.Step > 0 {
		opts = append(opts, qnode.WithStep(c.Step))
	}
	if c.Order > 0 {
		opts = append(opts, qnode.WithOrder(c.Order))
	}
	return opts
}

// Func returns the construction function described by the circuit.
// Observables are resolved eagerly so that name errors surface here rather
// than on every call.
func (c *Circuit) Func() (circuit.Func, error) {
	observables := make([]circuit.Observable, len(c.Measurements))
	for i, m := range c.Measurements {
		if m.Type == "probs" {
			continue
		}
		o, err := m.observable()
		if err != nil {
			return nil, fmt.Errorf("measurements[%d]: %w", i, err)
		}
		observables[i] = o
	}
	for i, op := range c.Ops {
		if _, err := circuit.NewOperation(op.Gate, op.Wires, make([]float64, len(op.Params))...); err != nil {
			return nil, fmt.Errorf("ops[%d]: %w", i, err)
		}
	}

	ops := c.Ops
	ms := c.Measurements
	return func(q *circuit.Queue, args ...float64) (any, error) {
		for i, op := range ops {
			params := make([]float64, len(op.Params))
			for k, p := range op.Params {
				if p.Arg < 0 {
					params[k] = p.Value
					continue
				}
				if p.Arg >= len(args) {
					return nil, fmt.Errorf("ops[%d]: argument $%d not supplied", i, p.Arg)
				}
				params[k] = args[p.Arg]
			}
			if _, err := circuit.Apply(q, op.Gate, op.Wires, params...); err != nil {
				return nil, fmt.Errorf("ops[%d]: %w", i, err)
			}
		}

		out := make([]*circuit.Measurement, len(ms))
		for i, m := range ms {
			switch m.Type {
			case "expval":
				out[i] = circuit.Expval(q, observables[i])
			case "var":
				out[i] = circuit.Var(q, observables[i])
			case "sample":
				out[i] = circuit.Sample(q, observables[i])
			case "probs":
				out[i] = circuit.Probs(q, m.Wires...)
			default:
				return nil, fmt.Errorf("measurements[%d]: unknown type %q", i, m.Type)
			}
		}
		return out, nil
	}, nil
}

func (m Measurement) observable() (circuit.Observable, error) {
	if len(m.Observable) == 1 && m.Observable[0] == "Hermitian" {
		return m.hermitian()
	}
	if len(m.Observable) == 1 && len(m.Wires) == 1 {
		o, err := obs.ByName(m.Observable[0], m.Wires[0])
		if err != nil {
			return nil, err
		}
		return o, nil
	}

	names := m.Observable
	if len(names) == 1 {
		names = make([]string, len(m.Wires))
		for i := range names {
			names[i] = m.Observable[0]
		}
	}
	factors := make([]circuit.Observable, len(names))
	for i, n := range names {
		f, err := obs.ByName(n, m.Wires[i])
		if err != nil {
			return nil, err
		}
		factors[i] = f
	}
	t, err := obs.Prod(factors...)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (m Measurement) hermitian() (circuit.Observable, error) {
	mat := circuit.NewMatrix(len(m.Matrix))
	for i, row := range m.Matrix {
		if len(row) != len(m.Matrix) {
			return nil, fmt.Errorf("hermitian matrix row %d has %d entries, want %d", i, len(row), len(m.Matrix))
		}
		for j, v := range row {
			mat[i][j] = complex(v, 0)
		}
	}
	h, err := obs.NewHermitian(mat, m.Wires...)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Build converts the graph file into a qaoa graph. Listed nodes are added
// first, in file order.
func (g *Graph) Build() *qaoa.Graph {
	out := qaoa.NewGraph()
	for _, n := range g.Nodes {
		out.AddNode(n)
	}
	for _, e := range g.Edges {
		if e.Weight != nil {
			out.AddWeightedEdge(e.From, e.To, *e.Weight)
			continue
		}
		out.AddEdge(e.From, e.To)
	}
	return out
}
