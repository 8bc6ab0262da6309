package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/qtape/internal/circuit/obs"
	"github.com/born-ml/qtape/internal/config"
	"github.com/born-ml/qtape/internal/qaoa"
)

// MaxCycleOptions holds flags for the maxcycle command.
type MaxCycleOptions struct {
	*RootOptions
	Nodes  int
	Graph  string
	Weight float64
	Mixer  bool
}

// WireEdge is one entry of the wire-to-edge map.
type WireEdge struct {
	Wire int `json:"wire"`
	From int `json:"from"`
	To   int `json:"to"`
}

// Term is one Hamiltonian term.
type Term struct {
	Coeff      float64 `json:"coeff"`
	Observable string  `json:"observable"`
}

// MaxCycleResult is the outcome of maxcycle.
type MaxCycleResult struct {
	Wires       []WireEdge `json:"wires"`
	Hamiltonian string     `json:"hamiltonian"` // "loss" | "mixer"
	Terms       []Term     `json:"terms"`
}

func (r MaxCycleResult) String() string {
	var b strings.Builder
	b.WriteString("wire  edge\n")
	for _, w := range r.Wires {
		fmt.Fprintf(&b, "%-4d  (%d, %d)\n", w.Wire, w.From, w.To)
	}
	fmt.Fprintf(&b, "\n%s hamiltonian (%d terms)", r.Hamiltonian, len(r.Terms))
	for _, t := range r.Terms {
		fmt.Fprintf(&b, "\n  %10s  %s", formatFloat(t.Coeff), t.Observable)
	}
	return b.String()
}

// NewMaxCycleCommand creates the maxcycle command.
func NewMaxCycleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MaxCycleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "maxcycle",
		Short: "Build maximum-weighted-cycle observables for a graph",
		Long: `Map the edges of a directed graph to wires and print the loss
Hamiltonian (or, with --mixer, the cycle mixer) of the maximum-weighted-cycle
problem.

The graph is either the complete directed graph on --nodes nodes, every edge
weighted --weight, or a YAML graph file.

Examples:
  qtape maxcycle --nodes 3 --weight 1.5
  qtape maxcycle --graph graph.yaml --mixer`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaxCycle(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Nodes, "nodes", 0, "use the complete directed graph on n nodes")
	cmd.Flags().StringVar(&opts.Graph, "graph", "", "path to a YAML graph file")
	cmd.Flags().Float64Var(&opts.Weight, "weight", 0, "edge weight for --nodes graphs (0 leaves edges unweighted)")
	cmd.Flags().BoolVar(&opts.Mixer, "mixer", false, "print the cycle mixer instead of the loss Hamiltonian")
	cmd.MarkFlagsMutuallyExclusive("nodes", "graph")
	cmd.MarkFlagsOneRequired("nodes", "graph")

	return cmd
}

func runMaxCycle(opts *MaxCycleOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	g, err := buildGraph(opts)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGraph, "failed to load graph", err)
	}
	f.VerboseLog("Graph has %d node(s) and %d edge(s)", len(g.Nodes()), g.NumEdges())

	var (
		h    *obs.Hamiltonian
		kind = "loss"
	)
	if opts.Mixer {
		kind = "mixer"
		h, err = qaoa.CycleMixer(g)
	} else {
		h, err = qaoa.LossHamiltonian(g)
	}
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGraph, "failed to build "+kind+" hamiltonian", err)
	}

	r := MaxCycleResult{Hamiltonian: kind, Wires: []WireEdge{}, Terms: []Term{}}
	wires := qaoa.WiresToEdges(g)
	for w := 0; w < len(wires); w++ {
		e := wires[w]
		r.Wires = append(r.Wires, WireEdge{Wire: w, From: e.From, To: e.To})
	}
	coeffs := h.Coeffs()
	for i, t := range h.Terms() {
		r.Terms = append(r.Terms, Term{Coeff: coeffs[i], Observable: t.String()})
	}
	return f.Success(r)
}

func buildGraph(opts *MaxCycleOptions) (*qaoa.Graph, error) {
	if opts.Graph != "" {
		gf, err := config.LoadGraph(opts.Graph)
		if err != nil {
			return nil, err
		}
		return gf.Build(), nil
	}
	if opts.Nodes < 2 {
		return nil, fmt.Errorf("--nodes must be at least 2, got %d", opts.Nodes)
	}
	g := qaoa.CompleteDirected(opts.Nodes)
	if opts.Weight != 0 {
		for _, e := range g.Edges() {
			if err := g.SetAttr(e, qaoa.WeightAttr, opts.Weight); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
