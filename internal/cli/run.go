package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/born-ml/qtape/internal/config"
	"github.com/born-ml/qtape/internal/qnode"
	"github.com/born-ml/qtape/internal/store"
	"github.com/born-ml/qtape/internal/tape"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Params   []float64
	Draw     bool
	Database string
}

// RunResult is the outcome of run and jacobian.
type RunResult struct {
	Circuit   string      `json:"circuit,omitempty"`
	TapeID    string      `json:"tape_id"`
	Device    string      `json:"device"`
	Tape      string      `json:"tape"`
	Method    string      `json:"method"`
	Interface string      `json:"interface"`
	Params    []float64   `json:"params"`
	Results   []float64   `json:"results"`
	Jacobian  [][]float64 `json:"jacobian,omitempty"`
	Drawing   string      `json:"drawing,omitempty"`
	RunID     string      `json:"run_id,omitempty"`
	Seq       int64       `json:"seq,omitempty"`
}

func (r RunResult) String() string {
	var b strings.Builder
	if r.Drawing != "" {
		b.WriteString(r.Drawing)
		b.WriteString("\n")
	}
	if r.Circuit != "" {
		fmt.Fprintf(&b, "circuit:   %s\n", r.Circuit)
	}
	fmt.Fprintf(&b, "device:    %s\n", r.Device)
	fmt.Fprintf(&b, "tape:      %s\n", r.Tape)
	fmt.Fprintf(&b, "method:    %s\n", r.Method)
	fmt.Fprintf(&b, "interface: %s\n", r.Interface)
	fmt.Fprintf(&b, "params:    %s\n", formatVector(r.Params))
	fmt.Fprintf(&b, "results:   %s", formatVector(r.Results))
	if r.Jacobian != nil {
		cols := 0
		if len(r.Jacobian) > 0 {
			cols = len(r.Jacobian[0])
		}
		fmt.Fprintf(&b, "\njacobian:  %dx%d", len(r.Jacobian), cols)
		for _, row := range r.Jacobian {
			fmt.Fprintf(&b, "\n  %s", formatVector(row))
		}
	}
	if r.Seq > 0 {
		fmt.Fprintf(&b, "\nstored:    run %d", r.Seq)
	}
	return b.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <circuit.yaml>",
		Short: "Execute a circuit and print its results",
		Long: `Record the circuit described by a YAML file onto a fresh tape and
execute it on the configured device.

Examples:
  qtape run circuit.yaml
  qtape run circuit.yaml --params 0.1,0.2 --draw
  qtape run circuit.yaml --db runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args[0], cmd, false)
		},
	}

	addCircuitFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.Draw, "draw", false, "print the recorded circuit")

	return cmd
}

func addCircuitFlags(cmd *cobra.Command, opts *RunOptions) {
	cmd.Flags().Float64SliceVar(&opts.Params, "params", nil, "circuit arguments, overriding the file's params")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
}

// loadedCircuit is a circuit file bound to a QNode.
type loadedCircuit struct {
	circuit *config.Circuit
	qnode   *qnode.QNode
	params  []float64
}

func loadCircuit(opts *RunOptions, path string, f *OutputFormatter, logger *log.Logger) (*loadedCircuit, error) {
	c, err := config.LoadCircuit(path)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "failed to load circuit", err)
	}
	params := c.Params
	if opts.Params != nil {
		params = opts.Params
	}
	f.VerboseLog("Loaded %s: %d op(s), %d measurement(s)", path, len(c.Ops), len(c.Measurements))

	fn, err := c.Func()
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "invalid circuit", err)
	}
	dev, err := c.NewDevice()
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "invalid device", err)
	}
	qn, err := qnode.New(fn, dev, c.QNodeOptions(logger)...)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeQNode, "failed to create qnode", err)
	}
	return &loadedCircuit{circuit: c, qnode: qn, params: params}, nil
}

func (l *loadedCircuit) result(results []float64, jac *tape.Jacobian) RunResult {
	desc := l.qnode.Descriptor()
	r := RunResult{
		Circuit:   l.circuit.Name,
		TapeID:    l.qnode.Tape().ID(),
		Device:    l.qnode.Device().Name(),
		Tape:      desc.Kind.String(),
		Method:    desc.Method.String(),
		Interface: desc.Interface,
		Params:    append([]float64{}, l.params...),
		Results:   results,
	}
	if jac != nil {
		r.Jacobian = jac.Values()
	}
	return r
}

func runRun(opts *RunOptions, path string, cmd *cobra.Command, withJacobian bool) error {
	f := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	l, err := loadCircuit(opts, path, f, logger)
	if err != nil {
		return err
	}

	results, err := l.qnode.Call(l.params...)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeExec, "failed to execute circuit", err)
	}

	var jac *tape.Jacobian
	if withJacobian {
		if len(l.circuit.Trainable) > 0 {
			if err := l.qnode.Tape().SetTrainable(l.circuit.Trainable); err != nil {
				return f.Fail(ExitCommandError, ErrCodeConfig, "invalid trainable parameters", err)
			}
		}
		jac, err = l.qnode.Jacobian(l.params...)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeExec, "failed to differentiate circuit", err)
		}
	}

	r := l.result(results, jac)
	if opts.Draw {
		r.Drawing = l.qnode.Tape().Draw()
	}

	if opts.Database != "" {
		run, err := recordRun(cmd.Context(), opts.Database, r)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to record run", err)
		}
		r.RunID, r.Seq = run.ID, run.Seq
		f.VerboseLog("Recorded run %s in %s", run.ID, opts.Database)
	}

	return f.Success(r)
}

func recordRun(ctx context.Context, path string, r RunResult) (store.Run, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(path)
	if err != nil {
		return store.Run{}, err
	}
	defer st.Close()

	return st.WriteRun(ctx, store.Run{
		TapeID:    r.TapeID,
		Device:    r.Device,
		Method:    r.Method,
		Interface: r.Interface,
		Params:    r.Params,
		Results:   r.Results,
		Jacobian:  r.Jacobian,
	})
}
