package cli

import (
	"github.com/spf13/cobra"
)

// NewJacobianCommand creates the jacobian command.
func NewJacobianCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "jacobian <circuit.yaml>",
		Short: "Execute a circuit and differentiate it",
		Long: `Execute the circuit described by a YAML file and compute the jacobian
of its results with respect to the trainable gate parameters.

The differentiation method comes from the file's diff_method (default
"best"). Rows follow the measurements, columns the trainable parameters.

Examples:
  qtape jacobian circuit.yaml
  qtape jacobian circuit.yaml --params 0.3,0.4 --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args[0], cmd, true)
		},
	}

	addCircuitFlags(cmd, opts)

	return cmd
}
