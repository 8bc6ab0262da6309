package cli

import (
	"github.com/spf13/cobra"
)

// Version is the qtape release, overridden at link time with
// -ldflags "-X github.com/born-ml/qtape/internal/cli.Version=...".
var Version = "v0.1.0-dev"

// VersionResult is the outcome of version.
type VersionResult struct {
	Version string `json:"version"`
}

func (r VersionResult) String() string {
	return "qtape " + r.Version
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Show version",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.formatter(cmd).Success(VersionResult{Version: Version})
		},
	}
}
