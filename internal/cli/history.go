package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/born-ml/qtape/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// HistoryResult lists recorded runs, oldest first.
type HistoryResult struct {
	Runs []store.Run `json:"runs"`
}

func (r HistoryResult) String() string {
	if len(r.Runs) == 0 {
		return "No runs recorded"
	}
	var b strings.Builder
	for i, run := range r.Runs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "#%d  %s  %s  %s/%s  results=%s",
			run.Seq, run.CreatedAt.Format(time.RFC3339), run.Device, run.Interface, run.Method,
			formatVector(run.Results))
		if run.Jacobian != nil {
			cols := 0
			if len(run.Jacobian) > 0 {
				cols = len(run.Jacobian[0])
			}
			fmt.Fprintf(&b, "  jacobian=%dx%d", len(run.Jacobian), cols)
		}
	}
	return b.String()
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List the most recent runs recorded with --db, oldest first.

Examples:
  qtape history --db runs.db
  qtape history --db runs.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of runs to show (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to list runs", err)
	}
	return f.Success(HistoryResult{Runs: runs})
}
