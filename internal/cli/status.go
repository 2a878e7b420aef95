package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/probelab/scenic/internal/runner"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show cursor position and remaining scenarios",
		Long: `Show how far the stored scenario set has progressed: total scenarios,
current cursor position, remaining count, and whether the set is
complete.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}

	return cmd
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := newLogger(opts, cmd)
	r := runner.New(st, nil, &runner.SlogReporter{Logger: logger}, runner.WithLogger(logger))

	ctx := cmd.Context()
	set := r.LoadScenarios(ctx)
	cursor := r.Cursor(ctx)
	remaining := len(set) - cursor
	if remaining < 0 {
		remaining = 0
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"scenarios": len(set),
			"cursor":    cursor,
			"remaining": remaining,
			"complete":  cursor >= len(set),
			"results":   len(r.Results(ctx)),
		})
	}

	fmt.Fprintf(formatter.Writer, "Scenarios: %d\n", len(set))
	fmt.Fprintf(formatter.Writer, "Cursor:    %d\n", cursor)
	fmt.Fprintf(formatter.Writer, "Remaining: %d\n", remaining)
	if cursor >= len(set) {
		fmt.Fprintln(formatter.Writer, "Status:    complete")
	} else if next := r.Current(ctx); next != nil {
		fmt.Fprintf(formatter.Writer, "Next:      %s\n", next.Description)
	}
	return nil
}
