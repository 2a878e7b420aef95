package cli

import (
	"github.com/spf13/cobra"

	"github.com/probelab/scenic/internal/runner"
)

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard accumulated results and reset the cursor",
		Long: `Discard the result log and the cursor. The stored scenario set is
left untouched, so the next run starts fresh over the same scenarios.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(rootOpts, cmd)
		},
	}

	return cmd
}

func runClear(opts *RootOptions, cmd *cobra.Command) error {
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

	if err := r.Clear(cmd.Context()); err != nil {
		return WrapExitError(ExitCommandError, "failed to clear results", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{"cleared": true})
	}
	return formatter.Success("Results and cursor cleared.")
}
