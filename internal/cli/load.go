package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/probelab/scenic/internal/runner"
	"github.com/probelab/scenic/internal/scenario"
)

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <scenario-file>",
		Short: "Validate a scenario file and store it",
		Long: `Validate a YAML scenario file and persist the ordered scenario set
into the store. The cursor and result log are left untouched; use
'scenic clear' to discard previous results.

Example:
  scenic load --db ./scenic.db scenarios/orders.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runLoad(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := scenario.LoadFile(path)
	if err != nil {
		_ = formatter.Error("E001", "scenario file rejected", err.Error())
		return WrapExitError(ExitFailure, "scenario file rejected", err)
	}

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := newLogger(opts, cmd)
	r := runner.New(st, nil, &runner.SlogReporter{Logger: logger}, runner.WithLogger(logger))
	if err := r.StoreScenarios(cmd.Context(), doc.Scenarios); err != nil {
		return WrapExitError(ExitCommandError, "failed to store scenarios", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"name":      doc.Name,
			"scenarios": len(doc.Scenarios),
		})
	}
	return formatter.Success(fmt.Sprintf("Loaded %q: %d scenarios", doc.Name, len(doc.Scenarios)))
}
