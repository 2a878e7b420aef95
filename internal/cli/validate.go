package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/probelab/scenic/internal/scenario"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario-file>...",
		Short: "Validate scenario files without storing them",
		Long: `Run the full validation pipeline over one or more YAML scenario
files: strict decode, structural checks, document schema validation,
and compilation of any response schemas and check expressions.

Example:
  scenic validate scenarios/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	type fileResult struct {
		Path      string `json:"path"`
		Valid     bool   `json:"valid"`
		Scenarios int    `json:"scenarios,omitempty"`
		Error     string `json:"error,omitempty"`
	}

	results := make([]fileResult, 0, len(paths))
	failures := 0
	for _, path := range paths {
		doc, err := scenario.LoadFile(path)
		if err != nil {
			failures++
			results = append(results, fileResult{Path: path, Error: err.Error()})
			if opts.Format != "json" {
				fmt.Fprintf(formatter.Writer, "INVALID %s: %v\n", path, err)
			}
			continue
		}
		results = append(results, fileResult{Path: path, Valid: true, Scenarios: len(doc.Scenarios)})
		if opts.Format != "json" {
			fmt.Fprintf(formatter.Writer, "OK      %s: %q, %d scenarios\n", path, doc.Name, len(doc.Scenarios))
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(map[string]any{
			"files":   results,
			"invalid": failures,
		}); err != nil {
			return err
		}
	}

	if failures > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d files invalid", failures, len(paths)))
	}
	return nil
}
