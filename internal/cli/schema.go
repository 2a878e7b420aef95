package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/probelab/scenic/internal/scenario"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the scenario file JSON Schema",
		Long: `Print the JSON Schema (draft 2020-12) describing the scenario file
format, for editor integration and external validation.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := scenario.ExportJSONSchema()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to export schema", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	return cmd
}
