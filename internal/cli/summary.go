package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/probelab/scenic/internal/runner"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize accumulated scenario results",
		Long: `Summarize the accumulated result log: totals, success rate, mean
response time, and failure details. With no results the summary carries
the "no results" message.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(rootOpts, cmd)
		},
	}

	return cmd
}

func runSummary(opts *RootOptions, cmd *cobra.Command) error {
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

	s := r.Summarize(cmd.Context())

	if opts.Format == "json" {
		return formatter.Success(s)
	}

	if s.Message != "" {
		fmt.Fprintln(formatter.Writer, s.Message)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "Total:        %d\n", s.TotalTests)
	fmt.Fprintf(formatter.Writer, "Passed:       %d\n", s.PassedTests)
	fmt.Fprintf(formatter.Writer, "Failed:       %d\n", s.FailedTests)
	fmt.Fprintf(formatter.Writer, "Success rate: %s\n", s.SuccessRate)
	fmt.Fprintf(formatter.Writer, "Avg response: %dms\n", s.AvgResponseTime)
	for _, f := range s.Failures {
		fmt.Fprintf(formatter.Writer, "  FAIL %s: %s\n", f.Description, f.Error)
	}
	return nil
}
