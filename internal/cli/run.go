package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/probelab/scenic/internal/auth"
	"github.com/probelab/scenic/internal/runner"
	"github.com/probelab/scenic/internal/transport"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Step bool
	tmpl templateFlags

	AuthURL      string
	ClientID     string
	ClientSecret string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute stored scenarios against an endpoint",
		Long: `Execute the stored scenario set against an HTTP endpoint.

Without --step the cursor is reset and every scenario runs in order.
With --step exactly one scenario runs at the persisted cursor, then the
cursor advances; repeated invocations walk the whole set, surviving
process restarts when --db points at a SQLite file.

Example:
  scenic run --db ./scenic.db --url https://api.example.com/orders
  scenic run --db ./scenic.db --url https://api.example.com/orders --step`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, cmd)
		},
	}

	opts.tmpl.register(cmd)
	cmd.Flags().BoolVar(&opts.Step, "step", false, "execute one scenario at the cursor, then stop")
	cmd.Flags().StringVar(&opts.AuthURL, "auth-url", "", "auth endpoint for bearer token (optional)")
	cmd.Flags().StringVar(&opts.ClientID, "client-id", "", "client id for the auth endpoint")
	cmd.Flags().StringVar(&opts.ClientSecret, "client-secret", "", "client secret for the auth endpoint")

	return cmd
}

func runScenarios(opts *RunOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	tmpl, err := opts.tmpl.template()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid request template", err)
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := newLogger(opts.RootOptions, cmd)
	dispatcher := transport.NewHTTP(opts.tmpl.Timeout)
	ctx := cmd.Context()

	if opts.AuthURL != "" {
		ts := auth.NewTokenSource(auth.Config{
			URL:          opts.AuthURL,
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Leeway:       30 * time.Second,
		}, st, dispatcher, auth.WithLogger(logger))
		tmpl, err = ts.Authorize(ctx, tmpl)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to acquire auth token", err)
		}
	}

	collector := &runner.Collector{}
	r := runner.New(st, dispatcher, collector, runner.WithLogger(logger))

	if opts.Step {
		return runOneStep(r, collector, formatter, tmpl, cmd)
	}
	return runFullSet(r, collector, formatter, tmpl, cmd)
}

func runOneStep(r *runner.Runner, col *runner.Collector, formatter *OutputFormatter, tmpl transport.Template, cmd *cobra.Command) error {
	ctx := cmd.Context()
	entry, more, err := r.Step(ctx, tmpl)
	if err != nil {
		return WrapExitError(ExitCommandError, "step failed", err)
	}
	if entry == nil {
		if formatter.Format == "json" {
			return formatter.Success(map[string]any{"complete": true})
		}
		return formatter.Success("Nothing to execute: scenario set complete or empty.")
	}

	failed := renderEntries(formatter, []runner.ResultEntry{*entry}, col)
	if formatter.Format == "json" {
		if err := formatter.Success(map[string]any{
			"entry":    entry,
			"has_more": more,
		}); err != nil {
			return err
		}
	} else if more {
		fmt.Fprintln(formatter.Writer, "More scenarios remain; run again with --step to continue.")
	}

	if failed > 0 {
		return NewExitError(ExitFailure, "scenario failed")
	}
	return nil
}

func runFullSet(r *runner.Runner, col *runner.Collector, formatter *OutputFormatter, tmpl transport.Template, cmd *cobra.Command) error {
	ctx := cmd.Context()
	entries, err := r.RunAll(ctx, tmpl)
	if err != nil {
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	failed := renderEntries(formatter, entries, col)
	if formatter.Format == "json" {
		if err := formatter.Success(map[string]any{
			"entries": entries,
			"total":   len(entries),
			"failed":  failed,
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "%d scenarios, %d failed\n", len(entries), failed)
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", failed, len(entries)))
	}
	return nil
}

// renderEntries prints per-scenario outcomes in text mode and returns
// the failure count. Assertion failures beyond the status check count as
// failures for the exit code even though they do not flip entry success.
func renderEntries(formatter *OutputFormatter, entries []runner.ResultEntry, col *runner.Collector) int {
	failed := 0
	for _, entry := range entries {
		if entry.Success {
			if formatter.Format != "json" {
				fmt.Fprintf(formatter.Writer, "PASS %s (%d, %dms)\n",
					entry.Description, entry.StatusCode, entry.ResponseTime)
			}
			continue
		}
		failed++
		if formatter.Format != "json" {
			msg := ""
			if entry.Error != nil {
				msg = *entry.Error
			}
			fmt.Fprintf(formatter.Writer, "FAIL %s: %s\n", entry.Description, msg)
		}
	}

	for _, rec := range col.Failed() {
		if formatter.Format != "json" {
			fmt.Fprintf(formatter.Writer, "  assertion failed: %s: %v\n", rec.Name, rec.Err)
		}
	}
	if failed == 0 && len(col.Failed()) > 0 {
		failed = len(col.Failed())
	}
	return failed
}
