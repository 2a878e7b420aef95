package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/probelab/scenic/internal/store"
	"github.com/probelab/scenic/internal/transport"
)

// openStore opens the persistence backend selected by the --db flag.
// An empty path yields an in-memory store, which does not survive the
// process and so cannot resume stepped runs.
func openStore(opts *RootOptions) (store.Store, error) {
	if opts.Database == "" {
		return store.NewMemory(), nil
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// newLogger builds the command logger, writing diagnostics to stderr so
// JSON output on stdout stays parseable.
func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
}

// templateFlags collects the request template flags shared by run-style
// commands.
type templateFlags struct {
	URL     string
	Method  string
	Headers []string
	Timeout time.Duration
}

func (tf *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&tf.URL, "url", "", "target endpoint URL (required)")
	cmd.Flags().StringVar(&tf.Method, "method", "POST", "HTTP method for scenario requests")
	cmd.Flags().StringArrayVar(&tf.Headers, "header", nil, "request header as 'Name: value' (repeatable)")
	cmd.Flags().DurationVar(&tf.Timeout, "timeout", 30*time.Second, "per-request timeout")
	_ = cmd.MarkFlagRequired("url")
}

// template builds the request template from the parsed flags.
func (tf *templateFlags) template() (transport.Template, error) {
	tmpl := transport.Template{
		Method: tf.Method,
		URL:    tf.URL,
	}
	if len(tf.Headers) > 0 {
		tmpl.Header = make(map[string]string, len(tf.Headers))
		for _, raw := range tf.Headers {
			name, value, found := strings.Cut(raw, ":")
			if !found || strings.TrimSpace(name) == "" {
				return transport.Template{}, fmt.Errorf("malformed header %q: want 'Name: value'", raw)
			}
			tmpl.Header[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}
	return tmpl, nil
}
