package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/probelab/scenic/internal/scenario"
	"github.com/probelab/scenic/internal/store"
	"github.com/probelab/scenic/internal/transport"
)

// Keys names the store slots a Runner uses. Scenario data, cursor, and
// result log live under separate keys so Clear can drop run state while
// leaving the scenario set reusable.
type Keys struct {
	Scenarios string
	Cursor    string
	Results   string
}

// DefaultKeys derives the conventional key layout from a namespace.
func DefaultKeys(namespace string) Keys {
	return Keys{
		Scenarios: namespace + ".scenarios",
		Cursor:    namespace + ".cursor",
		Results:   namespace + ".results",
	}
}

// Runner executes scenario sets against an HTTP endpoint and aggregates
// outcomes. Construct with New; the zero value is not usable.
type Runner struct {
	store    store.Store
	dispatch transport.Dispatcher
	reporter Reporter
	clock    Clock
	tokens   TokenGenerator
	logger   *slog.Logger
	keys     Keys

	// runToken correlates the result entries recorded by this runner
	// instance across steps.
	runToken string
}

// Option configures optional Runner collaborators.
type Option func(*Runner)

// WithClock overrides the wall clock. Tests use a fixed clock for
// deterministic timestamps.
func WithClock(c Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithTokenGenerator overrides the run token generator.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(r *Runner) { r.tokens = g }
}

// WithLogger sets the diagnostic logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithKeys overrides the store key layout.
func WithKeys(k Keys) Option {
	return func(r *Runner) { r.keys = k }
}

// New creates a Runner over the given store, dispatcher, and assertion
// reporter.
func New(st store.Store, d transport.Dispatcher, rep Reporter, opts ...Option) *Runner {
	r := &Runner{
		store:    st,
		dispatch: d,
		reporter: rep,
		clock:    systemClock{},
		tokens:   UUIDv7Generator{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		keys:     DefaultKeys("scenic"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.runToken = r.tokens.Generate()
	return r
}

// LoadScenarios reads the scenario set from the store.
//
// Absent or malformed data degrades to an empty set with a logged
// warning, never a hard failure: callers must treat an empty result as
// ambiguous between "no data" and "parse error".
func (r *Runner) LoadScenarios(ctx context.Context) []scenario.Scenario {
	text, ok, err := r.store.Get(ctx, r.keys.Scenarios)
	if err != nil {
		r.logger.Warn("reading scenario set failed", "key", r.keys.Scenarios, "error", err)
		return nil
	}
	if !ok || text == "" {
		r.logger.Debug("no scenario set stored", "key", r.keys.Scenarios)
		return nil
	}

	set, err := scenario.DecodeSet(text)
	if err != nil {
		r.logger.Warn("stored scenario set is malformed", "key", r.keys.Scenarios, "error", err)
		return nil
	}
	return set
}

// StoreScenarios serializes the set and writes it to the store.
// Serialization failure is diagnostic-only; nothing is partially written.
func (r *Runner) StoreScenarios(ctx context.Context, set []scenario.Scenario) error {
	text, err := scenario.EncodeSet(set)
	if err != nil {
		r.logger.Warn("encoding scenario set failed", "error", err)
		return nil
	}
	if err := r.store.Set(ctx, r.keys.Scenarios, text); err != nil {
		return fmt.Errorf("store scenario set: %w", err)
	}
	return nil
}

// Clear unsets the result log and the cursor. The scenario set slot is
// untouched: a fresh run can reuse the same input data.
func (r *Runner) Clear(ctx context.Context) error {
	if err := r.store.Unset(ctx, r.keys.Results); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	if err := r.store.Unset(ctx, r.keys.Cursor); err != nil {
		return fmt.Errorf("clear cursor: %w", err)
	}
	return nil
}
