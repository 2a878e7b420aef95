package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/scenic/internal/scenario"
	"github.com/probelab/scenic/internal/store"
	"github.com/probelab/scenic/internal/testutil"
	"github.com/probelab/scenic/internal/transport"
)

// fakeDispatcher scripts responses per call, in order. When the script
// runs out, the last element repeats.
type fakeDispatcher struct {
	responses []*transport.Response
	errs      []error
	calls     []transport.Request
}

func (d *fakeDispatcher) Do(_ context.Context, req transport.Request) (*transport.Response, error) {
	i := len(d.calls)
	d.calls = append(d.calls, req)
	if i >= len(d.responses) {
		i = len(d.responses) - 1
	}
	if err := d.errs[i]; err != nil {
		return nil, err
	}
	return d.responses[i], nil
}

func respond(status int, body string, elapsed time.Duration) *transport.Response {
	return &transport.Response{
		StatusCode: status,
		Body:       []byte(body),
		Elapsed:    elapsed,
		Size:       int64(len(body)),
	}
}

var testInstant = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func newTestRunner(d transport.Dispatcher) (*Runner, *store.Memory, *Collector) {
	st := store.NewMemory()
	col := &Collector{}
	r := New(st, d, col,
		WithClock(testutil.NewFixedClock(testInstant)),
		WithTokenGenerator(testutil.NewFixedTokenGenerator("run-0001")),
	)
	return r, st, col
}

func threeScenarios() []scenario.Scenario {
	return []scenario.Scenario{
		{Description: "first", Input: map[string]any{"n": float64(1)}, ExpectedStatus: 200},
		{Description: "second", Input: map[string]any{"n": float64(2)}, ExpectedStatus: 200},
		{Description: "third", Input: map[string]any{"n": float64(3)}, ExpectedStatus: 200},
	}
}

func okDispatcher() *fakeDispatcher {
	return &fakeDispatcher{
		responses: []*transport.Response{respond(200, `{}`, 10*time.Millisecond)},
		errs:      []error{nil},
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRunner(okDispatcher())

	set := threeScenarios()
	require.NoError(t, r.StoreScenarios(ctx, set))

	loaded := r.LoadScenarios(ctx)
	assert.Equal(t, set, loaded, "round trip preserves content and order")
}

func TestLoadScenariosAbsentSlot(t *testing.T) {
	r, _, _ := newTestRunner(okDispatcher())
	assert.Empty(t, r.LoadScenarios(context.Background()))
}

func TestLoadScenariosMalformedDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	r, st, _ := newTestRunner(okDispatcher())

	require.NoError(t, st.Set(ctx, r.keys.Scenarios, `{broken`))
	assert.Empty(t, r.LoadScenarios(ctx), "parse error degrades to empty set, never a hard failure")
}

func TestCursorDefaultsToZero(t *testing.T) {
	r, _, _ := newTestRunner(okDispatcher())
	assert.Equal(t, 0, r.Cursor(context.Background()))
}

func TestCursorMalformedResetsToZero(t *testing.T) {
	ctx := context.Background()
	r, st, _ := newTestRunner(okDispatcher())

	for _, bad := range []string{"abc", "-3", "1.5", ""} {
		require.NoError(t, st.Set(ctx, r.keys.Cursor, bad))
		assert.Equal(t, 0, r.Cursor(ctx), "malformed cursor %q resets to 0", bad)
	}
}

func TestSetCursorRejectsNegative(t *testing.T) {
	r, _, _ := newTestRunner(okDispatcher())
	require.Error(t, r.SetCursor(context.Background(), -1))
}

func TestCursorBounds(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRunner(okDispatcher())
	set := threeScenarios()
	require.NoError(t, r.StoreScenarios(ctx, set))
	require.NoError(t, r.ResetCursor(ctx))

	// Advance from reset yields indices 1..N-1, then none on the N-th call
	s, err := r.Advance(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "second", s.Description)

	s, err = r.Advance(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "third", s.Description)

	s, err = r.Advance(ctx)
	require.NoError(t, err)
	assert.Nil(t, s, "advance past the end yields none")

	// Cursor never exceeds N; a completed set is not auto-reset
	assert.Equal(t, 2, r.Cursor(ctx))
}

func TestIdempotentReset(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRunner(okDispatcher())
	require.NoError(t, r.StoreScenarios(ctx, threeScenarios()))

	require.NoError(t, r.SetCursor(ctx, 2))
	require.NoError(t, r.ResetCursor(ctx))

	cur := r.Current(ctx)
	require.NotNil(t, cur)
	assert.Equal(t, "first", cur.Description)

	// Reset again: same answer
	require.NoError(t, r.ResetCursor(ctx))
	cur = r.Current(ctx)
	require.NotNil(t, cur)
	assert.Equal(t, "first", cur.Description)
}

func TestCurrentEmptySet(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRunner(okDispatcher())
	require.NoError(t, r.ResetCursor(ctx))
	assert.Nil(t, r.Current(ctx))
}

func TestCurrentPastEnd(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRunner(okDispatcher())
	require.NoError(t, r.StoreScenarios(ctx, threeScenarios()))
	require.NoError(t, r.SetCursor(ctx, 3))
	assert.Nil(t, r.Current(ctx), "cursor == len signals completion")
}

func TestResultCap(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRunner(okDispatcher())

	for i := 0; i < 130; i++ {
		entry := ResultEntry{
			Description: "case",
			Timestamp:   testInstant,
			StatusCode:  200 + i,
			Success:     true,
		}
		require.NoError(t, r.appendResult(ctx, entry))
	}

	log := r.Results(ctx)
	require.Len(t, log, 100, "log is capped at the most recent 100 entries")

	// The 100 most recent, in original relative order
	assert.Equal(t, 200+30, log[0].StatusCode)
	assert.Equal(t, 200+129, log[99].StatusCode)
}

func TestResultsMalformedDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	r, st, _ := newTestRunner(okDispatcher())

	require.NoError(t, st.Set(ctx, r.keys.Results, `not json`))
	assert.Empty(t, r.Results(ctx))
}

func TestTransportFailureIsolation(t *testing.T) {
	ctx := context.Background()
	d := &fakeDispatcher{
		responses: []*transport.Response{nil, respond(200, `{}`, 5*time.Millisecond)},
		errs:      []error{errors.New("connection refused"), nil},
	}
	r, _, col := newTestRunner(d)

	tmpl := transport.Template{Method: "POST", URL: "http://api.test/orders"}
	set := threeScenarios()

	// First dispatch fails: exactly one failed entry with the message
	entry, err := r.Execute(ctx, set[0], tmpl)
	require.NoError(t, err, "transport errors are recovered, not propagated")
	assert.False(t, entry.Success)
	require.NotNil(t, entry.Error)
	assert.Contains(t, *entry.Error, "connection refused")

	// The next scenario is unaffected
	entry, err = r.Execute(ctx, set[1], tmpl)
	require.NoError(t, err)
	assert.True(t, entry.Success)

	log := r.Results(ctx)
	require.Len(t, log, 2)
	assert.False(t, log[0].Success)
	assert.True(t, log[1].Success)

	// The failed dispatch surfaced as a reported assertion
	failed := col.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "first: dispatch", failed[0].Name)
}

func TestClearSemantics(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRunner(okDispatcher())

	set := threeScenarios()
	require.NoError(t, r.StoreScenarios(ctx, set))
	require.NoError(t, r.SetCursor(ctx, 2))
	require.NoError(t, r.appendResult(ctx, ResultEntry{Description: "case", Success: true}))

	require.NoError(t, r.Clear(ctx))

	assert.Empty(t, r.Results(ctx), "clear empties the result log")
	assert.Equal(t, 0, r.Cursor(ctx), "clear resets the cursor")
	assert.Equal(t, set, r.LoadScenarios(ctx), "the scenario set slot is untouched")
}

func TestStepAdvancesAndSignalsMore(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRunner(okDispatcher())
	require.NoError(t, r.StoreScenarios(ctx, threeScenarios()))
	require.NoError(t, r.ResetCursor(ctx))

	tmpl := transport.Template{Method: "POST", URL: "http://api.test"}

	entry, more, err := r.Step(ctx, tmpl)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "first", entry.Description)
	assert.True(t, more)
	assert.Equal(t, 1, r.Cursor(ctx))

	_, more, err = r.Step(ctx, tmpl)
	require.NoError(t, err)
	assert.True(t, more)

	entry, more, err = r.Step(ctx, tmpl)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "third", entry.Description)
	assert.False(t, more, "last scenario signals no further work")

	entry, more, err = r.Step(ctx, tmpl)
	require.NoError(t, err)
	assert.Nil(t, entry, "a completed run yields no entry")
	assert.False(t, more)
}

func TestStepResumesAcrossRunnerInstances(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	tmpl := transport.Template{Method: "POST", URL: "http://api.test"}

	first := New(st, okDispatcher(), &Collector{},
		WithClock(testutil.NewFixedClock(testInstant)))
	require.NoError(t, first.StoreScenarios(ctx, threeScenarios()))
	require.NoError(t, first.ResetCursor(ctx))

	_, more, err := first.Step(ctx, tmpl)
	require.NoError(t, err)
	require.True(t, more)

	// A fresh runner over the same store resumes from the persisted cursor
	second := New(st, okDispatcher(), &Collector{},
		WithClock(testutil.NewFixedClock(testInstant)))
	entry, _, err := second.Step(ctx, tmpl)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "second", entry.Description)
}

func TestStartResetsCursor(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRunner(okDispatcher())
	require.NoError(t, r.StoreScenarios(ctx, threeScenarios()))
	require.NoError(t, r.SetCursor(ctx, 2))

	entry, more, err := r.Start(ctx, transport.Template{Method: "POST", URL: "http://api.test"})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "first", entry.Description)
	assert.True(t, more)
}

func TestRunAllExecutesEverythingInOrder(t *testing.T) {
	ctx := context.Background()
	d := okDispatcher()
	r, _, _ := newTestRunner(d)
	require.NoError(t, r.StoreScenarios(ctx, threeScenarios()))

	entries, err := r.RunAll(ctx, transport.Template{Method: "POST", URL: "http://api.test"})
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Description)
	assert.Equal(t, "second", entries[1].Description)
	assert.Equal(t, "third", entries[2].Description)
	assert.Len(t, d.calls, 3)
	assert.Equal(t, 3, r.Cursor(ctx), "cursor rests at len after completion")
}

func TestRunAllEmptySet(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRunner(okDispatcher())

	entries, err := r.RunAll(ctx, transport.Template{Method: "GET", URL: "http://api.test"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunTokenStampsEntries(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRunner(okDispatcher())
	require.NoError(t, r.StoreScenarios(ctx, threeScenarios()))

	entries, err := r.RunAll(ctx, transport.Template{Method: "POST", URL: "http://api.test"})
	require.NoError(t, err)

	for _, e := range entries {
		assert.Equal(t, "run-0001", e.RunToken)
	}
}

func TestDefaultKeys(t *testing.T) {
	k := DefaultKeys("scenic")
	assert.Equal(t, "scenic.scenarios", k.Scenarios)
	assert.Equal(t, "scenic.cursor", k.Cursor)
	assert.Equal(t, "scenic.results", k.Results)
}
