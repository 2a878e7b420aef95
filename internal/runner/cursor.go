package runner

import (
	"context"
	"fmt"
	"strconv"

	"github.com/probelab/scenic/internal/scenario"
)

// Cursor returns the index of the next scenario to run.
//
// The cursor is stored as decimal text. Absent or malformed text
// degrades to 0 with a logged warning rather than a hard error: a
// corrupt cursor restarts the run, it never wedges it.
func (r *Runner) Cursor(ctx context.Context) int {
	text, ok, err := r.store.Get(ctx, r.keys.Cursor)
	if err != nil {
		r.logger.Warn("reading cursor failed", "key", r.keys.Cursor, "error", err)
		return 0
	}
	if !ok {
		return 0
	}

	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		r.logger.Warn("stored cursor is malformed, resetting to 0", "key", r.keys.Cursor, "value", text)
		return 0
	}
	return n
}

// SetCursor persists index as the cursor.
func (r *Runner) SetCursor(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("cursor index must be non-negative, got %d", index)
	}
	if err := r.store.Set(ctx, r.keys.Cursor, strconv.Itoa(index)); err != nil {
		return fmt.Errorf("set cursor: %w", err)
	}
	return nil
}

// ResetCursor sets the cursor to 0 unconditionally.
func (r *Runner) ResetCursor(ctx context.Context) error {
	return r.SetCursor(ctx, 0)
}

// Current returns the scenario at the cursor, or nil when the cursor is
// at or past the end of the set.
func (r *Runner) Current(ctx context.Context) *scenario.Scenario {
	set := r.LoadScenarios(ctx)
	cur := r.Cursor(ctx)
	if cur >= len(set) {
		return nil
	}
	s := set[cur]
	return &s
}

// Advance moves the cursor one step forward and returns the scenario at
// the new position. When the next index would leave the set, the cursor
// is left untouched and nil is returned: a completed run requires an
// explicit reset before the set is reusable.
func (r *Runner) Advance(ctx context.Context) (*scenario.Scenario, error) {
	set := r.LoadScenarios(ctx)
	next := r.Cursor(ctx) + 1
	if next >= len(set) {
		return nil, nil
	}
	if err := r.SetCursor(ctx, next); err != nil {
		return nil, err
	}
	s := set[next]
	return &s, nil
}
