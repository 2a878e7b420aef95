package runner

import (
	"context"

	"github.com/probelab/scenic/internal/transport"
)

// Step executes the scenario at the cursor, records its result, and
// advances the cursor. It is the resumable unit of work: each invocation
// picks up from the persisted cursor, so a run can span any number of
// independent invocations.
//
// Returns the recorded entry (nil when the run is already complete) and
// whether more work remains. The caller owns the loop.
func (r *Runner) Step(ctx context.Context, tmpl transport.Template) (*ResultEntry, bool, error) {
	set := r.LoadScenarios(ctx)
	cur := r.Cursor(ctx)
	if cur >= len(set) {
		return nil, false, nil
	}

	entry, err := r.Execute(ctx, set[cur], tmpl)
	if err != nil {
		return &entry, false, err
	}

	if err := r.SetCursor(ctx, cur+1); err != nil {
		return &entry, false, err
	}
	return &entry, cur+1 < len(set), nil
}

// Start resets the cursor and executes the first unit of work. The
// returned boolean is the "re-invoke me" signal for hosts that drive
// iteration externally.
func (r *Runner) Start(ctx context.Context, tmpl transport.Template) (*ResultEntry, bool, error) {
	if err := r.ResetCursor(ctx); err != nil {
		return nil, false, err
	}
	return r.Step(ctx, tmpl)
}

// RunAll drives Start/Step to completion in-process and returns the
// entries recorded by this run in order.
func (r *Runner) RunAll(ctx context.Context, tmpl transport.Template) ([]ResultEntry, error) {
	var entries []ResultEntry

	entry, more, err := r.Start(ctx, tmpl)
	if err != nil {
		return entries, err
	}
	if entry != nil {
		entries = append(entries, *entry)
	}

	for more {
		entry, m, err := r.Step(ctx, tmpl)
		if err != nil {
			return entries, err
		}
		if entry != nil {
			entries = append(entries, *entry)
		}
		more = m
	}

	return entries, nil
}
