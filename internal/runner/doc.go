// Package runner implements the data-driven scenario iteration and
// result-aggregation core.
//
// A Runner owns an ordered scenario set and a persisted cursor, both kept
// behind an injected key-value store. Iteration is resumable: each Step
// executes the scenario at the cursor, records one result entry, and
// advances the cursor. The "is there more work" signal is a returned
// boolean; the caller (CLI, scheduler, host tool) owns the loop.
//
// Execution is single-threaded and request-at-a-time. The only
// asynchronous boundary is the outbound HTTP dispatch; its completion is
// awaited before the runner is re-entered, so at most one scenario is
// ever in flight.
//
// Error posture: nothing here is fatal. Malformed persisted state
// degrades to an empty collection with a logged warning, transport
// failures become failed result entries, and assertion mismatches are
// reported independently per check without halting the run.
package runner
