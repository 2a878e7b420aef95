// Package store provides the key-value persistence boundary for scenic.
//
// The runner never touches storage directly; it goes through the Store
// interface so tests can substitute an in-memory fake. Two implementations
// are provided:
//
//   - Memory: map-backed, for tests and ephemeral runs
//   - SQLite: durable single-table kv store, for runs that must survive
//     process restarts (the cursor and result log are resumable state)
//
// Values are plain strings. Structured state (scenario sets, result logs)
// is JSON-encoded by the callers at this boundary; the store itself has
// no opinion about value contents.
//
// # Database Configuration (SQLite backend)
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// There is never more than one logical writer: the runner executes one
// scenario at a time, so no transactional guarantees beyond single-row
// upserts are needed.
package store
