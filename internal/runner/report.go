package runner

import (
	"fmt"
	"log/slog"
	"sync"
)

// Reporter is the external test-assertion sink. Each check performed
// during execution (status match, field match, schema match, check
// expression) is reported as one independent named assertion, never an
// aggregate pass/fail.
type Reporter interface {
	// Report records one assertion outcome. A nil err means the
	// assertion passed.
	Report(name string, err error)
}

// AssertionError is reported when an observed value differs from the
// expected one.
type AssertionError struct {
	Name     string // Assertion name for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Name, e.Expected, e.Actual)
}

// SlogReporter reports assertions to a structured logger.
type SlogReporter struct {
	Logger *slog.Logger
}

// Report logs one assertion outcome.
func (r *SlogReporter) Report(name string, err error) {
	if err != nil {
		r.Logger.Error("assertion failed", "name", name, "error", err)
		return
	}
	r.Logger.Info("assertion passed", "name", name)
}

// Recorded is one assertion outcome captured by a Collector.
type Recorded struct {
	Name string
	Err  error
}

// Collector is a Reporter that records assertions in order. Used by
// tests and by the CLI to render per-check results.
type Collector struct {
	mu       sync.Mutex
	recorded []Recorded
}

// Report appends one assertion outcome.
func (c *Collector) Report(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recorded = append(c.recorded, Recorded{Name: name, Err: err})
}

// All returns the recorded assertions in report order.
func (c *Collector) All() []Recorded {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Recorded, len(c.recorded))
	copy(out, c.recorded)
	return out
}

// Failed returns only the failed assertions.
func (c *Collector) Failed() []Recorded {
	var failed []Recorded
	for _, rec := range c.All() {
		if rec.Err != nil {
			failed = append(failed, rec)
		}
	}
	return failed
}
