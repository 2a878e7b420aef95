package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// maxResults caps the persisted result log. Oldest entries are evicted
// first (plain FIFO truncation).
const maxResults = 100

// ResultEntry records the outcome of one executed scenario.
type ResultEntry struct {
	Description  string    `json:"description"`
	RunToken     string    `json:"run_token,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	StatusCode   int       `json:"status_code"`
	ResponseTime int64     `json:"response_time_ms"`
	Success      bool      `json:"success"`
	Error        *string   `json:"error,omitempty"`
}

// Results reads the persisted result log.
// Absent or malformed data degrades to an empty log with a logged
// warning.
func (r *Runner) Results(ctx context.Context) []ResultEntry {
	text, ok, err := r.store.Get(ctx, r.keys.Results)
	if err != nil {
		r.logger.Warn("reading result log failed", "key", r.keys.Results, "error", err)
		return nil
	}
	if !ok || text == "" {
		return nil
	}

	var log []ResultEntry
	if err := json.Unmarshal([]byte(text), &log); err != nil {
		r.logger.Warn("stored result log is malformed", "key", r.keys.Results, "error", err)
		return nil
	}
	return log
}

// appendResult adds one entry to the result log, truncating to the
// most recent maxResults entries.
func (r *Runner) appendResult(ctx context.Context, entry ResultEntry) error {
	log := append(r.Results(ctx), entry)
	if len(log) > maxResults {
		log = log[len(log)-maxResults:]
	}

	data, err := json.Marshal(log)
	if err != nil {
		r.logger.Warn("encoding result log failed", "error", err)
		return nil
	}
	if err := r.store.Set(ctx, r.keys.Results, string(data)); err != nil {
		return fmt.Errorf("store result log: %w", err)
	}
	return nil
}
