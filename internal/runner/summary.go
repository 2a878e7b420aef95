package runner

import (
	"context"
	"fmt"
	"math"
)

// NoResultsMessage is the sentinel Summarize returns for an empty log.
const NoResultsMessage = "no results"

// Failure pairs a failed scenario with its error message.
type Failure struct {
	Description string `json:"description"`
	Error       string `json:"error"`
}

// Summary aggregates the result log.
type Summary struct {
	// Message carries the "no results" sentinel; empty otherwise.
	Message string `json:"message,omitempty"`

	TotalTests      int       `json:"total_tests"`
	PassedTests     int       `json:"passed_tests"`
	FailedTests     int       `json:"failed_tests"`
	SuccessRate     string    `json:"success_rate"`
	AvgResponseTime int64     `json:"avg_response_time_ms"`
	Failures        []Failure `json:"failures,omitempty"`
}

// Summarize reads the result log and computes aggregate counts, the
// success rate as a percentage string rounded to two decimals, and the
// mean response time rounded to the nearest integer. An empty log yields
// the "no results" sentinel; the empty-check branch also guards the
// division below.
func (r *Runner) Summarize(ctx context.Context) Summary {
	log := r.Results(ctx)
	if len(log) == 0 {
		return Summary{Message: NoResultsMessage}
	}

	var passed int
	var totalTime int64
	var failures []Failure
	for _, entry := range log {
		totalTime += entry.ResponseTime
		if entry.Success {
			passed++
			continue
		}
		msg := ""
		if entry.Error != nil {
			msg = *entry.Error
		}
		failures = append(failures, Failure{Description: entry.Description, Error: msg})
	}

	total := len(log)
	rate := float64(passed) / float64(total) * 100

	return Summary{
		TotalTests:      total,
		PassedTests:     passed,
		FailedTests:     total - passed,
		SuccessRate:     fmt.Sprintf("%.2f%%", rate),
		AvgResponseTime: int64(math.Round(float64(totalTime) / float64(total))),
		Failures:        failures,
	}
}
