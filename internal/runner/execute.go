package runner

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/expr-lang/expr"
	"golang.org/x/text/unicode/norm"

	"github.com/probelab/scenic/internal/checks"
	"github.com/probelab/scenic/internal/scenario"
	"github.com/probelab/scenic/internal/transport"
)

// formatPrefix marks expected-value strings that assert a field's format
// instead of its value, e.g. "format:email".
const formatPrefix = "format:"

// Execute runs one scenario: overlays its input on the request template,
// dispatches, evaluates every assertion independently, and always appends
// exactly one entry to the result log regardless of outcome.
//
// A transport error becomes a failed entry carrying the error message;
// it is never propagated. The returned error covers store failures only.
func (r *Runner) Execute(ctx context.Context, sc scenario.Scenario, tmpl transport.Template) (ResultEntry, error) {
	entry := ResultEntry{
		Description: sc.Description,
		RunToken:    r.runToken,
		Timestamp:   r.clock.Now(),
	}

	req, err := tmpl.Overlay(sc.Input)
	if err != nil {
		return r.recordFailure(ctx, entry, sc.Description, err)
	}

	resp, err := r.dispatch.Do(ctx, req)
	if err != nil {
		return r.recordFailure(ctx, entry, sc.Description, err)
	}

	entry.StatusCode = resp.StatusCode
	entry.ResponseTime = resp.Elapsed.Milliseconds()
	entry.Success = resp.StatusCode == sc.ExpectedStatus
	if !entry.Success {
		msg := fmt.Sprintf("expected status %d, got %d", sc.ExpectedStatus, resp.StatusCode)
		entry.Error = &msg
	}

	r.assert(sc, resp)

	if err := r.appendResult(ctx, entry); err != nil {
		return entry, err
	}
	r.logger.Info("scenario executed",
		"description", sc.Description,
		"status", resp.StatusCode,
		"success", entry.Success,
	)
	return entry, nil
}

// recordFailure appends a failed entry for a scenario that never
// produced a response.
func (r *Runner) recordFailure(ctx context.Context, entry ResultEntry, description string, cause error) (ResultEntry, error) {
	msg := cause.Error()
	entry.Success = false
	entry.Error = &msg

	r.reporter.Report(description+": dispatch", cause)
	r.logger.Warn("scenario dispatch failed", "description", description, "error", cause)

	if err := r.appendResult(ctx, entry); err != nil {
		return entry, err
	}
	return entry, nil
}

// assert evaluates every check for one executed scenario. Each check is
// reported independently: a failure in one field check does not suppress
// the others.
func (r *Runner) assert(sc scenario.Scenario, resp *transport.Response) {
	statusName := sc.Description + ": status"
	if resp.StatusCode == sc.ExpectedStatus {
		r.reporter.Report(statusName, nil)
	} else {
		r.reporter.Report(statusName, &AssertionError{
			Name:     "status",
			Expected: fmt.Sprintf("status %d", sc.ExpectedStatus),
			Actual:   fmt.Sprintf("status %d", resp.StatusCode),
		})
	}

	needsBody := len(sc.ExpectedResponse) > 0 || sc.ExpectedSchema != nil || sc.Check != ""
	if !needsBody {
		return
	}

	decoded, err := resp.DecodeJSON()
	if err != nil {
		r.reporter.Report(sc.Description+": body decode", err)
		return
	}

	r.assertFields(sc, decoded)

	if sc.ExpectedSchema != nil {
		r.assertSchema(sc, decoded)
	}

	if sc.Check != "" {
		r.assertCheck(sc, resp, decoded)
	}
}

// assertFields checks each expected response field by shallow equality,
// in sorted key order for deterministic reporting.
func (r *Runner) assertFields(sc scenario.Scenario, decoded any) {
	if len(sc.ExpectedResponse) == 0 {
		return
	}

	body, ok := decoded.(map[string]any)

	keys := make([]string, 0, len(sc.ExpectedResponse))
	for k := range sc.ExpectedResponse {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name := fmt.Sprintf("%s: field %q", sc.Description, key)

		if !ok {
			r.reporter.Report(name, &AssertionError{
				Name:     "field " + key,
				Expected: "response body to be an object",
				Actual:   fmt.Sprintf("%T", decoded),
			})
			continue
		}

		actual, exists := body[key]
		if !exists {
			r.reporter.Report(name, &AssertionError{
				Name:     "field " + key,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   "field not present",
			})
			continue
		}

		r.reporter.Report(name, checkField(key, sc.ExpectedResponse[key], actual))
	}
}

// checkField compares one expected field value against the observed one.
// Returns nil on match.
func checkField(key string, expected, actual any) error {
	if exp, ok := expected.(string); ok && strings.HasPrefix(exp, formatPrefix) {
		format := strings.TrimPrefix(exp, formatPrefix)
		actStr, ok := actual.(string)
		if !ok {
			return &AssertionError{
				Name:     "field " + key,
				Expected: fmt.Sprintf("a string matching format %q", format),
				Actual:   fmt.Sprintf("%v (%T)", actual, actual),
			}
		}
		matched, err := checks.Format(format, actStr)
		if err != nil {
			return err
		}
		if !matched {
			return &AssertionError{
				Name:     "field " + key,
				Expected: fmt.Sprintf("value matching format %q", format),
				Actual:   fmt.Sprintf("%q", actStr),
			}
		}
		return nil
	}

	if !valuesEqual(expected, actual) {
		return &AssertionError{
			Name:     "field " + key,
			Expected: fmt.Sprintf("%v (%T)", expected, expected),
			Actual:   fmt.Sprintf("%v (%T)", actual, actual),
		}
	}
	return nil
}

// assertSchema validates the decoded body against the scenario's
// expected_schema.
func (r *Runner) assertSchema(sc scenario.Scenario, decoded any) {
	name := sc.Description + ": schema"

	sch, err := scenario.CompileBodySchema(sc.ExpectedSchema)
	if err != nil {
		r.reporter.Report(name, err)
		return
	}
	r.reporter.Report(name, sch.Validate(decoded))
}

// assertCheck evaluates the scenario's check expression over the
// response.
func (r *Runner) assertCheck(sc scenario.Scenario, resp *transport.Response, decoded any) {
	name := sc.Description + ": check"

	program, err := scenario.CompileCheck(sc.Check)
	if err != nil {
		r.reporter.Report(name, err)
		return
	}

	env := scenario.CheckEnv(resp.StatusCode, decoded, resp.Elapsed.Milliseconds())
	out, err := expr.Run(program, env)
	if err != nil {
		r.reporter.Report(name, fmt.Errorf("eval check %q: %w", sc.Check, err))
		return
	}

	if passed, ok := out.(bool); !ok || !passed {
		r.reporter.Report(name, &AssertionError{
			Name:     "check",
			Expected: fmt.Sprintf("%q to hold", sc.Check),
			Actual:   fmt.Sprintf("%v", out),
		})
		return
	}
	r.reporter.Report(name, nil)
}

// valuesEqual compares an expected value (YAML- or JSON-decoded) against
// an observed JSON-decoded value. Strings are NFC-normalized before
// comparison; numbers are compared across int/float64 decodings.
func valuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	switch exp := expected.(type) {
	case string:
		act, ok := actual.(string)
		if !ok {
			return false
		}
		return norm.NFC.String(exp) == norm.NFC.String(act)
	case bool:
		act, ok := actual.(bool)
		return ok && exp == act
	case int:
		return numberEqual(float64(exp), actual)
	case int64:
		return numberEqual(float64(exp), actual)
	case float64:
		return numberEqual(exp, actual)
	}

	// Nested maps and slices
	return reflect.DeepEqual(expected, actual)
}

// numberEqual compares a numeric expectation against an observed value
// that JSON decoding may have produced as float64 or int.
func numberEqual(exp float64, actual any) bool {
	switch act := actual.(type) {
	case float64:
		return exp == act
	case int:
		return exp == float64(act)
	case int64:
		return exp == float64(act)
	}
	return false
}
