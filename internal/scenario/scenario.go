package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one test case: an input payload plus the expected outcome.
// Scenarios are immutable once loaded; the runner never mutates them.
type Scenario struct {
	// Description is the human-readable label for this case.
	Description string `yaml:"description" json:"description"`

	// Input is the structured payload sent as the request body.
	Input map[string]any `yaml:"input" json:"input"`

	// ExpectedStatus is the anticipated HTTP status code.
	ExpectedStatus int `yaml:"expected_status" json:"expected_status"`

	// ExpectedResponse maps response field names to expected values,
	// checked by shallow equality against the decoded response body.
	// A string value of the form "format:<name>" asserts the field's
	// format (email, uuid, iso_date, url, numeric) instead of its value.
	ExpectedResponse map[string]any `yaml:"expected_response,omitempty" json:"expected_response,omitempty"`

	// ExpectedSchema is an optional JSON Schema the decoded response
	// body must satisfy.
	ExpectedSchema map[string]any `yaml:"expected_schema,omitempty" json:"expected_schema,omitempty"`

	// Check is an optional boolean expression evaluated against the
	// response (variables: status, body, elapsed_ms).
	Check string `yaml:"check,omitempty" json:"check,omitempty"`
}

// Document is the on-disk scenario set format.
type Document struct {
	// Name uniquely identifies this scenario set.
	Name string `yaml:"name" json:"name"`

	// Description explains what this set exercises.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Scenarios is the ordered list of test cases. Order is significant
	// and fixed at creation.
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// LoadFile reads and parses a scenario YAML document.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or fails schema or assertion validation.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario YAML document.
func Parse(data []byte) (*Document, error) {
	// Strict field validation catches typos like "expected_respones:"
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateDocument(&doc); err != nil {
		return nil, fmt.Errorf("invalid scenario document: %w", err)
	}

	// Schema-level validation over the raw document shape
	if err := validateCUE(data); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	// Compile-check assertion surfaces so bad assertions fail at load time
	for i, s := range doc.Scenarios {
		if err := compileChecks(&s); err != nil {
			return nil, fmt.Errorf("scenarios[%d]: %w", i, err)
		}
	}

	return &doc, nil
}

// validateDocument checks that required fields are present and valid.
func validateDocument(d *Document) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(d.Scenarios) == 0 {
		return fmt.Errorf("scenarios list is required and must be non-empty")
	}

	for i, s := range d.Scenarios {
		if err := validateScenario(i, &s); err != nil {
			return err
		}
	}

	return nil
}

// validateScenario validates a single scenario entry.
func validateScenario(index int, s *Scenario) error {
	if s.Description == "" {
		return fmt.Errorf("scenarios[%d]: description is required", index)
	}

	if s.Input == nil {
		return fmt.Errorf("scenarios[%d]: input is required (use empty map if no body)", index)
	}

	if s.ExpectedStatus < 100 || s.ExpectedStatus > 599 {
		return fmt.Errorf("scenarios[%d]: expected_status %d is not a valid HTTP status", index, s.ExpectedStatus)
	}

	return nil
}
