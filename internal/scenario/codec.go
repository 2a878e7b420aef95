package scenario

import (
	"encoding/json"
	"fmt"
)

// EncodeSet serializes an ordered scenario list for the store boundary.
// The store is text-only, so structured state crosses it as JSON.
func EncodeSet(scenarios []Scenario) (string, error) {
	data, err := json.Marshal(scenarios)
	if err != nil {
		return "", fmt.Errorf("encode scenario set: %w", err)
	}
	return string(data), nil
}

// DecodeSet deserializes a scenario list from its store encoding.
// Order is preserved. Malformed text is an error; callers decide whether
// to degrade to an empty set.
func DecodeSet(text string) ([]Scenario, error) {
	var scenarios []Scenario
	if err := json.Unmarshal([]byte(text), &scenarios); err != nil {
		return nil, fmt.Errorf("decode scenario set: %w", err)
	}
	return scenarios, nil
}
