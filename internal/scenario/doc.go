// Package scenario defines the data-driven test scenario model and its
// codecs.
//
// Scenarios are authored in YAML documents (one document per scenario
// set) and validated in three phases before use:
//
//  1. Structural: strict YAML decode (unknown fields rejected)
//  2. Schema: the decoded document is checked against an embedded CUE
//     schema, which catches type-level mistakes field validation misses
//  3. Assertion compile: any expected_schema is compiled as JSON Schema
//     and any check expression is compiled, so malformed assertions fail
//     at load time rather than mid-run
//
// For persistence the ordered scenario list is JSON-encoded into a single
// store value; the encoding round-trips and preserves order.
package scenario
