package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ExportJSONSchema produces a JSON Schema Draft 2020-12 document for the
// scenario file format, reflected from the Go Document struct. Editors
// can use it for completion and inline validation of scenario files.
func ExportJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Document{})
	s.ID = "https://github.com/probelab/scenic/schemas/scenarios-v0.json"
	s.Title = "Scenic Scenario Set v0"
	s.Description = "Schema for scenic scenario YAML documents (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
