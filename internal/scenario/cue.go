package scenario

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

//go:embed scenario.cue
var schemaCUE string

// validateCUE checks a raw YAML scenario document against the embedded
// CUE schema. This catches shape errors the struct decode tolerates, such
// as a scenarios entry that is a list instead of a map.
func validateCUE(data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling scenario schema: %w", err)
	}

	file, err := yaml.Extract("scenarios.yaml", data)
	if err != nil {
		return fmt.Errorf("extracting document: %w", err)
	}

	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return fmt.Errorf("building document value: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("document does not satisfy schema: %w", err)
	}

	return nil
}
