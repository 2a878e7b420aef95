package scenario

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// CheckEnv builds the evaluation environment for a check expression.
// The same shape is used for compile-time type checking and runtime
// evaluation.
func CheckEnv(status int, body any, elapsedMS int64) map[string]any {
	if body == nil {
		body = map[string]any{}
	}
	return map[string]any{
		"status":     status,
		"body":       body,
		"elapsed_ms": elapsedMS,
	}
}

// CompileCheck compiles a check expression. The expression must evaluate
// to a boolean over the variables status, body, and elapsed_ms.
func CompileCheck(src string) (*vm.Program, error) {
	program, err := expr.Compile(src, expr.Env(CheckEnv(0, nil, 0)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile check %q: %w", src, err)
	}
	return program, nil
}

// CompileBodySchema compiles an expected_schema document into a JSON
// Schema validator for the response body.
func CompileBodySchema(doc map[string]any) (*sjsonschema.Schema, error) {
	c := sjsonschema.NewCompiler()
	if err := c.AddResource("response-schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile("response-schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile response schema: %w", err)
	}
	return sch, nil
}

// compileChecks verifies a scenario's assertion surfaces compile.
func compileChecks(s *Scenario) error {
	if s.ExpectedSchema != nil {
		if _, err := CompileBodySchema(s.ExpectedSchema); err != nil {
			return fmt.Errorf("expected_schema: %w", err)
		}
	}
	if s.Check != "" {
		if _, err := CompileCheck(s.Check); err != nil {
			return fmt.Errorf("check: %w", err)
		}
	}
	return nil
}
