package testutil

// FixedTokenGenerator generates the same run token every time.
//
// This enables deterministic test execution and golden snapshot
// comparison: the same scenario set with the same FixedTokenGenerator
// produces byte-identical result logs.
//
// Thread-safety: FixedTokenGenerator is stateless and safe for
// concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a fixed run token generator.
// If token is empty, Generate() returns "test-run-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed run token.
//
// Implements runner.TokenGenerator.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
