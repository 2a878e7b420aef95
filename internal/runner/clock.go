package runner

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies result timestamps. Injected so tests can pin time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// TokenGenerator produces run tokens that correlate the result entries
// of one multi-step run.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered UUIDv7 run tokens.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
