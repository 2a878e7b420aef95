// Package random generates synthetic test data for scenario inputs.
//
// A Generator is seeded explicitly so generated scenario sets are
// reproducible; pass a fixed seed in tests and a time-derived seed in
// the CLI.
package random

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces random test data from a seeded source.
// Not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator from the given seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// String returns a random alphanumeric string of length n.
func (g *Generator) String(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[g.rng.Intn(len(letters))]
	}
	return string(b)
}

// Int returns a random integer in [min, max].
func (g *Generator) Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.Intn(max-min+1)
}

// Email returns a random plausible email address.
func (g *Generator) Email() string {
	return fmt.Sprintf("%s@example.com", g.String(10))
}

// Phone returns a random E.164-style phone number.
func (g *Generator) Phone() string {
	return fmt.Sprintf("+1%010d", g.rng.Int63n(1e10))
}

// Date returns a random ISO 8601 date within the last year (past=true)
// or the next year (past=false), relative to now.
func (g *Generator) Date(past bool) string {
	offset := time.Duration(g.rng.Int63n(int64(365 * 24 * time.Hour)))
	if past {
		offset = -offset
	}
	return time.Now().Add(offset).Format("2006-01-02")
}

// UUID returns a random RFC 4122 UUIDv4 string drawn from the seeded
// source.
func (g *Generator) UUID() string {
	return uuid.Must(uuid.NewRandomFromReader(g.rng)).String()
}

// Pick returns a random element of list, or "" for an empty list.
func (g *Generator) Pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[g.rng.Intn(len(list))]
}

// Fill walks a template map and replaces "$random.<kind>" string values
// with generated data. Supported kinds: string, int, email, phone, uuid,
// past_date, future_date. Other values pass through unchanged.
// Keys are visited in sorted order so a fixed seed yields the same
// output regardless of map iteration order.
func (g *Generator) Fill(template map[string]any) map[string]any {
	keys := make([]string, 0, len(template))
	for k := range template {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(template))
	for _, k := range keys {
		switch val := template[k].(type) {
		case string:
			out[k] = g.fillString(val)
		case map[string]any:
			out[k] = g.Fill(val)
		default:
			out[k] = template[k]
		}
	}
	return out
}

func (g *Generator) fillString(s string) any {
	switch s {
	case "$random.string":
		return g.String(12)
	case "$random.int":
		return g.Int(0, 1000)
	case "$random.email":
		return g.Email()
	case "$random.phone":
		return g.Phone()
	case "$random.uuid":
		return g.UUID()
	case "$random.past_date":
		return g.Date(true)
	case "$random.future_date":
		return g.Date(false)
	default:
		return s
	}
}
