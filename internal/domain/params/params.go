// Package params normalizes raw request parameters into bounded typed values.
// Every handler goes through this boundary so clamping and defaulting behave
// identically across endpoints; raw strings never reach the query compilers.
package params

import (
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cinelab-io/mflix-api/internal/domain"
)

// Per-endpoint pagination defaults and ceilings.
const (
	DefaultListLimit     = 20
	MaxListLimit         = 100
	DefaultCommentLimit  = 10
	MaxCommentLimit      = 50
	DefaultVectorLimit   = 10
	MaxVectorLimit       = 50
	DefaultDirectorLimit = 20
	MaxDirectorLimit     = 100
)

// SortOrder is a normalized sort direction.
type SortOrder int

const (
	// Ascending sorts low to high.
	Ascending SortOrder = 1
	// Descending sorts high to low.
	Descending SortOrder = -1
)

// SearchOperator is a compound-search boolean operator.
type SearchOperator string

// Allowed compound operators.
const (
	OperatorMust    SearchOperator = "must"
	OperatorShould  SearchOperator = "should"
	OperatorMustNot SearchOperator = "mustNot"
	OperatorFilter  SearchOperator = "filter"
)

// Limit parses a limit parameter, falling back to def on absent or
// non-numeric input and clamping the result to [1, max].
func Limit(raw string, def, max int) int {
	n, err := strconv.Atoi(raw)
	if raw == "" || err != nil {
		n = def
	}
	return ClampLimit(n, max)
}

// ClampLimit bounds an already-parsed limit to [1, max]. Body-supplied
// pagination goes through here so JSON numbers clamp the same way query
// strings do.
func ClampLimit(n, max int) int {
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

// Skip parses a skip parameter, falling back to 0 on absent, non-numeric,
// or negative input.
func Skip(raw string) int {
	n, err := strconv.Atoi(raw)
	if raw == "" || err != nil {
		return 0
	}
	return ClampSkip(n)
}

// ClampSkip bounds an already-parsed skip to non-negative.
func ClampSkip(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ParseSortOrder maps "desc" to Descending and anything else to Ascending.
// An unknown value is a non-fatal default, unlike ParseSearchOperator.
func ParseSortOrder(raw string) SortOrder {
	if raw == "desc" {
		return Descending
	}
	return Ascending
}

// ParseSearchOperator validates the compound operator against the allow-list.
// Empty input defaults to "must"; anything else outside the list is fatal.
func ParseSearchOperator(raw string) (SearchOperator, error) {
	if raw == "" {
		return OperatorMust, nil
	}
	switch op := SearchOperator(raw); op {
	case OperatorMust, OperatorShould, OperatorMustNot, OperatorFilter:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSearchOperator, raw)
	}
}

// ObjectID validates and converts a hex identifier. Malformed input is a
// fatal validation error, never a silent default.
func ObjectID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidObjectID, raw)
	}
	return id, nil
}

// ObjectIDs converts a batch of hex identifiers. A single malformed entry
// fails the whole batch before any of it is used.
func ObjectIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, err := ObjectID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
