// Package fact implements the Fact Stream intermediate representation
// (part of C7): immutable Fact values, the six-category predicate
// taxonomy, and a FactStore with spatial and categorical indexing. It is
// grounded on the teacher's gotreesitter/query.go match-result model
// (QueryMatch carries captures keyed by name over node ranges) and on
// incremental.go's dense offset-keyed bucket indexing, generalised from
// "query results over one parse" to "an append-only, generation-aware
// store of assertions." FactId allocation uses oklog/ulid/v2 so ids are
// k-sortable by creation order, matching the teacher's go.mod ulid
// dependency.
package fact

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"

	"github.com/stratumlang/stratum/internal/span"
)

// Category is one of the six closed predicate categories.
type Category uint8

const (
	CategoryLexical Category = iota
	CategoryStructural
	CategorySyntactic
	CategorySemantic
	CategoryEditor
	CategoryMeta
)

func (c Category) String() string {
	switch c {
	case CategoryLexical:
		return "lexical"
	case CategoryStructural:
		return "structural"
	case CategorySyntactic:
		return "syntactic"
	case CategorySemantic:
		return "semantic"
	case CategoryEditor:
		return "editor"
	case CategoryMeta:
		return "meta"
	default:
		return "unknown"
	}
}

// Predicate names one fact kind within a Category, e.g.
// {CategoryLexical, "is_trivia"} or {CategorySemantic, "resolves_to"}.
type Predicate struct {
	Category Category
	Name     string
}

// Value is a fact's optional object: a predicate's RHS value, when it
// has one (e.g. resolves_to's object is a symbol reference, highlighted
// capture's object is a scope name). Exactly one field should be set;
// nil/zero fields mean "not present".
type Value struct {
	Span   *span.Span
	Text   string
	Number float64
	Atom   uint32 // an atom.ID, left untyped here to avoid a package cycle
	HasNum bool
}

// ID is a fact's identity: a ULID, so ids sort by creation time without
// needing a separate timestamp column.
type ID = ulid.ULID

// Fact is one immutable assertion produced by a transform or analysis
// pass.
type Fact struct {
	ID         ID
	Subject    span.Span
	Predicate  Predicate
	Object     Value
	Confidence float64 // < 1.0 marks a speculative fact
	Generation uint64  // advanced by the incremental reparser on each reparse
}

// NewID allocates a fresh, time-sortable fact identifier.
func NewID() ID {
	return ulid.MustNew(ulid.Now(), rand.Reader)
}
