package fact

import (
	"sort"

	"github.com/stratumlang/stratum/internal/span"
)

// Query is a small relational query over a Store: a conjunction of
// optional filters plus an ordering, built fluently the way a SELECT ...
// WHERE ... ORDER BY statement reads. It is grounded on the teacher's
// Query/QueryMatch/QueryPredicate trio in gotreesitter/query.go,
// generalised from "match a tree-sitter pattern" to "filter and sort an
// arbitrary fact set."
type Query struct {
	category      *Category
	predicate     *Predicate
	minConfidence float64
	generation    *uint64
	within        *span.Span
	orderBy       func(a, b Fact) bool
}

// New starts a Query with no filters (matches every fact).
func New() *Query { return &Query{} }

// WhereCategory restricts results to the given category.
func (q *Query) WhereCategory(c Category) *Query { q.category = &c; return q }

// WherePredicate restricts results to the given predicate.
func (q *Query) WherePredicate(p Predicate) *Query { q.predicate = &p; return q }

// WhereMinConfidence restricts results to facts with Confidence >= min.
func (q *Query) WhereMinConfidence(min float64) *Query { q.minConfidence = min; return q }

// WhereGeneration restricts results to the given generation.
func (q *Query) WhereGeneration(g uint64) *Query { q.generation = &g; return q }

// WhereWithin restricts results to facts whose subject overlaps sp.
func (q *Query) WhereWithin(sp span.Span) *Query { q.within = &sp; return q }

// OrderBySubject orders results by subject span (start, then end).
func (q *Query) OrderBySubject() *Query {
	q.orderBy = func(a, b Fact) bool { return span.Order(a.Subject, b.Subject) < 0 }
	return q
}

// OrderByConfidence orders results by descending confidence.
func (q *Query) OrderByConfidence() *Query {
	q.orderBy = func(a, b Fact) bool { return a.Confidence > b.Confidence }
	return q
}

func (q *Query) matches(f Fact) bool {
	if q.category != nil && f.Predicate.Category != *q.category {
		return false
	}
	if q.predicate != nil && f.Predicate != *q.predicate {
		return false
	}
	if f.Confidence < q.minConfidence {
		return false
	}
	if q.generation != nil && f.Generation != *q.generation {
		return false
	}
	if q.within != nil && !f.Subject.Overlaps(*q.within) {
		return false
	}
	return true
}

// Run executes the query against store, starting from the first index
// available in the order spatial, predicate, category, generation before
// falling back to a full scan. It filters and sorts every match up front
// and returns a Cursor over that materialised result in the requested
// order.
func (q *Query) Run(store *Store) *Cursor {
	var candidates []Fact
	switch {
	case q.within != nil:
		candidates = store.Overlapping(*q.within)
	case q.predicate != nil:
		candidates = store.ByPredicate(*q.predicate)
	case q.category != nil:
		candidates = store.ByCategory(*q.category)
	case q.generation != nil:
		candidates = store.ByGeneration(*q.generation)
	default:
		candidates = store.All()
	}

	out := make([]Fact, 0, len(candidates))
	for _, f := range candidates {
		if q.matches(f) {
			out = append(out, f)
		}
	}
	if q.orderBy != nil {
		sort.SliceStable(out, func(i, j int) bool { return q.orderBy(out[i], out[j]) })
	}
	return &Cursor{facts: out}
}

// Cursor is a forward iterator over a query's already-computed results;
// it does no filtering of its own.
type Cursor struct {
	facts []Fact
	pos   int
}

// Next advances the cursor and reports whether a fact is available.
func (c *Cursor) Next() (Fact, bool) {
	if c.pos >= len(c.facts) {
		return Fact{}, false
	}
	f := c.facts[c.pos]
	c.pos++
	return f, true
}

// Collect drains the cursor into a slice.
func (c *Cursor) Collect() []Fact {
	rest := c.facts[c.pos:]
	c.pos = len(c.facts)
	return rest
}
