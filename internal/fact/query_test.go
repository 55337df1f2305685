package fact

import (
	"testing"

	"github.com/stratumlang/stratum/internal/span"
)

func TestQueryWhereCategory(t *testing.T) {
	s := NewStore()
	s.Add(mkFact(span.New(0, 5), CategoryLexical, "a", 0, 1.0))
	s.Add(mkFact(span.New(5, 10), CategorySemantic, "b", 0, 1.0))

	results := New().WhereCategory(CategorySemantic).Run(s).Collect()
	if len(results) != 1 || results[0].Predicate.Name != "b" {
		t.Fatalf("got %+v", results)
	}
}

func TestQueryWhereMinConfidence(t *testing.T) {
	s := NewStore()
	s.Add(mkFact(span.New(0, 5), CategoryLexical, "weak", 0, 0.2))
	s.Add(mkFact(span.New(5, 10), CategoryLexical, "strong", 0, 0.9))

	results := New().WhereMinConfidence(0.5).Run(s).Collect()
	if len(results) != 1 || results[0].Predicate.Name != "strong" {
		t.Fatalf("got %+v", results)
	}
}

func TestQueryWhereWithin(t *testing.T) {
	s := NewStore()
	s.Add(mkFact(span.New(0, 5), CategoryLexical, "a", 0, 1.0))
	s.Add(mkFact(span.New(100, 105), CategoryLexical, "b", 0, 1.0))

	results := New().WhereWithin(span.New(0, 10)).Run(s).Collect()
	if len(results) != 1 || results[0].Predicate.Name != "a" {
		t.Fatalf("got %+v", results)
	}
}

func TestQueryOrderBySubject(t *testing.T) {
	s := NewStore()
	s.Add(mkFact(span.New(50, 60), CategoryLexical, "later", 0, 1.0))
	s.Add(mkFact(span.New(0, 10), CategoryLexical, "earlier", 0, 1.0))

	results := New().OrderBySubject().Run(s).Collect()
	if len(results) != 2 || results[0].Predicate.Name != "earlier" {
		t.Fatalf("got %+v", results)
	}
}

func TestQueryOrderByConfidence(t *testing.T) {
	s := NewStore()
	s.Add(mkFact(span.New(0, 5), CategoryLexical, "weak", 0, 0.2))
	s.Add(mkFact(span.New(5, 10), CategoryLexical, "strong", 0, 0.9))

	results := New().OrderByConfidence().Run(s).Collect()
	if len(results) != 2 || results[0].Predicate.Name != "strong" {
		t.Fatalf("got %+v", results)
	}
}

func TestQueryCombinedFilters(t *testing.T) {
	s := NewStore()
	s.Add(mkFact(span.New(0, 5), CategorySemantic, "resolves_to", 1, 0.9))
	s.Add(mkFact(span.New(0, 5), CategorySemantic, "resolves_to", 2, 0.9))
	s.Add(mkFact(span.New(0, 5), CategoryLexical, "resolves_to", 1, 0.9))

	results := New().
		WhereCategory(CategorySemantic).
		WherePredicate(Predicate{Category: CategorySemantic, Name: "resolves_to"}).
		WhereGeneration(1).
		Run(s).Collect()
	if len(results) != 1 {
		t.Fatalf("got %+v", results)
	}
}

func TestCursorNext(t *testing.T) {
	s := NewStore()
	s.Add(mkFact(span.New(0, 5), CategoryLexical, "a", 0, 1.0))
	c := New().Run(s)
	f, ok := c.Next()
	if !ok || f.Predicate.Name != "a" {
		t.Fatalf("got f=%+v ok=%v", f, ok)
	}
	if _, ok := c.Next(); ok {
		t.Fatalf("expected cursor exhausted")
	}
}
