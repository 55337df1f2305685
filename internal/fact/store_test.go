package fact

import (
	"testing"

	"github.com/stratumlang/stratum/internal/span"
)

func mkFact(sub span.Span, cat Category, name string, gen uint64, conf float64) Fact {
	return Fact{ID: NewID(), Subject: sub, Predicate: Predicate{Category: cat, Name: name}, Confidence: conf, Generation: gen}
}

func TestStoreByCategoryAndPredicate(t *testing.T) {
	s := NewStore()
	s.Add(mkFact(span.New(0, 5), CategoryLexical, "is_trivia", 0, 1.0))
	s.Add(mkFact(span.New(5, 10), CategorySemantic, "resolves_to", 0, 1.0))

	lex := s.ByCategory(CategoryLexical)
	if len(lex) != 1 || lex[0].Predicate.Name != "is_trivia" {
		t.Fatalf("got %+v", lex)
	}
	sem := s.ByPredicate(Predicate{Category: CategorySemantic, Name: "resolves_to"})
	if len(sem) != 1 {
		t.Fatalf("got %+v", sem)
	}
}

func TestStoreByGeneration(t *testing.T) {
	s := NewStore()
	s.Add(mkFact(span.New(0, 5), CategoryLexical, "a", 1, 1.0))
	s.Add(mkFact(span.New(5, 10), CategoryLexical, "b", 2, 1.0))
	if got := s.ByGeneration(1); len(got) != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestStoreOverlapping(t *testing.T) {
	s := NewStore()
	s.Add(mkFact(span.New(0, 10), CategoryStructural, "node", 0, 1.0))
	s.Add(mkFact(span.New(200, 210), CategoryStructural, "node", 0, 1.0))

	got := s.Overlapping(span.New(5, 15))
	if len(got) != 1 || got[0].Subject.Start != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestStoreOverlappingAcrossBucketBoundary(t *testing.T) {
	s := NewStore()
	// bucketSize is 64; a fact spanning two buckets must only be
	// returned once.
	s.Add(mkFact(span.New(60, 70), CategoryStructural, "node", 0, 1.0))

	got := s.Overlapping(span.New(0, 200))
	if len(got) != 1 {
		t.Fatalf("expected exactly one dedup'd match, got %d: %+v", len(got), got)
	}
}

func TestStoreInvalidate(t *testing.T) {
	s := NewStore()
	s.Add(mkFact(span.New(0, 10), CategoryStructural, "inner", 0, 1.0))
	s.Add(mkFact(span.New(0, 100), CategoryStructural, "outer", 0, 1.0))
	s.Invalidate(0, 10)

	if s.Len() != 1 {
		t.Fatalf("expected the fully-contained fact dropped, got %d facts", s.Len())
	}
	remaining := s.All()
	if remaining[0].Predicate.Name != "outer" {
		t.Fatalf("expected the wider fact to survive, got %+v", remaining)
	}
}

func TestStoreLenAndAll(t *testing.T) {
	s := NewStore()
	if s.Len() != 0 {
		t.Fatalf("expected empty store")
	}
	s.Add(mkFact(span.New(0, 1), CategoryMeta, "x", 0, 1.0))
	if s.Len() != 1 || len(s.All()) != 1 {
		t.Fatalf("got len=%d all=%d", s.Len(), len(s.All()))
	}
}
