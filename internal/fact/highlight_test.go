package fact

import (
	"testing"

	"github.com/stratumlang/stratum/internal/span"
)

func TestResolveOverlappingHighlightsEmpty(t *testing.T) {
	if got := ResolveOverlappingHighlights(nil); got != nil {
		t.Fatalf("expected nil for no input, got %+v", got)
	}
}

func TestResolveOverlappingHighlightsNoOverlap(t *testing.T) {
	facts := []Fact{
		mkFact(span.New(0, 5), CategoryEditor, "keyword", 0, 1.0),
		mkFact(span.New(5, 10), CategoryEditor, "string", 0, 1.0),
	}
	out := ResolveOverlappingHighlights(facts)
	if len(out) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(out), out)
	}
}

func TestResolveOverlappingHighlightsNestedInnerWins(t *testing.T) {
	outer := mkFact(span.New(0, 20), CategoryEditor, "comment", 0, 1.0)
	inner := mkFact(span.New(5, 10), CategoryEditor, "todo", 0, 1.0)
	out := ResolveOverlappingHighlights([]Fact{outer, inner})

	var foundInner bool
	for _, seg := range out {
		if seg.Subject == span.New(5, 10) {
			foundInner = true
			if seg.Predicate.Name != "todo" {
				t.Fatalf("expected the narrower fact to win at [5,10), got %+v", seg)
			}
		}
	}
	if !foundInner {
		t.Fatalf("expected a segment exactly covering the inner span, got %+v", out)
	}

	var coversGap bool
	for _, seg := range out {
		if seg.Subject == span.New(0, 5) && seg.Predicate.Name == "comment" {
			coversGap = true
		}
	}
	if !coversGap {
		t.Fatalf("expected the outer fact to still cover the leading gap, got %+v", out)
	}
}

func TestResolveOverlappingHighlightsNoGapsOrOverlapsInOutput(t *testing.T) {
	facts := []Fact{
		mkFact(span.New(0, 30), CategoryEditor, "block", 0, 1.0),
		mkFact(span.New(10, 20), CategoryEditor, "inner", 0, 1.0),
	}
	out := ResolveOverlappingHighlights(facts)
	for i := 1; i < len(out); i++ {
		if out[i-1].Subject.End != out[i].Subject.Start {
			t.Fatalf("expected contiguous segments, got gap/overlap between %+v and %+v", out[i-1], out[i])
		}
	}
}
