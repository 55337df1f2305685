package atom

import "testing"

func TestInternIsIdempotent(t *testing.T) {
	tab := New()
	id1 := tab.InternString("hello")
	id2 := tab.InternString("hello")
	if id1 != id2 {
		t.Fatalf("Intern not idempotent: %d != %d", id1, id2)
	}
	if tab.Stats().Hits != 1 {
		t.Fatalf("expected 1 hit, got %d", tab.Stats().Hits)
	}
}

func TestInternDistinctStrings(t *testing.T) {
	tab := New()
	a := tab.InternString("foo")
	b := tab.InternString("bar")
	if a == b {
		t.Fatalf("distinct strings got the same atom id")
	}
}

func TestResolveRoundTrips(t *testing.T) {
	tab := New()
	id := tab.InternString("round-trip")
	s, err := tab.ResolveString(id)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s != "round-trip" {
		t.Fatalf("got %q, want round-trip", s)
	}
}

func TestResolveUnknownID(t *testing.T) {
	tab := New()
	if _, err := tab.Resolve(ID(999)); err == nil {
		t.Fatalf("expected error resolving an unallocated ID")
	}
}

func TestNoneIDNeverAllocated(t *testing.T) {
	tab := New()
	id := tab.InternString("x")
	if id == None {
		t.Fatalf("a real intern produced the None sentinel id")
	}
}
