package fact

import "github.com/stratumlang/stratum/internal/span"

const bucketSize = 64 // bytes per spatial bucket, a coarse dense index

// Store is an append-only collection of facts with categorical,
// predicate, generation, and spatial indices so lookups never require a
// full scan. Facts are never mutated or removed individually; Invalidate
// drops everything whose subject falls in a given span, so that fresh
// facts for an edited range can be re-added at a new generation.
type Store struct {
	facts []Fact

	byCategory  map[Category][]int
	byPredicate map[Predicate][]int
	byGen       map[uint64][]int
	byBucket    map[uint32][]int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		byCategory:  make(map[Category][]int),
		byPredicate: make(map[Predicate][]int),
		byGen:       make(map[uint64][]int),
		byBucket:    make(map[uint32][]int),
	}
}

// Add appends f and updates every index.
func (s *Store) Add(f Fact) {
	idx := len(s.facts)
	s.facts = append(s.facts, f)
	s.byCategory[f.Predicate.Category] = append(s.byCategory[f.Predicate.Category], idx)
	s.byPredicate[f.Predicate] = append(s.byPredicate[f.Predicate], idx)
	s.byGen[f.Generation] = append(s.byGen[f.Generation], idx)
	for b := bucketOf(f.Subject.Start); b <= bucketOf(f.Subject.End); b++ {
		s.byBucket[b] = append(s.byBucket[b], idx)
	}
}

func bucketOf(offset uint32) uint32 { return offset / bucketSize }

// Len returns the number of facts currently held (facts dropped by
// Invalidate are not counted).
func (s *Store) Len() int { return len(s.facts) }

// All returns every fact in insertion order. The returned slice aliases
// internal storage and must not be mutated.
func (s *Store) All() []Fact { return s.facts }

// ByCategory returns every fact in the given category.
func (s *Store) ByCategory(c Category) []Fact { return s.collect(s.byCategory[c]) }

// ByPredicate returns every fact asserting the given predicate.
func (s *Store) ByPredicate(p Predicate) []Fact { return s.collect(s.byPredicate[p]) }

// ByGeneration returns every fact asserted at the given generation.
func (s *Store) ByGeneration(g uint64) []Fact { return s.collect(s.byGen[g]) }

// Overlapping returns every fact whose subject span overlaps sp.
func (s *Store) Overlapping(sp span.Span) []Fact {
	seen := make(map[int]bool)
	var out []Fact
	for b := bucketOf(sp.Start); b <= bucketOf(sp.End); b++ {
		for _, idx := range s.byBucket[b] {
			if seen[idx] {
				continue
			}
			seen[idx] = true
			if s.facts[idx].Subject.Overlaps(sp) {
				out = append(out, s.facts[idx])
			}
		}
	}
	return out
}

// Invalidate drops every fact whose subject lies fully inside
// [start, end) and rebuilds all indices, ready for facts for the edited
// range to be re-added at a new generation.
func (s *Store) Invalidate(start, end uint32) {
	kept := s.facts[:0:0]
	for _, f := range s.facts {
		if f.Subject.Start >= start && f.Subject.End <= end {
			continue
		}
		kept = append(kept, f)
	}
	rebuilt := NewStore()
	for _, f := range kept {
		rebuilt.Add(f)
	}
	*s = *rebuilt
}

func (s *Store) collect(idxs []int) []Fact {
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Fact, len(idxs))
	for i, idx := range idxs {
		out[i] = s.facts[idx]
	}
	return out
}
