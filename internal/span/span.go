// Package span defines the half-open byte-interval and token value types
// shared across every lexer/parser layer. Types here are intentionally
// small value types, in the spirit of the teacher runtime's Range/Point/
// Token trio (internal/gotreesitter/tree.go, lexer.go in the retrieval
// pack), generalised to carry the richer flag and depth bookkeeping the
// streaming core needs.
package span

import "fmt"

// Point is a row/column position within a source buffer.
type Point struct {
	Row    uint32
	Column uint32
}

// Span is a half-open byte interval [Start, End) within a source buffer.
// Both bounds are 32-bit; Start must never exceed End. Indices always
// refer to the currently-associated source buffer — a Span is never
// reused across buffers without re-anchoring.
type Span struct {
	Start uint32
	End   uint32
}

// New constructs a Span, panicking if start > end (an invariant violation
// at construction time is a programmer error, not a runtime condition).
func New(start, end uint32) Span {
	if start > end {
		panic(fmt.Sprintf("span: start %d > end %d", start, end))
	}
	return Span{Start: start, End: end}
}

// Pack encodes the span into a single uint64 (Start in the high 32 bits,
// End in the low 32 bits) for dense storage, e.g. as a map key or in a
// sorted slice of positions.
func (s Span) Pack() uint64 {
	return uint64(s.Start)<<32 | uint64(s.End)
}

// Unpack decodes a uint64 produced by Pack back into a Span.
func Unpack(p uint64) Span {
	return Span{Start: uint32(p >> 32), End: uint32(p)}
}

// Len returns the number of bytes the span covers.
func (s Span) Len() uint32 { return s.End - s.Start }

// IsEmpty reports whether the span covers zero bytes.
func (s Span) IsEmpty() bool { return s.Start == s.End }

// Contains reports whether point lies within [Start, End).
func (s Span) Contains(point uint32) bool {
	return point >= s.Start && point < s.End
}

// Overlaps reports whether s and other share any byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Intersect returns the overlapping region of s and other, and whether
// one exists.
func (s Span) Intersect(other Span) (Span, bool) {
	start := s.Start
	if other.Start > start {
		start = other.Start
	}
	end := s.End
	if other.End < end {
		end = other.End
	}
	if start >= end {
		return Span{}, false
	}
	return Span{Start: start, End: end}, true
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}

// IsAdjacent reports whether s immediately precedes or follows other with
// no gap (but without overlapping).
func (s Span) IsAdjacent(other Span) bool {
	return s.End == other.Start || other.End == s.Start
}

// Order provides a total order over spans: by Start, then by End, so
// wider spans starting at the same point sort after narrower ones.
func Order(a, b Span) int {
	switch {
	case a.Start < b.Start:
		return -1
	case a.Start > b.Start:
		return 1
	case a.End < b.End:
		return -1
	case a.End > b.End:
		return 1
	default:
		return 0
	}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
