// Package bracket implements the Bracket Tracker (C5): the running
// container stack and the resulting position-indexed pairing table that
// both the streaming lexer and the language parsers consult. It is
// grounded on the teacher's container-stack bookkeeping inside
// gotreesitter.Lexer and on incremental.go's dense, offset-keyed bucket
// index used to find what an edit touched without a linear scan.
package bracket

import "github.com/stratumlang/stratum/internal/span"

// Info describes one delimiter occurrence recorded by the Tracker.
type Info struct {
	Span      span.Span
	Type      span.DelimiterType
	Open      bool
	Depth     uint16 // nesting depth this bracket establishes (opens) or closes out of (closes)
	PairIndex int    // index into Tracker.entries of the matching bracket, or -1 if unmatched
}

// Tracker accumulates delimiter occurrences in source order and
// maintains the open-container stack needed to pair each closer with its
// opener, even across languages with multiple container families
// (braces, brackets, parens, ZON struct literals).
type Tracker struct {
	entries  []Info
	stack    []int // indices into entries, currently-open brackets
	maxDepth uint16

	// byStart indexes entries by their starting byte offset for O(1)
	// FindPair-by-offset and incremental invalidation lookups.
	byStart map[uint32]int
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{byStart: make(map[uint32]int)}
}

// Enter records an opening delimiter and pushes it onto the container
// stack. Returns the entry's index.
func (t *Tracker) Enter(sp span.Span, typ span.DelimiterType) int {
	depth := uint16(len(t.stack) + 1)
	idx := len(t.entries)
	t.entries = append(t.entries, Info{Span: sp, Type: typ, Open: true, Depth: depth, PairIndex: -1})
	t.stack = append(t.stack, idx)
	t.byStart[sp.Start] = idx
	if depth > t.maxDepth {
		t.maxDepth = depth
	}
	return idx
}

// Exit records a closing delimiter. If the top of the container stack is
// an opener of the same type, the two are paired and popped; otherwise
// the closer is recorded as unmatched (PairIndex stays -1) and, if the
// stack is non-empty, the mismatched opener is left for a later closer
// to resolve (language parsers report the mismatch as a diagnostic).
// Returns the entry's index.
func (t *Tracker) Exit(sp span.Span, typ span.DelimiterType) int {
	idx := len(t.entries)
	depth := uint16(len(t.stack))

	pair := -1
	if n := len(t.stack); n > 0 {
		top := t.stack[n-1]
		if t.entries[top].Type == typ {
			pair = top
			t.entries[top].PairIndex = idx
			t.stack = t.stack[:n-1]
			depth = uint16(n)
		}
	}

	t.entries = append(t.entries, Info{Span: sp, Type: typ, Open: false, Depth: depth, PairIndex: pair})
	t.byStart[sp.Start] = idx
	return idx
}

// CurrentDepth returns the number of brackets still open.
func (t *Tracker) CurrentDepth() uint16 { return uint16(len(t.stack)) }

// MaxDepth returns the deepest nesting level observed so far.
func (t *Tracker) MaxDepth() uint16 { return t.maxDepth }

// IsBalanced reports whether every opener seen so far has been closed.
func (t *Tracker) IsBalanced() bool { return len(t.stack) == 0 }

// UnclosedCount returns how many openers remain on the stack.
func (t *Tracker) UnclosedCount() int { return len(t.stack) }

// FindPair returns the index of the bracket matching the one at index,
// or ok=false if index is out of range or unmatched.
func (t *Tracker) FindPair(index int) (int, bool) {
	if index < 0 || index >= len(t.entries) {
		return 0, false
	}
	p := t.entries[index].PairIndex
	if p < 0 {
		return 0, false
	}
	return p, true
}

// At returns the Info recorded at index.
func (t *Tracker) At(index int) (Info, bool) {
	if index < 0 || index >= len(t.entries) {
		return Info{}, false
	}
	return t.entries[index], true
}

// FindAtOffset returns the entry (and its index) starting at the given
// byte offset, if any.
func (t *Tracker) FindAtOffset(offset uint32) (Info, int, bool) {
	idx, ok := t.byStart[offset]
	if !ok {
		return Info{}, 0, false
	}
	return t.entries[idx], idx, true
}

// FindBracketsIn returns every recorded entry whose span overlaps sp, in
// source order. Entries are already stream-ordered by construction; this
// is a linear scan over every recorded entry.
func (t *Tracker) FindBracketsIn(sp span.Span) []Info {
	var out []Info
	for _, e := range t.entries {
		if e.Span.Overlaps(sp) {
			out = append(out, e)
		}
	}
	return out
}

// ClearRange drops every recorded entry whose span lies fully inside
// [start, end), rebuilding the container stack and pairing indices from
// what remains. This is what an incremental reparse calls before
// re-feeding the edited range through the lexer, so a stale pairing from
// before the edit never leaks into the new result.
func (t *Tracker) ClearRange(start, end uint32) {
	kept := t.entries[:0:0]
	for _, e := range t.entries {
		if e.Span.Start >= start && e.Span.End <= end {
			continue
		}
		kept = append(kept, e)
	}
	t.rebuild(kept)
}

func (t *Tracker) rebuild(entries []Info) {
	t.entries = nil
	t.stack = nil
	t.byStart = make(map[uint32]int)
	t.maxDepth = 0
	for _, e := range entries {
		if e.Open {
			t.Enter(e.Span, e.Type)
		} else {
			t.Exit(e.Span, e.Type)
		}
	}
}

// Entries returns every recorded delimiter occurrence in source order.
// The returned slice aliases the Tracker's internal storage and must not
// be mutated by the caller.
func (t *Tracker) Entries() []Info { return t.entries }
