// Package atom implements hash-consed string interning with a single
// append-only byte arena, mirroring the slab-allocator idiom the teacher
// runtime uses for its node arena (see internal/gotreesitter/arena.go in
// the retrieval pack this module was adapted from).
package atom

import "fmt"

// ID is an opaque handle to an interned byte slice. Zero denotes
// none/invalid.
type ID uint32

const (
	// None is the sentinel ID meaning "no atom".
	None ID = 0

	minArenaCap = 4096
)

// Stats holds interning counters for diagnostics and tuning.
type Stats struct {
	TotalAtoms int
	TotalBytes int
	Hits       int
	Misses     int
}

// Table is a hash-consed string interner. Equal byte sequences always
// yield equal IDs (ID 1..N are dense, in insertion order). The arena is a
// single append-grown slice, so growing it can copy it to a new backing
// array; bytes already written are never overwritten, so slices returned
// by Resolve keep their contents for the table's lifetime.
type Table struct {
	arena   []byte
	offsets []int32 // offsets[i] is the start of atom i+1 in arena; len(offsets) == count+1
	index   map[string]ID
	stats   Stats
}

// New creates an empty Table.
func New() *Table {
	return &Table{
		arena:   make([]byte, 0, minArenaCap),
		offsets: []int32{0},
		index:   make(map[string]ID),
	}
}

// Intern inserts bytes if not already present and returns its ID.
// Intern is idempotent: Intern(x) == Intern(x) for equal byte sequences.
func (t *Table) Intern(b []byte) ID {
	// A map lookup on []byte would allocate a throwaway string anyway, so
	// we convert once and reuse it both for the lookup and (on miss) the
	// index key — the copy into the arena below is the canonical storage.
	key := string(b)
	if id, ok := t.index[key]; ok {
		t.stats.Hits++
		return id
	}
	t.stats.Misses++

	t.arena = append(t.arena, b...)
	end := int32(len(t.arena))
	t.offsets = append(t.offsets, end)

	id := ID(len(t.offsets) - 1)
	t.index[key] = id

	t.stats.TotalAtoms++
	t.stats.TotalBytes += len(b)
	return id
}

// InternString is a convenience wrapper around Intern for string inputs.
func (t *Table) InternString(s string) ID {
	return t.Intern([]byte(s))
}

// Resolve returns the bytes originally interned for id. It fails only for
// the sentinel None or an id beyond the current highwater mark.
func (t *Table) Resolve(id ID) ([]byte, error) {
	if id == None {
		return nil, fmt.Errorf("atom: resolve: id is None")
	}
	idx := int(id)
	if idx >= len(t.offsets) {
		return nil, fmt.Errorf("atom: resolve: id %d exceeds highwater %d", id, len(t.offsets)-1)
	}
	start := t.offsets[idx-1]
	end := t.offsets[idx]
	return t.arena[start:end], nil
}

// MustResolve is like Resolve but panics on failure; used where the
// caller has already validated the id came from this table.
func (t *Table) MustResolve(id ID) []byte {
	b, err := t.Resolve(id)
	if err != nil {
		panic(err)
	}
	return b
}

// ResolveString is a convenience wrapper around Resolve returning a string.
func (t *Table) ResolveString(id ID) (string, error) {
	b, err := t.Resolve(id)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Len returns the number of distinct interned atoms.
func (t *Table) Len() int {
	return len(t.offsets) - 1
}

// Stats returns a snapshot of interning counters.
func (t *Table) Stats() Stats {
	return t.stats
}
