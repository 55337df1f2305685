// Package incremental implements the reuse-by-(start-byte, symbol)
// index supplementing the fact-generation contract's incremental hook.
// It is grounded directly on the teacher's gotreesitter/incremental.go
// reuseIndex (a map from start byte to candidate old-tree nodes,
// consulted by tryReuseSubtree during a new parse) generalised across
// languages via a small opaque NodeRef descriptor each language's AST
// package can produce, since JSON and ZON trees are otherwise unrelated
// Go types. Scope is deliberately "reuse a subtree verbatim or fully
// reparse it" — no GLR-style forking the way the teacher's glr.go does,
// since nothing in the spec's fact-generation contract requires partial
// subtree splicing.
package incremental

import "github.com/stratumlang/stratum/internal/span"

// NodeRef is a language-agnostic descriptor of one AST node, produced by
// walking a language's own Tree (see internal/lang/json.DescribeNodes,
// internal/lang/zon.DescribeNodes).
type NodeRef struct {
	ID       int // the language's NodeID, carried opaquely
	Span     span.Span
	Kind     int // the language's NodeKind, carried opaquely
	HasError bool
}

// Index groups old-tree node refs by their starting byte offset, the
// same shape as the teacher's reuseIndex.byStart.
type Index struct {
	byStart map[uint32][]NodeRef
}

// Build constructs an Index from a flat list of node refs, excluding
// error nodes (the teacher excludes hasError nodes for the same reason:
// that flag doubles as a "dirty, do not reuse" marker).
func Build(nodes []NodeRef) *Index {
	idx := &Index{byStart: make(map[uint32][]NodeRef)}
	for _, n := range nodes {
		if n.HasError {
			continue
		}
		idx.byStart[n.Span.Start] = append(idx.byStart[n.Span.Start], n)
	}
	return idx
}

// Candidates returns every old-tree node starting at the given offset.
func (idx *Index) Candidates(start uint32) []NodeRef {
	return idx.byStart[start]
}

// Edit describes one contiguous source replacement: the old span
// [Span.Start, Span.End) is replaced by newLen bytes.
type Edit struct {
	Span   span.Span
	NewLen uint32
}

// Plan is the outcome of comparing an old tree's nodes against a set of
// pending edits: which old nodes can be spliced in verbatim (their span
// lies entirely outside every edit) versus which region must be
// reparsed from scratch.
type Plan struct {
	Reusable  []NodeRef
	DirtyFrom uint32 // the lowest offset touched by any edit (^uint32(0) when there are no edits); informational, Reusable is decided by overlap alone
}

// BuildPlan walks idx's candidates and classifies each as reusable (no
// edit overlaps its span) or dirty. Edits are assumed already merged
// into non-overlapping, span-sorted ranges by the caller.
func BuildPlan(idx *Index, edits []Edit) Plan {
	if len(edits) == 0 {
		var all []NodeRef
		for _, nodes := range idx.byStart {
			all = append(all, nodes...)
		}
		return Plan{Reusable: all, DirtyFrom: ^uint32(0)}
	}

	dirtyFrom := edits[0].Span.Start
	for _, e := range edits[1:] {
		if e.Span.Start < dirtyFrom {
			dirtyFrom = e.Span.Start
		}
	}

	var reusable []NodeRef
	for _, nodes := range idx.byStart {
		for _, n := range nodes {
			if touchesAnyEdit(n.Span, edits) {
				continue
			}
			reusable = append(reusable, n)
		}
	}
	return Plan{Reusable: reusable, DirtyFrom: dirtyFrom}
}

func touchesAnyEdit(sp span.Span, edits []Edit) bool {
	for _, e := range edits {
		if sp.Overlaps(e.Span) {
			return true
		}
	}
	return false
}

// WholeTreeReusable reports whether none of the edits touch the old
// tree's node set at all, the trivial case where Reparse can skip
// reparsing entirely and return the old tree.
func WholeTreeReusable(nodes []NodeRef, edits []Edit) bool {
	for _, n := range nodes {
		if touchesAnyEdit(n.Span, edits) {
			return false
		}
	}
	return true
}
