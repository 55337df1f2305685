package zon

import (
	"testing"

	"github.com/stratumlang/stratum/internal/incremental"
	"github.com/stratumlang/stratum/internal/span"
)

func TestReparseReusesWholeTreeWhenUntouchedZon(t *testing.T) {
	src := `.{.a = 1}`
	res := parseZonSrc(t, src, DefaultConfig())
	oldLen := uint32(len(src))
	newSrc := []byte(src + "  ")
	edit := incremental.Edit{Span: span.New(oldLen, oldLen), NewLen: 2}

	_, reused := Reparse(res.Tree, []incremental.Edit{edit}, newSrc, Grammar(), DefaultConfig())
	if !reused {
		t.Fatalf("expected the old tree to be reused when the edit falls outside every node")
	}
}

func TestReparseFullyReparsesWhenEditOverlapsTreeZon(t *testing.T) {
	src := `.{.a = 1}`
	res := parseZonSrc(t, src, DefaultConfig())
	newSrc := []byte(`.{.a = 2}`)
	edit := incremental.Edit{Span: res.Tree.Node(res.Tree.Root()).Span, NewLen: uint32(len(newSrc))}

	newRes, reused := Reparse(res.Tree, []incremental.Edit{edit}, newSrc, Grammar(), DefaultConfig())
	if reused {
		t.Fatalf("expected a full reparse when the edit overlaps the tree")
	}
	root := newRes.Tree.Node(newRes.Tree.Root())
	if root.Kind != NodeStruct {
		t.Fatalf("got %+v", root)
	}
}

func TestDescribeNodesExcludesNothingButMarksErrorsZon(t *testing.T) {
	res := parseZonSrc(t, `.{.a = }`, DefaultConfig())
	refs := DescribeNodes(res.Tree)
	if len(refs) != res.Tree.Len() {
		t.Fatalf("got %d refs, want %d", len(refs), res.Tree.Len())
	}
	var sawError bool
	for _, r := range refs {
		if r.HasError {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("expected at least one error-flagged node ref from the malformed input")
	}
}
