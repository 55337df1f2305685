package json

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// shape flattens a Tree into a structure comparable across differently
// formatted sources: byte offsets and parent links vary, but the node
// kind/text/field-name shape should not.
type shape struct {
	Kind      string
	Text      string
	FieldName string
	Children  []shape
}

func treeShape(tr *Tree, id NodeID) shape {
	n := tr.Node(id)
	s := shape{Kind: n.Kind.String(), Text: string(n.Text), FieldName: n.FieldName}
	for _, c := range n.Children {
		s.Children = append(s.Children, treeShape(tr, c))
	}
	return s
}

func TestASTShapeStableAcrossWhitespace(t *testing.T) {
	compact := `{"a":1,"b":[true,false,null]}`
	spread := "{\n  \"a\": 1,\n  \"b\": [true, false, null]\n}\n"

	r1 := parseSrc(t, compact, DefaultConfig())
	r2 := parseSrc(t, spread, DefaultConfig())

	s1 := treeShape(r1.Tree, r1.Tree.Root())
	s2 := treeShape(r2.Tree, r2.Tree.Root())

	if diff := cmp.Diff(s1, s2); diff != "" {
		t.Fatalf("tree shape differs solely due to whitespace (-compact +spread):\n%s", diff)
	}
}

func TestASTShapeDiffersOnRealChange(t *testing.T) {
	r1 := parseSrc(t, `{"a":1}`, DefaultConfig())
	r2 := parseSrc(t, `{"a":2}`, DefaultConfig())

	s1 := treeShape(r1.Tree, r1.Tree.Root())
	s2 := treeShape(r2.Tree, r2.Tree.Root())

	if cmp.Diff(s1, s2) == "" {
		t.Fatalf("expected a shape diff when the literal value changes")
	}
}
