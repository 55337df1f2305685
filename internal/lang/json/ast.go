package json

import "github.com/stratumlang/stratum/internal/span"

// NodeKind enumerates JSON's closed node algebra.
type NodeKind uint8

const (
	NodeDocument NodeKind = iota
	NodeObject
	NodeArray
	NodeMember
	NodeString
	NodeNumber
	NodeBool
	NodeNull
	NodeError
)

func (k NodeKind) String() string {
	switch k {
	case NodeDocument:
		return "document"
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	case NodeMember:
		return "member"
	case NodeString:
		return "string"
	case NodeNumber:
		return "number"
	case NodeBool:
		return "bool"
	case NodeNull:
		return "null"
	case NodeError:
		return "error"
	default:
		return "unknown"
	}
}

// NodeID indexes into Tree.nodes. The parser allocates children before
// their parents, so the root is the last node allocated; NoNode marks
// the absence of a node.
type NodeID int

// NoNode is the not-a-node sentinel.
const NoNode NodeID = -1

// Node is one immutable AST node, allocated out of a Tree's arena. Field
// naming mirrors the teacher's gotreesitter.Node (IsMissing, HasError)
// since the same concepts apply one-for-one.
type Node struct {
	Kind      NodeKind
	Span      span.Span
	Text      []byte // verbatim source text for leaf nodes (string/number/bool/null)
	Children  []NodeID
	FieldName string // set on member value children: "key" or "value"
	IsMissing bool   // inserted by error recovery to keep the tree shape valid
	HasError  bool   // this node was produced or flagged by error recovery; not propagated to ancestors
	Parent    NodeID
}

// Tree is an arena-allocated, immutable JSON AST. Once built it is never
// mutated in place; Reparse either keeps the old Tree whole (when
// internal/incremental.WholeTreeReusable says no edit touches it) or
// produces a new Tree.
type Tree struct {
	nodes []Node
	root  NodeID
}

func newTree() *Tree { return &Tree{root: NoNode} }

func (t *Tree) alloc(n Node) NodeID {
	id := NodeID(len(t.nodes))
	n.Parent = NoNode
	t.nodes = append(t.nodes, n)
	return id
}

// Root returns the ID of the document's top-level value node.
func (t *Tree) Root() NodeID { return t.root }

// Node returns the node at id.
func (t *Tree) Node(id NodeID) Node { return t.nodes[id] }

// Len returns the number of nodes allocated.
func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) setParent(child, parent NodeID) {
	t.nodes[child].Parent = parent
}
