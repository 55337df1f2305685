package zon

import "github.com/stratumlang/stratum/internal/span"

// NodeKind enumerates ZON's closed node algebra. Unlike JSON, a single
// Struct node shape covers both objects (named fields) and arrays
// (positional, unnamed fields), mirroring Zig's anonymous struct
// literal doing double duty for both.
type NodeKind uint8

const (
	NodeStruct NodeKind = iota
	NodeString
	NodeMultilineString
	NodeNumber
	NodeBool
	NodeUndefined
	NodeIdentifier
	NodeImport
	NodeError
)

func (k NodeKind) String() string {
	switch k {
	case NodeStruct:
		return "struct"
	case NodeString:
		return "string"
	case NodeMultilineString:
		return "multiline_string"
	case NodeNumber:
		return "number"
	case NodeBool:
		return "bool"
	case NodeUndefined:
		return "undefined"
	case NodeIdentifier:
		return "identifier"
	case NodeImport:
		return "import"
	case NodeError:
		return "error"
	default:
		return "unknown"
	}
}

// NodeID indexes into Tree.nodes.
type NodeID int

// NoNode is the not-a-node sentinel.
const NoNode NodeID = -1

// Node is one immutable AST node. FieldName is set on a struct's
// children that were introduced by a `.name = value` field; it is empty
// for positional (array-like) struct elements.
type Node struct {
	Kind      NodeKind
	Span      span.Span
	Text      []byte
	Children  []NodeID
	FieldName string
	IsMissing bool
	HasError  bool
	Parent    NodeID
}

// Tree is an arena-allocated, immutable ZON AST.
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
