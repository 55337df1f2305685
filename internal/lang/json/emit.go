package json

import (
	"bytes"
	"fmt"
)

// Emit reconstructs JSON source bytes from a Tree. It is the reverse
// half of the syntactic transform (§4.6's "format-preserving emitter"):
// structure, member order, and number/boolean text are preserved
// exactly, and strings are re-quoted and re-escaped from their decoded
// value, so parse(Emit(Parse(s))) is semantically equivalent to
// parse(s); the original escape spelling and exact whitespace are not
// reproduced since trivia is discarded by the parser rather than
// attached to nodes (see DESIGN.md).
func Emit(t *Tree) []byte {
	var buf bytes.Buffer
	if t.root == NoNode {
		return nil
	}
	emitNode(&buf, t, t.root)
	return buf.Bytes()
}

func emitNode(buf *bytes.Buffer, t *Tree, id NodeID) {
	n := t.Node(id)
	switch n.Kind {
	case NodeObject:
		buf.WriteByte('{')
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			emitNode(buf, t, c)
		}
		buf.WriteByte('}')
	case NodeArray:
		buf.WriteByte('[')
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			emitNode(buf, t, c)
		}
		buf.WriteByte(']')
	case NodeMember:
		emitNode(buf, t, n.Children[0])
		buf.WriteByte(':')
		emitNode(buf, t, n.Children[1])
	case NodeString:
		if n.IsMissing {
			buf.WriteString(`""`)
			return
		}
		writeQuotedJSON(buf, n.Text)
	case NodeNumber:
		if n.IsMissing {
			buf.WriteByte('0')
			return
		}
		buf.Write(n.Text)
	case NodeBool:
		if n.IsMissing {
			buf.WriteString("false")
			return
		}
		buf.Write(n.Text)
	case NodeNull:
		buf.WriteString("null")
	case NodeError:
		buf.WriteString("null")
	}
}

// writeQuotedJSON writes s (a decoded string value, no surrounding
// quotes or escapes) back out as a quoted, escaped JSON string literal —
// the reverse of Lexer.decodeString.
func writeQuotedJSON(buf *bytes.Buffer, s []byte) {
	buf.WriteByte('"')
	for _, r := range string(s) {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
