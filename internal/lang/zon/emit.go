package zon

import (
	"bytes"
	"fmt"
)

// Emit reconstructs ZON source bytes from a Tree, the reverse half of
// the syntactic transform. As with internal/lang/json.Emit, this
// reproduces structure and number/boolean/identifier text exactly,
// re-escapes strings from their decoded value, and does not reproduce
// original whitespace (see DESIGN.md).
func Emit(t *Tree) []byte {
	var buf bytes.Buffer
	if t.root == NoNode {
		return nil
	}
	emitNode(&buf, t, t.root, true)
	return buf.Bytes()
}

func emitNode(buf *bytes.Buffer, t *Tree, id NodeID, topLevel bool) {
	n := t.Node(id)
	if !topLevel && n.FieldName != "" {
		buf.WriteByte('.')
		buf.WriteString(n.FieldName)
		buf.WriteByte('=')
	}
	switch n.Kind {
	case NodeStruct:
		buf.WriteString(".{")
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			emitNode(buf, t, c, false)
		}
		buf.WriteByte('}')
	case NodeString:
		if n.IsMissing {
			buf.WriteString(`""`)
			return
		}
		writeQuotedZon(buf, n.Text)
	case NodeMultilineString:
		for i, line := range bytes.Split(n.Text, []byte{'\n'}) {
			if i > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(`\\`)
			buf.Write(line)
		}
		if !topLevel {
			buf.WriteByte('\n') // a segment runs to end of line; keep ',' or '}' out of it
		}
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
	case NodeUndefined:
		buf.WriteString("undefined")
	case NodeIdentifier:
		buf.Write(n.Text)
	case NodeImport:
		buf.WriteString("@import(")
		writeQuotedZon(buf, n.Text)
		buf.WriteByte(')')
	case NodeError:
		buf.WriteString("undefined")
	}
}

// writeQuotedZon writes s (a decoded string value) back out as a
// quoted, escaped ZON/Zig string literal — the reverse of
// Lexer.decodeString.
func writeQuotedZon(buf *bytes.Buffer, s []byte) {
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
				fmt.Fprintf(buf, `\x%02x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
