package zon

import "github.com/stratumlang/stratum/internal/span"

// Kind is ZON's rich token tagged union, per the spec's list: struct
// delimiters, a combined field-name atom (carrying its own quoted/escape
// flags), equals, parens, plain identifiers, the import keyword,
// undefined, and multiline strings.
type Kind uint8

const (
	KindEOF Kind = iota
	KindStructStart
	KindStructEnd
	KindFieldName
	KindEquals
	KindComma
	KindParenOpen
	KindParenClose
	KindIdentifier
	KindImport
	KindUndefined
	KindString
	KindMultilineString
	KindNumber
	KindTrue
	KindFalse
	KindComment
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "eof"
	case KindStructStart:
		return "struct_start"
	case KindStructEnd:
		return "struct_end"
	case KindFieldName:
		return "field_name"
	case KindEquals:
		return "equals"
	case KindComma:
		return "comma"
	case KindParenOpen:
		return "paren_open"
	case KindParenClose:
		return "paren_close"
	case KindIdentifier:
		return "identifier"
	case KindImport:
		return "import"
	case KindUndefined:
		return "undefined"
	case KindString:
		return "string"
	case KindMultilineString:
		return "multiline_string"
	case KindNumber:
		return "number"
	case KindTrue:
		return "true"
	case KindFalse:
		return "false"
	case KindComment:
		return "comment"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Token is one ZON-flavoured lexeme.
type Token struct {
	Kind    Kind
	Text    []byte // for field_name, the bare name without the leading '.' or quotes
	Span    span.Span
	Depth   uint16
	Quoted  bool // never set by Lexer: a .@"..." field name lexes as error tokens and a string
	Escaped bool // never set by Lexer
}
