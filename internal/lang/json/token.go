package json

import "github.com/stratumlang/stratum/internal/span"

// Kind is JSON's rich, language-specific token tagged union — the
// projection of the generic lexer.Token stream a consumer actually wants
// to pattern-match on.
type Kind uint8

const (
	KindEOF Kind = iota
	KindObjectStart
	KindObjectEnd
	KindArrayStart
	KindArrayEnd
	KindColon
	KindComma
	KindString
	KindNumber
	KindTrue
	KindFalse
	KindNull
	KindComment
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "eof"
	case KindObjectStart:
		return "object_start"
	case KindObjectEnd:
		return "object_end"
	case KindArrayStart:
		return "array_start"
	case KindArrayEnd:
		return "array_end"
	case KindColon:
		return "colon"
	case KindComma:
		return "comma"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTrue:
		return "true"
	case KindFalse:
		return "false"
	case KindNull:
		return "null"
	case KindComment:
		return "comment"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Token is one JSON-flavoured lexeme.
type Token struct {
	Kind  Kind
	Text  []byte
	Span  span.Span
	Depth uint16
}
