// Package json implements the JSON language front-end (one instantiation
// of C6): a rich JSON token tagged union layered over the shared
// streaming Core, a recursive-descent parser with error recovery, an
// arena-allocated AST, and a format-preserving-enough emitter for the
// forward/reverse Transform pair. It is grounded directly on the
// teacher's grammars/json_lexer.go hand-rolled scanner, generalised from
// a tree-sitter token source into a Core-backed, chunk-safe one.
package json

import (
	"github.com/stratumlang/stratum/internal/lexer"
	"github.com/stratumlang/stratum/internal/span"
)

// Grammar returns the strict-JSON (RFC 8259) delimiter/literal table: no
// comments, no trailing commas, no digit separators.
func Grammar() *lexer.Grammar {
	return &lexer.Grammar{
		Name: "json",
		Delimiters: []lexer.DelimiterRule{
			{Byte: '{', Type: span.DelimiterBrace, Open: true},
			{Byte: '}', Type: span.DelimiterBrace, Open: false},
			{Byte: '[', Type: span.DelimiterBracket, Open: true},
			{Byte: ']', Type: span.DelimiterBracket, Open: false},
		},
		StringQuotes:          []byte{'"'},
		AllowBackslashEscapes: true,
		AllowNumberSeparators: false,
		Keywords: map[string]span.Kind{
			"true":  span.KindBooleanLiteral,
			"false": span.KindBooleanLiteral,
			"null":  span.KindNullLiteral,
		},
	}
}

// GrammarWithComments returns the same table extended with JSONC-style
// line and block comments, for callers that opt into the permissive
// dialect rather than strict RFC 8259 JSON.
func GrammarWithComments() *lexer.Grammar {
	g := Grammar()
	g.LineCommentPrefix = "//"
	g.BlockCommentStart = "/*"
	g.BlockCommentEnd = "*/"
	return g
}
