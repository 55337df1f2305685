// Package zon implements the ZON (Zig Object Notation) language
// front-end, the second C6 instantiation the spec requires to exercise
// every layer with a language structurally different from JSON: anonymous
// struct literals (`.{ ... }`) double as both objects and arrays,
// field names are `.identifier` atoms rather than quoted strings, and
// `undefined`/`@import(...)` are first-class. It is grounded on the same
// teacher scanner idiom as internal/lang/json (grammars/json_lexer.go),
// adapted for ZON's delimiter and keyword table per original_source/'s
// Zig-side ZON reader.
package zon

import (
	"github.com/stratumlang/stratum/internal/lexer"
	"github.com/stratumlang/stratum/internal/span"
)

// Grammar returns ZON's delimiter/literal table: struct-literal braces,
// call/group parens, '_' digit separators (as in Zig numeric literals),
// and line comments only (Zig has no block comment syntax).
func Grammar() *lexer.Grammar {
	return &lexer.Grammar{
		Name: "zon",
		Delimiters: []lexer.DelimiterRule{
			{Byte: '{', Type: span.DelimiterStructLiteral, Open: true},
			{Byte: '}', Type: span.DelimiterStructLiteral, Open: false},
			{Byte: '(', Type: span.DelimiterParen, Open: true},
			{Byte: ')', Type: span.DelimiterParen, Open: false},
		},
		StringQuotes:          []byte{'"'},
		AllowBackslashEscapes: true,
		AllowNumberSeparators:  true,
		LineCommentPrefix:      "//",
		MultilineStringPrefix:  `\\`,
		Keywords: map[string]span.Kind{
			"true":      span.KindBooleanLiteral,
			"false":     span.KindBooleanLiteral,
			"undefined": span.KindNullLiteral, // down-projects as ZON's absent-value literal
		},
	}
}
