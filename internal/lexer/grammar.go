// Package lexer implements the chunk-safe streaming lexer state machine
// (C4) shared by every language front-end. It is grounded on the
// teacher's gotreesitter.Lexer DFA-walk loop (internal/gotreesitter/lexer.go)
// and ExternalLexer scanner API (external_lexer.go) — the teacher's Lexer
// always operates on one fully-buffered []byte, so the central adaptation
// this package makes is replacing that with a carry-buffer so the same
// scanning primitives (from internal/classify) work incrementally across
// arbitrarily small chunks without losing a partially-lexed token.
package lexer

import "github.com/stratumlang/stratum/internal/span"

// DelimiterRule associates a byte with a delimiter family and openness,
// the "delimiter table" the spec says the state machine is parameterised
// by (the teacher's per-language token sources each hard-code this
// mapping inline; Grammar pulls it out so Core is written once).
type DelimiterRule struct {
	Byte byte
	Type span.DelimiterType
	Open bool
}

// Grammar is the language-parameterisation the streaming state machine
// needs: which bytes are delimiters, which bytes open strings, whether
// comments exist and in what form, and whether numeric literals accept
// '_' digit separators (JSON forbids them; ZON, like Zig, allows them).
type Grammar struct {
	Name                  string
	Delimiters            []DelimiterRule
	StringQuotes          []byte
	AllowBackslashEscapes bool
	LineCommentPrefix     string // "" disables single-line comments
	BlockCommentStart     string // "" disables block comments
	BlockCommentEnd       string
	AllowNumberSeparators bool
	// Keywords reclassifies identifier lexemes recognised after a full
	// identifier scan (true/false/null/undefined, ...).
	Keywords map[string]span.Kind
	// MultilineStringPrefix, when non-empty (ZON uses "\\\\"), marks a
	// line as one segment of a multiline string literal: the rest of the
	// line after the prefix is consumed as string content, with no
	// escape processing. Consecutive segments are stitched together by
	// the language layer, not by Core.
	MultilineStringPrefix string
}

func (g *Grammar) delimiterFor(b byte) (DelimiterRule, bool) {
	for _, d := range g.Delimiters {
		if d.Byte == b {
			return d, true
		}
	}
	return DelimiterRule{}, false
}

func (g *Grammar) isStringQuote(b byte) bool {
	for _, q := range g.StringQuotes {
		if q == b {
			return true
		}
	}
	return false
}
