package zon

import (
	"unicode/utf8"

	"github.com/stratumlang/stratum/internal/bracket"
	"github.com/stratumlang/stratum/internal/diag"
	"github.com/stratumlang/stratum/internal/lexer"
	"github.com/stratumlang/stratum/internal/span"
	"github.com/stratumlang/stratum/internal/unicodepolicy"
)

// Lexer projects the shared streaming Core's generic tokens into ZON's
// rich Kind tagged union. Unlike JSON, several ZON tokens are formed
// from more than one generic token ('.' + '{' → struct_start, '.' +
// identifier → field_name, consecutive \\-prefixed lines → one
// multiline_string); Lexer buffers a small lookahead window so that
// combination works even when Core's chunk boundary falls between the
// two raw tokens.
type Lexer struct {
	core    *lexer.Core
	tracker *bracket.Tracker
	diags   diag.List
	mode    unicodepolicy.Mode

	mlPrefixLen int // byte length of grammar.MultilineStringPrefix, stripped from segment Text

	pending []lexer.Token // raw tokens not yet resolved into a ZON token
	atEnd   bool
}

// Option configures a Lexer at construction time (see
// internal/lang/json.Option, the same functional-option shape).
type Option func(*Lexer)

// WithUnicodeMode selects the strict/sanitise/permissive handling of
// disallowed code points in quoted string bodies (default: Permissive).
func WithUnicodeMode(m unicodepolicy.Mode) Option {
	return func(l *Lexer) { l.mode = m }
}

// NewLexer creates a ZON Lexer.
func NewLexer(g *lexer.Grammar, opts ...Option) *Lexer {
	l := &Lexer{core: lexer.NewCore(g), tracker: bracket.New(), mlPrefixLen: len(g.MultilineStringPrefix), mode: unicodepolicy.Permissive}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tracker exposes the accumulated bracket-tracking state.
func (l *Lexer) Tracker() *bracket.Tracker { return l.tracker }

// Diagnostics returns every diagnostic accumulated so far.
func (l *Lexer) Diagnostics() diag.List { return l.diags }

// ProcessChunk feeds a chunk of source and returns the ZON tokens it can
// resolve with the lookahead currently available.
func (l *Lexer) ProcessChunk(chunk []byte) []Token {
	l.pending = append(l.pending, l.core.ProcessChunk(chunk)...)
	return l.drain(false)
}

// Finish signals end of input, resolving every remaining pending token
// and appending a trailing EOF token.
func (l *Lexer) Finish() []Token {
	l.pending = append(l.pending, l.core.Finish()...)
	l.atEnd = true
	return l.drain(true)
}

// drain resolves as many pending raw tokens into ZON tokens as the
// available lookahead permits. With atEOF false, a trailing '.' or '@'
// and a trailing run of multiline-string segments are held back, since
// a following token could still combine with them.
func (l *Lexer) drain(atEOF bool) []Token {
	var out []Token
	for {
		if len(l.pending) == 0 {
			return out
		}
		t := l.pending[0]

		if t.Kind == span.KindOperator && len(t.Text) == 1 && t.Text[0] == '.' {
			if len(l.pending) < 2 && !atEOF {
				return out // need to see what follows the '.'
			}
			if len(l.pending) < 2 {
				// EOF right after a lone '.': emit as an error.
				out = append(out, l.errTok(t, "dangling '.'"))
				l.pending = l.pending[1:]
				continue
			}
			next := l.pending[1]
			switch {
			case next.Kind == span.KindDelimiterOpen && next.Delimiter == span.DelimiterStructLiteral:
				out = append(out, l.structOpen(t, next))
				l.pending = l.pending[2:]
				continue
			case next.Kind == span.KindIdentifier:
				out = append(out, Token{Kind: KindFieldName, Text: next.Text, Span: t.Span.Merge(next.Span), Depth: next.BracketDepth})
				l.pending = l.pending[2:]
				continue
			default:
				out = append(out, l.errTok(t, "expected '{' or identifier after '.'"))
				l.pending = l.pending[1:]
				continue
			}
		}

		if t.Kind == span.KindOperator && len(t.Text) == 1 && t.Text[0] == '@' {
			if len(l.pending) < 2 && !atEOF {
				return out
			}
			if len(l.pending) < 2 || l.pending[1].Kind != span.KindIdentifier {
				out = append(out, l.errTok(t, "expected identifier after '@'"))
				l.pending = l.pending[1:]
				continue
			}
			next := l.pending[1]
			if string(next.Text) == "import" {
				out = append(out, Token{Kind: KindImport, Text: next.Text, Span: t.Span.Merge(next.Span), Depth: next.BracketDepth})
			} else {
				out = append(out, Token{Kind: KindIdentifier, Text: append([]byte{'@'}, next.Text...), Span: t.Span.Merge(next.Span), Depth: next.BracketDepth})
			}
			l.pending = l.pending[2:]
			continue
		}

		if t.Flags.Has(span.FlagMultilineStringLine) {
			j := 1
			endSpan := t.Span
			text := append([]byte(nil), l.stripMLPrefix(t.Text)...)
			for j < len(l.pending) && l.pending[j].Flags.Has(span.FlagMultilineStringLine) {
				text = append(text, '\n')
				text = append(text, l.stripMLPrefix(l.pending[j].Text)...)
				endSpan = endSpan.Merge(l.pending[j].Span)
				j++
			}
			if j == len(l.pending) && !atEOF {
				return out // more segments might still follow
			}
			out = append(out, Token{Kind: KindMultilineString, Text: text, Span: endSpan, Depth: t.BracketDepth})
			l.pending = l.pending[j:]
			continue
		}

		out = append(out, l.projectSingle(t))
		l.pending = l.pending[1:]
	}
}

// stripMLPrefix removes the grammar's MultilineStringPrefix from the
// front of one multiline-string line segment's raw Text, leaving only
// the line's content.
func (l *Lexer) stripMLPrefix(text []byte) []byte {
	if l.mlPrefixLen > 0 && len(text) >= l.mlPrefixLen {
		return text[l.mlPrefixLen:]
	}
	return text
}

func (l *Lexer) structOpen(dot, brace lexer.Token) Token {
	idx := l.tracker.Enter(brace.Span, span.DelimiterStructLiteral)
	_ = idx
	return Token{Kind: KindStructStart, Span: dot.Span.Merge(brace.Span), Depth: brace.BracketDepth}
}

func (l *Lexer) errTok(t lexer.Token, msg string) Token {
	l.diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: t.Span, RuleID: diag.UnexpectedToken, Message: msg})
	return Token{Kind: KindError, Text: t.Text, Span: t.Span, Depth: t.BracketDepth}
}

func (l *Lexer) projectSingle(t lexer.Token) Token {
	depth := t.BracketDepth
	switch t.Kind {
	case span.KindEOF:
		return Token{Kind: KindEOF, Span: t.Span, Depth: depth}
	case span.KindError:
		return Token{Kind: KindError, Text: t.Text, Span: t.Span, Depth: depth}
	case span.KindComment:
		return Token{Kind: KindComment, Text: t.Text, Span: t.Span, Depth: depth}
	case span.KindStringLiteral:
		body, bodyDiags := l.decodeString(t.Text, t.Span)
		l.diags = append(l.diags, bodyDiags...)
		return Token{Kind: KindString, Text: body, Span: t.Span, Depth: depth}
	case span.KindNumberLiteral:
		return Token{Kind: KindNumber, Text: t.Text, Span: t.Span, Depth: depth}
	case span.KindBooleanLiteral:
		if string(t.Text) == "true" {
			return Token{Kind: KindTrue, Text: t.Text, Span: t.Span, Depth: depth}
		}
		return Token{Kind: KindFalse, Text: t.Text, Span: t.Span, Depth: depth}
	case span.KindNullLiteral:
		return Token{Kind: KindUndefined, Text: t.Text, Span: t.Span, Depth: depth}
	case span.KindIdentifier:
		if string(t.Text) == "import" {
			return Token{Kind: KindImport, Text: t.Text, Span: t.Span, Depth: depth}
		}
		return Token{Kind: KindIdentifier, Text: t.Text, Span: t.Span, Depth: depth}
	case span.KindDelimiterOpen, span.KindDelimiterClose:
		open := t.Flags.Has(span.FlagOpenDelimiter)
		var idx int
		if open {
			idx = l.tracker.Enter(t.Span, t.Delimiter)
		} else {
			idx = l.tracker.Exit(t.Span, t.Delimiter)
			if _, matched := l.tracker.FindPair(idx); !matched {
				l.diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: t.Span, RuleID: diag.UnmatchedBracket, Message: "unmatched closing delimiter"})
			}
		}
		return Token{Kind: parenOrStructKind(t.Delimiter, open), Text: t.Text, Span: t.Span, Depth: depth}
	case span.KindOperator:
		switch {
		case len(t.Text) == 1 && t.Text[0] == '=':
			return Token{Kind: KindEquals, Text: t.Text, Span: t.Span, Depth: depth}
		case len(t.Text) == 1 && t.Text[0] == ',':
			return Token{Kind: KindComma, Text: t.Text, Span: t.Span, Depth: depth}
		}
		return l.errTok(t, "unexpected character in ZON input")
	default:
		return l.errTok(t, "unexpected token in ZON input")
	}
}

// decodeString strips raw's surrounding quotes, resolves Zig-style
// escape sequences (\", \\, \', \n, \r, \t, \xNN via
// unicodepolicy.DecodeHexByteEscape, \u{...} via
// unicodepolicy.DecodeRustEscape), and validates the decoded body
// against l.mode. quoted is the full token span (quotes included).
func (l *Lexer) decodeString(raw []byte, quoted span.Span) ([]byte, diag.List) {
	var diags diag.List
	body := raw
	if len(body) >= 2 {
		body = body[1 : len(body)-1]
	}
	bodyStart := quoted.Start + 1
	decoded := make([]byte, 0, len(body))

	i := 0
	for i < len(body) {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			decoded = append(decoded, c)
			i++
			continue
		}
		off := bodyStart + uint32(i)
		switch esc := body[i+1]; esc {
		case '"', '\\', '\'':
			decoded = append(decoded, esc)
			i += 2
		case 'n':
			decoded = append(decoded, '\n')
			i += 2
		case 'r':
			decoded = append(decoded, '\r')
			i += 2
		case 't':
			decoded = append(decoded, '\t')
			i += 2
		case 'x':
			if i+4 > len(body) {
				diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: span.New(off, bodyStart+uint32(len(body))), RuleID: diag.InvalidEscape, Message: "truncated \\x escape"})
				decoded = append(decoded, body[i:]...)
				i = len(body)
				continue
			}
			r, ok := unicodepolicy.DecodeHexByteEscape(body[i+2], body[i+3])
			if !ok {
				diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: span.New(off, off+4), RuleID: diag.InvalidEscape, Message: "invalid \\x escape"})
				decoded = append(decoded, body[i:i+4]...)
				i += 4
				continue
			}
			decoded = append(decoded, byte(r))
			i += 4
		case 'u':
			if i+2 >= len(body) || body[i+2] != '{' {
				diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: span.New(off, off+2), RuleID: diag.InvalidEscape, Message: "expected '{' after \\u"})
				decoded = append(decoded, esc)
				i += 2
				continue
			}
			end := i + 3
			for end < len(body) && body[end] != '}' {
				end++
			}
			if end >= len(body) {
				diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: span.New(off, bodyStart+uint32(len(body))), RuleID: diag.InvalidEscape, Message: "unterminated \\u{...} escape"})
				decoded = append(decoded, body[i:]...)
				i = len(body)
				continue
			}
			r, ok := unicodepolicy.DecodeRustEscape(body[i+3 : end])
			if !ok {
				diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: span.New(off, bodyStart+uint32(end+1)), RuleID: diag.InvalidEscape, Message: "invalid \\u{...} escape"})
				decoded = append(decoded, body[i:end+1]...)
				i = end + 1
				continue
			}
			var encoded [4]byte
			n := utf8.EncodeRune(encoded[:], r)
			decoded = append(decoded, encoded[:n]...)
			i = end + 1
		default:
			diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: span.New(off, off+2), RuleID: diag.InvalidEscape, Message: "unknown escape sequence"})
			decoded = append(decoded, esc)
			i += 2
		}
	}

	sanitised, vdiags := unicodepolicy.ValidateString(decoded, l.mode, bodyStart)
	diags = append(diags, vdiags...)
	return sanitised, diags
}

func parenOrStructKind(t span.DelimiterType, open bool) Kind {
	switch t {
	case span.DelimiterStructLiteral:
		if open {
			return KindStructStart // only reached when '.' was dropped (error recovery path)
		}
		return KindStructEnd
	case span.DelimiterParen:
		if open {
			return KindParenOpen
		}
		return KindParenClose
	default:
		return KindError
	}
}
