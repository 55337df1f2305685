package json

import (
	"unicode/utf8"

	"github.com/stratumlang/stratum/internal/bracket"
	"github.com/stratumlang/stratum/internal/diag"
	"github.com/stratumlang/stratum/internal/lexer"
	"github.com/stratumlang/stratum/internal/span"
	"github.com/stratumlang/stratum/internal/unicodepolicy"
)

// Lexer wraps the shared streaming Core, projecting its generic Token
// stream into JSON's rich Kind tagged union and feeding every delimiter
// into a bracket.Tracker so parsers and analysis passes can query
// nesting without re-deriving it. String tokens are escape-decoded and
// validated against an internal/unicodepolicy.Mode at this layer, so
// every consumer downstream (parser, emitter, fact projection) sees the
// string's value rather than its quoted source form.
type Lexer struct {
	core    *lexer.Core
	tracker *bracket.Tracker
	diags   diag.List
	mode    unicodepolicy.Mode
}

// Option configures a Lexer at construction time, following the
// functional-option idiom the rest of the external interface contract
// uses for LexerOptions.
type Option func(*Lexer)

// WithUnicodeMode selects the strict/sanitise/permissive handling of
// disallowed code points in string bodies (default: Permissive).
func WithUnicodeMode(m unicodepolicy.Mode) Option {
	return func(l *Lexer) { l.mode = m }
}

// NewLexer creates a JSON Lexer using the given dialect grammar (Grammar
// or GrammarWithComments).
func NewLexer(g *lexer.Grammar, opts ...Option) *Lexer {
	l := &Lexer{core: lexer.NewCore(g), tracker: bracket.New(), mode: unicodepolicy.Permissive}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tracker exposes the accumulated bracket-tracking state.
func (l *Lexer) Tracker() *bracket.Tracker { return l.tracker }

// Diagnostics returns every diagnostic accumulated so far.
func (l *Lexer) Diagnostics() diag.List { return l.diags }

// ProcessChunk feeds a chunk of source and returns the JSON tokens it
// completes.
func (l *Lexer) ProcessChunk(chunk []byte) []Token {
	return l.project(l.core.ProcessChunk(chunk))
}

// Finish signals end of input and returns the final tokens, including a
// trailing EOF token.
func (l *Lexer) Finish() []Token {
	return l.project(l.core.Finish())
}

func (l *Lexer) project(raw []lexer.Token) []Token {
	out := make([]Token, 0, len(raw))
	for _, t := range raw {
		if t.Diagnostic != nil {
			l.diags.Add(*t.Diagnostic)
		}
		out = append(out, l.projectOne(t))
	}
	return out
}

func (l *Lexer) projectOne(t lexer.Token) Token {
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
		return Token{Kind: KindNull, Text: t.Text, Span: t.Span, Depth: depth}
	case span.KindDelimiterOpen, span.KindDelimiterClose:
		var idx int
		if t.Flags.Has(span.FlagOpenDelimiter) {
			idx = l.tracker.Enter(t.Span, t.Delimiter)
		} else {
			idx = l.tracker.Exit(t.Span, t.Delimiter)
			if _, matched := l.tracker.FindPair(idx); !matched {
				l.diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: t.Span, RuleID: diag.UnmatchedBracket, Message: "unmatched closing delimiter"})
			}
		}
		return Token{Kind: delimiterKind(t.Delimiter, t.Flags.Has(span.FlagOpenDelimiter)), Text: t.Text, Span: t.Span, Depth: depth}
	case span.KindOperator:
		switch {
		case len(t.Text) == 1 && t.Text[0] == ':':
			return Token{Kind: KindColon, Text: t.Text, Span: t.Span, Depth: depth}
		case len(t.Text) == 1 && t.Text[0] == ',':
			return Token{Kind: KindComma, Text: t.Text, Span: t.Span, Depth: depth}
		}
		l.diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: t.Span, RuleID: diag.UnexpectedToken, Message: "unexpected character in JSON input"})
		return Token{Kind: KindError, Text: t.Text, Span: t.Span, Depth: depth}
	default:
		l.diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: t.Span, RuleID: diag.UnexpectedToken, Message: "unexpected token in JSON input"})
		return Token{Kind: KindError, Text: t.Text, Span: t.Span, Depth: depth}
	}
}

func delimiterKind(t span.DelimiterType, open bool) Kind {
	switch t {
	case span.DelimiterBrace:
		if open {
			return KindObjectStart
		}
		return KindObjectEnd
	case span.DelimiterBracket:
		if open {
			return KindArrayStart
		}
		return KindArrayEnd
	default:
		return KindError
	}
}

// decodeString strips raw's surrounding quotes, resolves every JSON
// escape sequence (\", \\, \/, \b, \f, \n, \r, \t, \uXXXX with surrogate
// pairs via unicodepolicy.DecodeJSONEscape), and validates the decoded
// body against l.mode. quoted is the full token span (quotes included),
// used to anchor diagnostic spans at the right source offsets.
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
		case '"', '\\', '/':
			decoded = append(decoded, esc)
			i += 2
		case 'b':
			decoded = append(decoded, '\b')
			i += 2
		case 'f':
			decoded = append(decoded, '\f')
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
		case 'u':
			if i+6 > len(body) {
				diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: span.New(off, bodyStart+uint32(len(body))), RuleID: diag.InvalidEscape, Message: "truncated \\u escape"})
				decoded = append(decoded, body[i:]...)
				i = len(body)
				continue
			}
			var hi [4]byte
			copy(hi[:], body[i+2:i+6])
			var lowPtr *[4]byte
			var lo [4]byte
			if i+12 <= len(body) && body[i+6] == '\\' && body[i+7] == 'u' {
				copy(lo[:], body[i+8:i+12])
				lowPtr = &lo
			}
			r, consumedLow, ok := unicodepolicy.DecodeJSONEscape(hi, lowPtr)
			if !ok {
				diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: span.New(off, off+6), RuleID: diag.InvalidEscape, Message: "invalid \\u escape"})
				decoded = append(decoded, body[i:i+6]...)
				i += 6
				continue
			}
			var encoded [4]byte
			n := utf8.EncodeRune(encoded[:], r)
			decoded = append(decoded, encoded[:n]...)
			if consumedLow {
				i += 12
			} else {
				i += 6
			}
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
