package lexer

import (
	"github.com/stratumlang/stratum/internal/classify"
	"github.com/stratumlang/stratum/internal/diag"
	"github.com/stratumlang/stratum/internal/span"
)

// Context is the streaming lexer's resumption state, as enumerated by
// the spec: which kind of lexeme (if any) is mid-flight across a chunk
// boundary.
type Context uint8

const (
	ContextNormal Context = iota
	ContextInString
	ContextInStringEscape
	ContextInMultilineString
	ContextInNumber
	ContextInIdentifier
	ContextInCommentLine
	ContextInCommentBlock
	ContextDone
	ContextError
)

const maxContainerDepth = 4096

// Token is the generic, language-agnostic token the Core emits. Language
// front-ends (internal/lang/json, internal/lang/zon) consume a stream of
// these, along with the shared delimiter-family tag on open/close
// tokens, to build their own richer tagged-union token.
type Token struct {
	Kind         span.Kind
	Text         []byte // owned copy; safe to retain across ProcessChunk calls
	Span         span.Span
	StartPoint   span.Point
	EndPoint     span.Point
	BracketDepth uint16
	Flags        span.Flags
	Delimiter    span.DelimiterType // meaningful only when Flags has Open/Close
	Diagnostic   *diag.Diagnostic
}

// Core is the chunk-safe streaming lexer state machine (C4). The same
// Core type is reused across languages by parameterising it with a
// Grammar; the state machine logic itself never special-cases a
// language.
//
// Chunk-safe contract: ProcessChunk may be called repeatedly with
// arbitrarily small chunks. On return, Core has either emitted every
// complete token available, or carried forward the undecided suffix
// (a partially-accumulated string, number, identifier, or comment) in
// carry for the next call. The concatenation of every ProcessChunk call's
// output, followed by Finish, equals the token stream a single call on
// the full input would produce.
type Core struct {
	grammar *Grammar

	ctx Context

	// carry holds bytes belonging to a lexeme still in progress; it is
	// the "pending_text_buffer" the spec calls for. byteBase is the
	// global offset of carry[0].
	carry    []byte
	byteBase uint32

	line, col  uint32
	startPoint span.Point // start point of the lexeme in carry

	containerStack []span.DelimiterType
	unmatchedCloses int

	finished bool
}

// NewCore creates a Core for the given grammar.
func NewCore(g *Grammar) *Core {
	return &Core{grammar: g, containerStack: make([]span.DelimiterType, 0, 16)}
}

// BracketDepth returns the current nesting depth (number of still-open
// containers).
func (c *Core) BracketDepth() uint16 { return uint16(len(c.containerStack)) }

// UnmatchedCloses returns the count of closing delimiters seen with no
// matching opener.
func (c *Core) UnmatchedCloses() int { return c.unmatchedCloses }

// ProcessChunk feeds the next chunk of input and returns every complete
// token it produces. It never blocks and never requires the caller to
// hand it a complete lexeme in one call.
func (c *Core) ProcessChunk(chunk []byte) []Token {
	if c.finished {
		return nil
	}
	buf := chunk
	base := c.byteBase
	if len(c.carry) > 0 {
		buf = append(append([]byte(nil), c.carry...), chunk...)
		base = c.byteBase
	}

	var out []Token
	pos := 0
	for {
		tok, next, complete := c.step(buf, pos, base, false)
		if !complete {
			// Not enough data to decide; carry the remainder for the
			// next chunk.
			c.carry = append(c.carry[:0], buf[pos:]...)
			c.byteBase = base + uint32(pos)
			return out
		}
		pos = next
		if tok != nil {
			out = append(out, *tok)
		}
		if pos >= len(buf) {
			c.carry = nil
			c.byteBase = base + uint32(pos)
			return out
		}
	}
}

// Finish signals that no further chunks will arrive. Any lexeme still in
// carry is finalised against the rules that apply at true EOF (e.g. an
// unterminated string becomes an error token instead of waiting for more
// input).
func (c *Core) Finish() []Token {
	if c.finished {
		return nil
	}
	c.finished = true
	buf := c.carry
	base := c.byteBase
	var out []Token
	pos := 0
	for pos < len(buf) {
		tok, next, complete := c.step(buf, pos, base, true)
		if !complete {
			// Truly stuck (shouldn't happen at EOF): emit an error token
			// covering the remainder and stop, so the stream still
			// terminates.
			out = append(out, c.errorToken(buf, pos, len(buf), base, diag.UnterminatedString, "unexpected end of input"))
			break
		}
		pos = next
		if tok != nil {
			out = append(out, *tok)
		}
	}
	out = append(out, c.eofToken(base+uint32(len(buf))))
	c.carry = nil
	return out
}

func (c *Core) eofToken(offset uint32) Token {
	pt := span.Point{Row: c.line, Column: c.col}
	return Token{Kind: span.KindEOF, Span: span.New(offset, offset), StartPoint: pt, EndPoint: pt, BracketDepth: c.BracketDepth()}
}

// step attempts to consume exactly one token (or one skipped trivia run)
// starting at pos in buf. complete is false when more input is needed to
// decide (e.g. an identifier run reaches the end of buf with no
// terminating byte visible yet, and atEOF is false).
func (c *Core) step(buf []byte, pos int, base uint32, atEOF bool) (tok *Token, next int, complete bool) {
	if pos >= len(buf) {
		return nil, pos, true
	}

	startOffset := base + uint32(pos)
	b := buf[pos]

	// Whitespace: skip, update line/col, never emitted.
	if classify.IsWhitespace(b) {
		r := classify.SkipWhitespace(buf, pos)
		if r.End == len(buf) && !atEOF {
			return nil, pos, false // might continue into next chunk
		}
		c.advanceLineCol(buf[pos:r.End])
		return nil, r.End, true
	}

	// A comment or multiline-string opener cut by the chunk boundary
	// (the first '/' of "//") cannot be classified until more input arrives.
	for _, p := range [...]string{c.grammar.LineCommentPrefix, c.grammar.BlockCommentStart, c.grammar.MultilineStringPrefix} {
		if n := len(buf) - pos; !atEOF && n < len(p) && string(buf[pos:]) == p[:n] {
			return nil, pos, false
		}
	}

	// Line comment.
	if c.grammar.LineCommentPrefix != "" {
		if res, ok := classify.ConsumeSingleLineComment(buf, pos, c.grammar.LineCommentPrefix); ok {
			if res.End == len(buf) && !atEOF {
				return nil, pos, false
			}
			t := c.makeToken(span.KindComment, buf, pos, res.End, startOffset, span.FlagTrivia)
			c.advanceLineCol(buf[pos:res.End])
			return &t, res.End, true
		}
	}

	// Block comment.
	if c.grammar.BlockCommentStart != "" {
		if res, ok := classify.ConsumeMultiLineComment(buf, pos, c.grammar.BlockCommentStart, c.grammar.BlockCommentEnd); ok {
			if !res.Terminated {
				if !atEOF {
					return nil, pos, false
				}
				t := c.errorToken(buf, pos, res.End, startOffset, diag.UnterminatedComment, "unterminated block comment")
				c.advanceLineCol(buf[pos:res.End])
				return &t, res.End, true
			}
			if res.End == len(buf) && !atEOF {
				return nil, pos, false
			}
			t := c.makeToken(span.KindComment, buf, pos, res.End, startOffset, span.FlagTrivia)
			c.advanceLineCol(buf[pos:res.End])
			return &t, res.End, true
		}
	}

	// Multiline-string line segment (ZON's \\-prefixed lines).
	if p := c.grammar.MultilineStringPrefix; p != "" && classify.HasPrefixAt(buf, pos, p) {
		end := pos + len(p)
		for end < len(buf) && buf[end] != '\n' {
			end++
		}
		if end == len(buf) && !atEOF {
			return nil, pos, false
		}
		t := c.makeToken(span.KindStringLiteral, buf, pos, end, startOffset, span.FlagMultilineStringLine)
		c.advanceLineCol(buf[pos:end])
		return &t, end, true
	}

	// String literal.
	if c.grammar.isStringQuote(b) {
		r := classify.ConsumeString(buf, pos, b, c.grammar.AllowBackslashEscapes)
		if !r.Terminated && r.End == len(buf) && !atEOF {
			return nil, pos, false
		}
		if !r.Terminated {
			t := c.errorToken(buf, pos, r.End, startOffset, diag.UnterminatedString, "unterminated string literal")
			c.advanceLineCol(buf[pos:r.End])
			return &t, r.End, true
		}
		t := c.makeToken(span.KindStringLiteral, buf, pos, r.End, startOffset, 0)
		c.advanceLineCol(buf[pos:r.End])
		return &t, r.End, true
	}

	// Number literal.
	if (b == '-' || b == '+') && pos+1 == len(buf) && !atEOF {
		return nil, pos, false // the sign may start a number
	}
	if classify.IsDigit(b) || ((b == '-' || b == '+') && pos+1 < len(buf) && classify.IsDigit(buf[pos+1])) {
		r := classify.ConsumeNumber(buf, pos, c.grammar.AllowNumberSeparators)
		// Bytes after the number that could still extend it ("42." or
		// "1e") keep it undecided while they run to the end of buf.
		tail := r.End
		for tail < len(buf) && (classify.IsDigit(buf[tail]) || classify.IsIdentifierStart(buf[tail]) || buf[tail] == '.' || buf[tail] == '+' || buf[tail] == '-') {
			tail++
		}
		if tail == len(buf) && !atEOF {
			return nil, pos, false
		}
		if !r.Valid {
			end := pos + 1
			t := c.errorToken(buf, pos, end, startOffset, diag.InvalidNumber, "invalid numeric literal")
			c.advanceLineCol(buf[pos:end])
			return &t, end, true
		}
		t := c.makeToken(span.KindNumberLiteral, buf, pos, r.End, startOffset, 0)
		c.advanceLineCol(buf[pos:r.End])
		return &t, r.End, true
	}

	// Identifier / keyword.
	if classify.IsIdentifierStart(b) {
		end, _ := classify.ConsumeIdentifier(buf, pos)
		if end == len(buf) && !atEOF {
			return nil, pos, false
		}
		kind := span.KindIdentifier
		if c.grammar.Keywords != nil {
			if k, ok := c.grammar.Keywords[string(buf[pos:end])]; ok {
				kind = k
			}
		}
		t := c.makeToken(kind, buf, pos, end, startOffset, 0)
		c.advanceLineCol(buf[pos:end])
		return &t, end, true
	}

	// Delimiters (structural brackets).
	if d, ok := c.grammar.delimiterFor(b); ok {
		var flags span.Flags
		depth := c.BracketDepth()
		if d.Open {
			flags = span.FlagOpenDelimiter
			if len(c.containerStack) >= maxContainerDepth {
				t := c.errorToken(buf, pos, pos+1, startOffset, diag.DepthExceeded, "maximum bracket depth exceeded")
				c.advanceLineCol(buf[pos : pos+1])
				return &t, pos + 1, true
			}
			c.containerStack = append(c.containerStack, d.Type)
		} else {
			flags = span.FlagCloseDelimiter
			if len(c.containerStack) > 0 && c.containerStack[len(c.containerStack)-1] == d.Type {
				c.containerStack = c.containerStack[:len(c.containerStack)-1]
				depth = c.BracketDepth()
			} else {
				c.unmatchedCloses++
				if len(c.containerStack) > 0 {
					c.containerStack = c.containerStack[:len(c.containerStack)-1]
				}
			}
		}
		t := Token{
			Kind:         kindForDelimiter(d),
			Text:         append([]byte(nil), b),
			Span:         span.New(startOffset, startOffset+1),
			StartPoint:   span.Point{Row: c.line, Column: c.col},
			BracketDepth: depth,
			Flags:        flags,
			Delimiter:    d.Type,
		}
		c.advanceLineCol(buf[pos : pos+1])
		t.EndPoint = span.Point{Row: c.line, Column: c.col}
		return &t, pos + 1, true
	}

	// Anything else (operators: colon, comma, equals, ...) is a
	// single-byte operator token; language front-ends interpret Text.
	t := c.makeToken(span.KindOperator, buf, pos, pos+1, startOffset, 0)
	c.advanceLineCol(buf[pos : pos+1])
	return &t, pos + 1, true
}

func kindForDelimiter(d DelimiterRule) span.Kind {
	if d.Open {
		return span.KindDelimiterOpen
	}
	return span.KindDelimiterClose
}

func (c *Core) makeToken(kind span.Kind, buf []byte, start, end int, startOffset uint32, flags span.Flags) Token {
	t := Token{
		Kind:         kind,
		Text:         append([]byte(nil), buf[start:end]...),
		Span:         span.New(startOffset, startOffset+uint32(end-start)),
		StartPoint:   span.Point{Row: c.line, Column: c.col},
		BracketDepth: c.BracketDepth(),
		Flags:        flags,
	}
	return t
}

func (c *Core) errorToken(buf []byte, start, end int, startOffset uint32, code diag.Code, msg string) Token {
	d := diag.Diagnostic{Severity: diag.SeverityError, Span: span.New(startOffset, startOffset+uint32(end-start)), RuleID: code, Message: msg}
	return Token{
		Kind:         span.KindError,
		Text:         append([]byte(nil), buf[start:end]...),
		Span:         span.New(startOffset, startOffset+uint32(end-start)),
		StartPoint:   span.Point{Row: c.line, Column: c.col},
		BracketDepth: c.BracketDepth(),
		Flags:        span.FlagError,
		Diagnostic:   &d,
	}
}

// advanceLineCol updates line/column bookkeeping for consumed bytes and
// sets EndPoint-relevant state; it must be called with exactly the bytes
// that were just consumed.
func (c *Core) advanceLineCol(consumed []byte) {
	for _, b := range consumed {
		if b == '\n' {
			c.line++
			c.col = 0
		} else {
			c.col++
		}
	}
}
