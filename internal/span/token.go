package span

// Kind is the generic token tag set that lexer.Core emits. Language-
// specific lexers (internal/lang/json, internal/lang/zon) project Core's
// tokens into their own richer tagged unions; neither of those token
// types has a method that maps back onto this set.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindIdentifier
	KindKeyword
	KindOperator
	KindStringLiteral
	KindNumberLiteral
	KindBooleanLiteral
	KindNullLiteral
	KindDelimiterOpen
	KindDelimiterClose
	KindWhitespace
	KindComment
	KindNewline
	KindEOF
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindKeyword:
		return "keyword"
	case KindOperator:
		return "operator"
	case KindStringLiteral:
		return "string_literal"
	case KindNumberLiteral:
		return "number_literal"
	case KindBooleanLiteral:
		return "boolean_literal"
	case KindNullLiteral:
		return "null_literal"
	case KindDelimiterOpen:
		return "delimiter_open"
	case KindDelimiterClose:
		return "delimiter_close"
	case KindWhitespace:
		return "whitespace"
	case KindComment:
		return "comment"
	case KindNewline:
		return "newline"
	case KindEOF:
		return "eof"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Flags is a bitset of per-token properties.
type Flags uint8

const (
	FlagOpenDelimiter Flags = 1 << iota
	FlagCloseDelimiter
	FlagTrivia
	FlagError
	FlagInserted // synthetic token produced by parser error recovery
	FlagEndOfLine
	FlagMultilineStringLine // one \\-prefixed line of a ZON-style multiline string
)

// Has reports whether all bits in want are set.
func (f Flags) Has(want Flags) bool { return f&want == want }

// DelimiterType identifies which bracket family a delimiter token belongs
// to, used by the bracket tracker to pair openers with closers.
type DelimiterType uint8

const (
	DelimiterNone DelimiterType = iota
	DelimiterBrace                // { }
	DelimiterBracket              // [ ]
	DelimiterParen                // ( )
	DelimiterStructLiteral        // .{ } (ZON struct literal)
)

// Token is a generic, language-agnostic token value. Outside this
// package's tests nothing builds one: the bracket tracker, diagnostics
// and fact store take spans and delimiter types directly.
type Token struct {
	Span         Span
	Kind         Kind
	BracketDepth uint16
	Flags        Flags
}

// BracketDelta returns -1, 0, or +1 depending on whether the token opens,
// is neutral to, or closes a bracket nesting level.
func (t Token) BracketDelta() int {
	switch {
	case t.Flags.Has(FlagOpenDelimiter):
		return 1
	case t.Flags.Has(FlagCloseDelimiter):
		return -1
	default:
		return 0
	}
}

// IsMatchingPair reports whether open and close are plausible partners:
// open must be an opening delimiter, close a closing delimiter, of the
// same DelimiterType.
func IsMatchingPair(openType, closeType DelimiterType, openIsOpen, closeIsClose bool) bool {
	return openIsOpen && closeIsClose && openType == closeType && openType != DelimiterNone
}
