// Package diag defines the stable diagnostic vocabulary shared by every
// lexer, parser, and analysis stage. Diagnostics never abort a pipeline
// stage (see transform.Pipeline) — they accumulate alongside a
// best-effort result, the way the teacher's ParseSupport/QueryMatch
// values report status as plain data rather than raised errors.
package diag

import "github.com/stratumlang/stratum/internal/span"

// Severity classifies how a diagnostic should be surfaced.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Code is one of the stable, enumerated error codes from the external
// interface contract.
type Code string

const (
	InvalidUTF8Sequence       Code = "invalid_utf8_sequence"
	IncompleteUTF8Sequence    Code = "incomplete_utf8_sequence"
	OverlongUTF8Sequence      Code = "overlong_utf8_sequence"
	SurrogateInString         Code = "surrogate_in_string"
	NoncharacterInString      Code = "noncharacter_in_string"
	ControlCharacterInString  Code = "control_character_in_string"
	CarriageReturnInString    Code = "carriage_return_in_string"
	BOMAtStringStart          Code = "bom_at_string_start"
	UnterminatedString        Code = "unterminated_string"
	UnterminatedComment       Code = "unterminated_comment"
	InvalidEscape             Code = "invalid_escape"
	InvalidNumber             Code = "invalid_number"
	UnexpectedToken           Code = "unexpected_token"
	UnmatchedBracket          Code = "unmatched_bracket"
	DuplicateKey              Code = "duplicate_key"
	TrailingCommaNotAllowed   Code = "trailing_comma_not_allowed"
	DepthExceeded             Code = "depth_exceeded"
	NonCanonicalEncoding      Code = "non_canonical_encoding"
	DeepNesting               Code = "deep_nesting"
)

// Diagnostic is a single reported finding attached to a span of source.
type Diagnostic struct {
	Severity      Severity
	Span          span.Span
	Message       string
	RuleID        Code
	ExpectedKinds []string
	RunID         string // set by transform.Pipeline.Tag; empty outside a pipeline run
}

// List is an ordered collection of diagnostics, as carried by token
// streams, ASTs, and pipeline results.
type List []Diagnostic

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Tag returns a copy of l with every diagnostic's RunID set to id, so
// diagnostics collected across a pipeline's stages can be correlated
// back to the run that produced them.
func (l List) Tag(id string) List {
	tagged := make(List, len(l))
	for i, d := range l {
		d.RunID = id
		tagged[i] = d
	}
	return tagged
}

// HasErrors reports whether any diagnostic in the list is SeverityError.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
