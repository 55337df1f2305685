// Package unicodepolicy implements the RFC 9839-aligned Unicode handling
// modes from the external interface contract: strict, sanitise, and
// permissive. This generalises beyond anything the teacher runtime does
// (gotreesitter treats source bytes opaquely) — it is grounded on the
// teacher's own `unicode/utf8`-based byte walking style (see
// grammars/token_source_common.go's sourceCursor) and on
// golang.org/x/text/unicode/norm, which the teacher's go.mod already
// requires transitively, for the non-canonical-encoding check in strict
// mode.
package unicodepolicy

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/stratumlang/stratum/internal/diag"
	"github.com/stratumlang/stratum/internal/span"
)

// Mode selects how aggressively malformed or discouraged code points are
// handled.
type Mode uint8

const (
	// Strict rejects BOM at string start, C0/C1 controls except \t and \n,
	// surrogates, non-characters, and non-minimal UTF-8 encodings.
	Strict Mode = iota
	// Sanitise applies the same rejection rules at validation time, but
	// replaces offending code points with U+FFFD instead of failing and
	// reports them as warnings.
	Sanitise
	// Permissive accepts any well-formed UTF-8.
	Permissive
)

const replacementChar = '�'

func isC0OrC1Control(r rune) bool {
	return (r <= 0x1F && r != '\t' && r != '\n') || (r >= 0x7F && r <= 0x9F)
}

func isSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDFFF
}

func isNoncharacter(r rune) bool {
	if r >= 0xFDD0 && r <= 0xFDEF {
		return true
	}
	low := r & 0xFFFF
	return low == 0xFFFE || low == 0xFFFF
}

// ValidateString checks body (the bytes between a string's quotes,
// already escape-decoded) against mode's rules. baseOffset is the source
// offset of body[0], used for diagnostic spans; a BOM is rejected only as
// the first code point of body. It returns diagnostics (never more than
// one per offending rune under Strict, since strict mode stops at the
// first violation) and, for Sanitise mode, the body with offending runes
// replaced.
func ValidateString(body []byte, mode Mode, baseOffset uint32) ([]byte, diag.List) {
	if mode == Permissive {
		return body, nil
	}
	sev := diag.SeverityError
	if mode == Sanitise {
		sev = diag.SeverityWarning
	}

	var diags diag.List
	out := make([]byte, 0, len(body))
	i := 0
	first := true
	for i < len(body) {
		r, size := utf8.DecodeRune(body[i:])
		off := baseOffset + uint32(i)

		if r == utf8.RuneError && size <= 1 {
			code := diag.InvalidUTF8Sequence
			if !utf8.FullRune(body[i:]) {
				code = diag.IncompleteUTF8Sequence
			}
			diags.Add(diag.Diagnostic{Severity: sev, Span: span.New(off, off+uint32(size)), RuleID: code, Message: "invalid UTF-8 sequence in string"})
			if mode == Sanitise {
				out = append(out, string(replacementChar)...)
				i += maxInt(size, 1)
				first = false
				continue
			}
			return body, diags
		}

		violation := diag.Code("")
		switch {
		case first && r == '\uFEFF':
			violation = diag.BOMAtStringStart
		case r == '\r':
			violation = diag.CarriageReturnInString
		case isSurrogate(r):
			violation = diag.SurrogateInString
		case isNoncharacter(r):
			violation = diag.NoncharacterInString
		case isC0OrC1Control(r):
			violation = diag.ControlCharacterInString
		}

		if violation != "" {
			diags.Add(diag.Diagnostic{Severity: sev, Span: span.New(off, off+uint32(size)), RuleID: violation, Message: "disallowed code point in string under strict Unicode policy"})
			if mode == Sanitise {
				out = append(out, string(replacementChar)...)
				i += size
				first = false
				continue
			}
			return body, diags
		}

		out = append(out, body[i:i+size]...)
		i += size
		first = false
	}

	if mode == Strict {
		if !norm.NFC.IsNormal(out) {
			diags.Add(diag.Diagnostic{Severity: diag.SeverityInfo, Span: span.New(baseOffset, baseOffset+uint32(len(body))), RuleID: diag.NonCanonicalEncoding, Message: "string is not in Unicode Normalization Form C"})
		}
		return body, diags
	}
	return out, diags
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// DecodeJSONEscape decodes a JSON-style \uXXXX escape (with surrogate
// pair support). hi holds the 4 hex digits (the XXXX) of the first unit,
// and low, when non-nil, the 4 hex digits of a following \uXXXX low
// surrogate. Returns the decoded rune
// and whether a second escape unit was consumed.
func DecodeJSONEscape(hi [4]byte, low *[4]byte) (r rune, consumedLow bool, ok bool) {
	hiVal, ok := hex4(hi)
	if !ok {
		return 0, false, false
	}
	if hiVal < 0xD800 || hiVal > 0xDBFF {
		return rune(hiVal), false, true
	}
	if low == nil {
		// Lone high surrogate: caller decides whether to reject or
		// substitute, depending on mode.
		return rune(hiVal), false, true
	}
	loVal, ok := hex4(*low)
	if !ok || loVal < 0xDC00 || loVal > 0xDFFF {
		return rune(hiVal), false, true
	}
	combined := 0x10000 + (hiVal-0xD800)*0x400 + (loVal - 0xDC00)
	return rune(combined), true, true
}

func hex4(b [4]byte) (uint32, bool) {
	var v uint32
	for _, c := range b {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint32(c - '0')
		case c >= 'a' && c <= 'f':
			v |= uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= uint32(c-'A') + 10
		default:
			return 0, false
		}
	}
	return v, true
}

// DecodeRustEscape decodes a Rust-style \u{...} escape body (the hex
// digits between the braces, 1-6 of them).
func DecodeRustEscape(body []byte) (r rune, ok bool) {
	if len(body) == 0 || len(body) > 6 {
		return 0, false
	}
	var v uint32
	for _, c := range body {
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			return 0, false
		}
		v = v<<4 | d
	}
	if v > 0x10FFFF || isSurrogate(rune(v)) {
		return 0, false
	}
	return rune(v), true
}

// DecodeHexByteEscape decodes a \xNN escape body (exactly 2 hex digits).
func DecodeHexByteEscape(b0, b1 byte) (r rune, ok bool) {
	v, ok := hex4([4]byte{'0', '0', b0, b1})
	if !ok {
		return 0, false
	}
	return rune(v), true
}
