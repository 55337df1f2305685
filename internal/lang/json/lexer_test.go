package json

import (
	"testing"

	"github.com/stratumlang/stratum/internal/diag"
	"github.com/stratumlang/stratum/internal/unicodepolicy"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lx := NewLexer(GrammarWithComments())
	var toks []Token
	toks = append(toks, lx.ProcessChunk([]byte(src))...)
	toks = append(toks, lx.Finish()...)
	return toks
}

func TestLexerBasicObject(t *testing.T) {
	toks := lexAll(t, `{"a":1}`)
	want := []Kind{KindObjectStart, KindString, KindColon, KindNumber, KindObjectEnd, KindEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexerTracksBracketDepth(t *testing.T) {
	lx := NewLexer(Grammar())
	toks := append(lx.ProcessChunk([]byte(`[[1]]`)), lx.Finish()...)
	var max uint16
	for _, tok := range toks {
		if tok.Depth > max {
			max = tok.Depth
		}
	}
	if max != 2 {
		t.Fatalf("got max depth %d, want 2", max)
	}
	if !lx.Tracker().IsBalanced() {
		t.Fatalf("expected balanced tracker")
	}
}

func TestLexerUnmatchedBracketDiagnostic(t *testing.T) {
	lx := NewLexer(Grammar())
	lx.ProcessChunk([]byte(`]`))
	lx.Finish()
	if !lx.Diagnostics().HasErrors() {
		t.Fatalf("expected a diagnostic for the unmatched closing bracket")
	}
}

func TestLexerCommentsProjectedAsComment(t *testing.T) {
	toks := lexAll(t, "// hi\n1")
	if toks[0].Kind != KindComment {
		t.Fatalf("expected a comment token, got %v", toks[0].Kind)
	}
}

func TestLexerDecodesUnicodeEscape(t *testing.T) {
	// S2: {"k":"vé"} — the string token's value is
	// escape-processed to "vé", not kept as the raw escaped source text.
	src := "{\"k\":\"v\\u00e9\"}"
	toks := lexAll(t, src)
	var got []byte
	for _, tok := range toks {
		if tok.Kind == KindString && string(tok.Text) != "k" {
			got = tok.Text
		}
	}
	if string(got) != "vé" {
		t.Fatalf("got %q, want %q", got, "vé")
	}
}

func TestLexerUnicodeModeDefaultsToPermissive(t *testing.T) {
	lx := NewLexer(GrammarWithComments())
	toks := append(lx.ProcessChunk([]byte("\"\x00\"")), lx.Finish()...)
	if lx.Diagnostics().HasErrors() {
		t.Fatalf("expected no diagnostics under the default permissive mode, got %+v", lx.Diagnostics())
	}
	for _, tok := range toks {
		if tok.Kind == KindString && string(tok.Text) != "\x00" {
			t.Fatalf("expected the NUL byte to pass through unsanitised, got %q", tok.Text)
		}
	}
}

func TestLexerUnicodeModeStrictRejectsControlChar(t *testing.T) {
	// S6: strict mode on a string containing a literal NUL byte.
	lx := NewLexer(GrammarWithComments(), WithUnicodeMode(unicodepolicy.Strict))
	lx.ProcessChunk([]byte("\"\x00\""))
	lx.Finish()

	var found bool
	for _, d := range lx.Diagnostics() {
		if d.RuleID == diag.ControlCharacterInString {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a control_character_in_string diagnostic under strict mode, got %+v", lx.Diagnostics())
	}
}

func TestLexerUnicodeModeSanitiseReplacesControlChar(t *testing.T) {
	lx := NewLexer(GrammarWithComments(), WithUnicodeMode(unicodepolicy.Sanitise))
	toks := append(lx.ProcessChunk([]byte("\"\x00\"")), lx.Finish()...)

	var got []byte
	for _, tok := range toks {
		if tok.Kind == KindString {
			got = tok.Text
		}
	}
	if string(got) != "�" {
		t.Fatalf("expected the control char replaced with U+FFFD, got %q", got)
	}
}

func TestLexerBooleanAndNull(t *testing.T) {
	toks := lexAll(t, `[true,false,null]`)
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []Kind{KindArrayStart, KindTrue, KindComma, KindFalse, KindComma, KindNull, KindArrayEnd, KindEOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
}
