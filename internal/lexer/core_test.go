package lexer

import (
	"testing"

	"github.com/stratumlang/stratum/internal/span"
)

func testGrammar() *Grammar {
	return &Grammar{
		Name: "test",
		Delimiters: []DelimiterRule{
			{Byte: '{', Type: span.DelimiterBrace, Open: true},
			{Byte: '}', Type: span.DelimiterBrace, Open: false},
			{Byte: '[', Type: span.DelimiterBracket, Open: true},
			{Byte: ']', Type: span.DelimiterBracket, Open: false},
		},
		StringQuotes:          []byte{'"'},
		AllowBackslashEscapes: true,
		LineCommentPrefix:     "//",
		BlockCommentStart:     "/*",
		BlockCommentEnd:       "*/",
		Keywords: map[string]span.Kind{
			"true":  span.KindBooleanLiteral,
			"false": span.KindBooleanLiteral,
			"null":  span.KindNullLiteral,
		},
	}
}

type simpleTok struct {
	kind span.Kind
	text string
}

func lexWhole(g *Grammar, src []byte) []simpleTok {
	c := NewCore(g)
	var out []Token
	out = append(out, c.ProcessChunk(src)...)
	out = append(out, c.Finish()...)
	return simplify(out)
}

func lexChunked(g *Grammar, src []byte, chunkSize int) []simpleTok {
	c := NewCore(g)
	var out []Token
	for i := 0; i < len(src); i += chunkSize {
		end := i + chunkSize
		if end > len(src) {
			end = len(src)
		}
		out = append(out, c.ProcessChunk(src[i:end])...)
	}
	out = append(out, c.Finish()...)
	return simplify(out)
}

func simplify(toks []Token) []simpleTok {
	out := make([]simpleTok, len(toks))
	for i, t := range toks {
		out[i] = simpleTok{kind: t.Kind, text: string(t.Text)}
	}
	return out
}

func TestBasicTokenStream(t *testing.T) {
	g := testGrammar()
	got := lexWhole(g, []byte(`{"a": 1, "b": [true, null]}`))
	want := []span.Kind{
		span.KindDelimiterOpen, span.KindStringLiteral, span.KindOperator,
		span.KindNumberLiteral, span.KindOperator, span.KindStringLiteral,
		span.KindOperator, span.KindDelimiterOpen, span.KindBooleanLiteral,
		span.KindOperator, span.KindNullLiteral, span.KindDelimiterClose,
		span.KindDelimiterClose, span.KindEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].kind != want[i] {
			t.Fatalf("token %d: got kind %v, want %v (%+v)", i, got[i].kind, want[i], got)
		}
	}
}

func TestChunkSafetyAtEveryBoundary(t *testing.T) {
	g := testGrammar()
	src := []byte(`{"name": "hello world", "count": 42.5e1, "flag": false, "list": [1,2,3], // trailing comment
"block": /* inline */ null}`)
	whole := lexWhole(g, src)
	for size := 1; size <= len(src); size++ {
		chunked := lexChunked(g, src, size)
		if len(chunked) != len(whole) {
			t.Fatalf("chunk size %d: got %d tokens, want %d", size, len(chunked), len(whole))
		}
		for i := range whole {
			if chunked[i] != whole[i] {
				t.Fatalf("chunk size %d, token %d: got %+v, want %+v", size, i, chunked[i], whole[i])
			}
		}
	}
}

func TestUnterminatedStringAtEOF(t *testing.T) {
	g := testGrammar()
	c := NewCore(g)
	toks := append(c.ProcessChunk([]byte(`"abc`)), c.Finish()...)
	if len(toks) != 2 {
		t.Fatalf("expected error token + EOF, got %+v", toks)
	}
	if toks[0].Kind != span.KindError || toks[0].Diagnostic == nil {
		t.Fatalf("expected an error token with a diagnostic, got %+v", toks[0])
	}
}

func TestBracketDepthTracking(t *testing.T) {
	g := testGrammar()
	c := NewCore(g)
	toks := append(c.ProcessChunk([]byte(`[[[1]]]`)), c.Finish()...)
	var maxDepth uint16
	for _, tok := range toks {
		if tok.BracketDepth > maxDepth {
			maxDepth = tok.BracketDepth
		}
	}
	if maxDepth != 3 {
		t.Fatalf("expected max depth 3, got %d", maxDepth)
	}
	if c.BracketDepth() != 0 {
		t.Fatalf("expected balanced depth 0 after full close, got %d", c.BracketDepth())
	}
}

func TestUnmatchedCloseIsCounted(t *testing.T) {
	g := testGrammar()
	c := NewCore(g)
	c.ProcessChunk([]byte(`}`))
	c.Finish()
	if c.UnmatchedCloses() != 1 {
		t.Fatalf("expected 1 unmatched close, got %d", c.UnmatchedCloses())
	}
}

func TestMultilineStringPrefix(t *testing.T) {
	g := testGrammar()
	g.MultilineStringPrefix = `\\`
	src := []byte("\\\\line one\n\\\\line two")
	toks := lexWhole(g, src)
	var segments int
	for _, tok := range toks {
		if tok.kind == span.KindStringLiteral {
			segments++
		}
	}
	if segments != 2 {
		t.Fatalf("expected 2 multiline string segments, got %d (%+v)", segments, toks)
	}
}

func TestLineCommentIsTrivia(t *testing.T) {
	g := testGrammar()
	c := NewCore(g)
	toks := append(c.ProcessChunk([]byte("// a comment\n1")), c.Finish()...)
	var sawComment bool
	for _, tok := range toks {
		if tok.Kind == span.KindComment {
			sawComment = true
			if tok.Flags&span.FlagTrivia == 0 {
				t.Fatalf("comment token must be flagged as trivia")
			}
		}
	}
	if !sawComment {
		t.Fatalf("expected a comment token")
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	g := testGrammar()
	c := NewCore(g)
	toks := append(c.ProcessChunk([]byte("/* never closes")), c.Finish()...)
	if toks[0].Kind != span.KindError {
		t.Fatalf("expected an error token for unterminated block comment, got %+v", toks[0])
	}
}

func TestMaxContainerDepthExceeded(t *testing.T) {
	g := testGrammar()
	c := NewCore(g)
	src := make([]byte, maxContainerDepth+10)
	for i := range src {
		src[i] = '['
	}
	toks := append(c.ProcessChunk(src), c.Finish()...)
	var sawDepthError bool
	for _, tok := range toks {
		if tok.Kind == span.KindError && tok.Diagnostic != nil {
			sawDepthError = true
		}
	}
	if !sawDepthError {
		t.Fatalf("expected a max-depth error token")
	}
}
