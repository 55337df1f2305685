package json

import (
	"github.com/stratumlang/stratum/internal/incremental"
	"github.com/stratumlang/stratum/internal/lexer"
)

// DescribeNodes flattens t into the language-agnostic node refs the
// incremental reuse index needs.
func DescribeNodes(t *Tree) []incremental.NodeRef {
	out := make([]incremental.NodeRef, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = incremental.NodeRef{ID: int(i), Span: n.Span, Kind: int(n.Kind), HasError: n.HasError}
	}
	return out
}

// Reparse re-lexes and re-parses src given the edits applied since
// oldTree was produced. When no edit touches any node of oldTree, the
// old tree is returned unchanged (generation held steady by the
// caller); otherwise a full reparse runs and reused=false signals that
// the caller should bump the generation counter on any facts it derives
// from the result.
func Reparse(oldTree *Tree, edits []incremental.Edit, src []byte, g *lexer.Grammar, cfg Config) (result ParseResult, reused bool) {
	if oldTree != nil && incremental.WholeTreeReusable(DescribeNodes(oldTree), edits) {
		return ParseResult{Tree: oldTree}, true
	}
	lx := NewLexer(g)
	var toks []Token
	toks = append(toks, lx.ProcessChunk(src)...)
	toks = append(toks, lx.Finish()...)
	p := NewParser(toks, cfg)
	res := p.Parse()
	res.Diagnostics = append(res.Diagnostics, lx.Diagnostics()...)
	return res, false
}
