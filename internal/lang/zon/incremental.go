package zon

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

// Reparse mirrors internal/lang/json.Reparse for the ZON grammar: if no
// edit touches any node of oldTree it is returned as-is, otherwise a
// full reparse runs and reused=false tells the caller to advance the
// fact generation counter.
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
