package json

import (
	"fmt"

	"github.com/stratumlang/stratum/internal/diag"
	"github.com/stratumlang/stratum/internal/span"
)

// Config enumerates the JSON parser's options, named the way the
// external interface contract names them.
type Config struct {
	AllowTrailingCommas bool
	ErrorRecoveryEnabled bool
	MaxDepth            int
	MaxErrors           int
	DeepNestingWarnAt   int // 0 disables the informational diagnostic
}

// DefaultConfig returns strict-JSON parsing with recovery enabled, a
// depth ceiling generous enough for real documents, and deep-nesting
// warnings disabled.
func DefaultConfig() Config {
	return Config{ErrorRecoveryEnabled: true, MaxDepth: 1000, MaxErrors: 200}
}

// RecoveredNode records a synthetic AST node the parser inserted during
// error recovery, with the confidence the spec requires.
type RecoveredNode struct {
	Node       NodeID
	Confidence float64
	Inserted   []span.Span // synthetic token spans inserted to complete the shape
}

// ParseResult is the parser's non-aborting output: a best-effort tree is
// always returned alongside whatever diagnostics were recorded.
type ParseResult struct {
	Tree           *Tree
	Diagnostics    diag.List
	RecoveredNodes []RecoveredNode
	MaxDepthSeen   int
}

// Parser is a non-speculative recursive-descent consumer over a fully
// materialised JSON token stream. It is grounded on the teacher's
// arena-based tree construction (gotreesitter.Tree) with the parsing
// strategy itself replaced: the teacher drives an LR/GLR table, this
// walks a grammar with one function per production, since the spec
// requires recursive descent with an explicit resynchronisation rule.
type Parser struct {
	toks []Token
	pos  int
	cfg  Config

	tree    *Tree
	diags   diag.List
	recov   []RecoveredNode
	depth   int
	maxSeen int
}

// NewParser creates a Parser over a token stream already produced by a
// Lexer (ProcessChunk/Finish calls concatenated, ending in KindEOF).
// Trivia (comments) are filtered out here; callers who need them
// preserved should consult the Lexer's own output instead.
func NewParser(toks []Token, cfg Config) *Parser {
	filtered := make([]Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != KindComment {
			filtered = append(filtered, t)
		}
	}
	return &Parser{toks: filtered, cfg: cfg, tree: newTree()}
}

// Parse parses a single JSON document: exactly one value, then EOF.
func (p *Parser) Parse() ParseResult {
	val := p.parseValue()
	p.expectEOF()
	p.tree.root = val
	return ParseResult{Tree: p.tree, Diagnostics: p.diags, RecoveredNodes: p.recov, MaxDepthSeen: p.maxSeen}
}

func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 || t.Kind != KindEOF {
		p.pos++
	}
	return t
}

func (p *Parser) expectEOF() {
	if p.cur().Kind != KindEOF {
		p.recordUnexpected([]string{"eof"})
	}
}

func (p *Parser) recordUnexpected(expected []string) {
	t := p.cur()
	p.diags.Add(diag.Diagnostic{
		Severity:      diag.SeverityError,
		Span:          t.Span,
		RuleID:        diag.UnexpectedToken,
		Message:       fmt.Sprintf("unexpected token %s", t.Kind),
		ExpectedKinds: expected,
	})
}

// parseValue parses any JSON value, applying error recovery on an
// unexpected lead token.
func (p *Parser) parseValue() NodeID {
	p.depth++
	if p.depth > p.maxSeen {
		p.maxSeen = p.depth
	}
	if p.cfg.DeepNestingWarnAt > 0 && p.depth == p.cfg.DeepNestingWarnAt {
		p.diags.Add(diag.Diagnostic{Severity: diag.SeverityInfo, Span: p.cur().Span, RuleID: diag.DeepNesting, Message: "nesting depth exceeds configured warning threshold"})
	}
	defer func() { p.depth-- }()

	if p.cfg.MaxDepth > 0 && p.depth > p.cfg.MaxDepth {
		p.diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: p.cur().Span, RuleID: diag.DepthExceeded, Message: "maximum parse depth exceeded"})
		sp := p.cur().Span
		// Skip the too-deep value: one token, or a whole bracketed group.
		for nest := 0; p.cur().Kind != KindEOF; {
			switch p.advance().Kind {
			case KindObjectStart, KindArrayStart:
				nest++
			case KindObjectEnd, KindArrayEnd:
				nest--
			}
			if nest <= 0 {
				break
			}
		}
		return p.insertMissing(NodeError, sp, 0.0)
	}

	t := p.cur()
	switch t.Kind {
	case KindObjectStart:
		return p.parseObject()
	case KindArrayStart:
		return p.parseArray()
	case KindString:
		p.advance()
		return p.tree.alloc(Node{Kind: NodeString, Span: t.Span, Text: t.Text})
	case KindNumber:
		p.advance()
		return p.tree.alloc(Node{Kind: NodeNumber, Span: t.Span, Text: t.Text})
	case KindTrue, KindFalse:
		p.advance()
		return p.tree.alloc(Node{Kind: NodeBool, Span: t.Span, Text: t.Text})
	case KindNull:
		p.advance()
		return p.tree.alloc(Node{Kind: NodeNull, Span: t.Span, Text: t.Text})
	default:
		p.recordUnexpected([]string{"object_start", "array_start", "string", "number", "true", "false", "null"})
		return p.recover(nil)
	}
}

func (p *Parser) parseObject() NodeID {
	start := p.advance() // consume '{'
	var members []NodeID

	if p.cur().Kind == KindObjectEnd {
		end := p.advance()
		return p.tree.alloc(Node{Kind: NodeObject, Span: spanCover(start.Span, end.Span), Children: members})
	}

	commaMissing := false
	for {
		if p.cur().Kind == KindEOF {
			p.recordUnexpected([]string{"string", "object_end"})
			break
		}
		member := p.parseMember()
		if commaMissing {
			p.markRecovered(member, 0.4)
			commaMissing = false
		}
		members = append(members, member)

		switch p.cur().Kind {
		case KindComma:
			comma := p.advance()
			if p.cur().Kind == KindObjectEnd {
				if !p.cfg.AllowTrailingCommas {
					p.diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: comma.Span, RuleID: diag.TrailingCommaNotAllowed, Message: "trailing comma not allowed in strict JSON"})
				}
				break
			}
			continue
		case KindObjectEnd:
		default:
			// Missing comma: treat it as present rather than
			// resyncing past the next member, so both members
			// survive in the tree (the next one recovered).
			p.recordUnexpected([]string{"comma", "object_end"})
			commaMissing = true
			continue
		}
		break
	}

	end := p.expectClose(KindObjectEnd, start.Span)
	return p.tree.alloc(Node{Kind: NodeObject, Span: spanCover(start.Span, end), Children: members})
}

func (p *Parser) parseMember() NodeID {
	keyTok := p.cur()
	var keyNode NodeID
	if keyTok.Kind == KindString {
		p.advance()
		keyNode = p.tree.alloc(Node{Kind: NodeString, Span: keyTok.Span, Text: keyTok.Text, FieldName: "key"})
	} else {
		p.recordUnexpected([]string{"string"})
		keyNode = p.recover([]Kind{KindColon, KindComma, KindObjectEnd})
	}

	if p.cur().Kind == KindColon {
		p.advance()
	} else {
		p.recordUnexpected([]string{"colon"})
		p.syncWithin([]Kind{KindColon})
		if p.cur().Kind == KindColon {
			p.advance()
		}
	}

	valNode := p.parseValue()
	p.tree.nodes[valNode].FieldName = "value"
	memberSpan := spanCover(p.tree.Node(keyNode).Span, p.tree.Node(valNode).Span)
	return p.tree.alloc(Node{Kind: NodeMember, Span: memberSpan, Children: []NodeID{keyNode, valNode}})
}

func (p *Parser) parseArray() NodeID {
	start := p.advance() // consume '['
	var elems []NodeID

	if p.cur().Kind == KindArrayEnd {
		end := p.advance()
		return p.tree.alloc(Node{Kind: NodeArray, Span: spanCover(start.Span, end.Span), Children: elems})
	}

	commaMissing := false
	for {
		if p.cur().Kind == KindEOF {
			p.recordUnexpected([]string{"value", "array_end"})
			break
		}
		elem := p.parseValue()
		if commaMissing {
			p.markRecovered(elem, 0.4)
			commaMissing = false
		}
		elems = append(elems, elem)

		switch p.cur().Kind {
		case KindComma:
			comma := p.advance()
			if p.cur().Kind == KindArrayEnd {
				if !p.cfg.AllowTrailingCommas {
					p.diags.Add(diag.Diagnostic{Severity: diag.SeverityError, Span: comma.Span, RuleID: diag.TrailingCommaNotAllowed, Message: "trailing comma not allowed in strict JSON"})
				}
				break
			}
			continue
		case KindArrayEnd:
		default:
			// Missing comma: treat it as present rather than
			// resyncing past the next element, so both elements
			// survive in the tree (the next one recovered).
			p.recordUnexpected([]string{"comma", "array_end"})
			commaMissing = true
			continue
		}
		break
	}

	end := p.expectClose(KindArrayEnd, start.Span)
	return p.tree.alloc(Node{Kind: NodeArray, Span: spanCover(start.Span, end), Children: elems})
}

func (p *Parser) expectClose(kind Kind, openSpan span.Span) span.Span {
	if p.cur().Kind == kind {
		return p.advance().Span
	}
	p.recordUnexpected([]string{kind.String()})
	return openSpan
}

// syncWithin advances past tokens until one in stop is current, EOF is
// reached, or no progress would be made. Returns false if it gave up at
// EOF without finding a stop token. Every call consumes at least one
// token when it does not immediately match, guaranteeing recovery
// progress.
func (p *Parser) syncWithin(stop []Kind) bool {
	for {
		c := p.cur().Kind
		if c == KindEOF {
			return false
		}
		for _, s := range stop {
			if c == s {
				return true
			}
		}
		p.advance()
	}
}

// recover inserts a minimally-constructed error node, optionally
// resynchronising to one of the given resync kinds first. It is the
// single path through which every "unexpected token" case funnels, so
// the progress guarantee (consume ≥ 1 token or reduce depth) holds
// uniformly.
func (p *Parser) recover(resyncTo []Kind) NodeID {
	before := p.pos
	if resyncTo != nil {
		p.syncWithin(resyncTo)
	}
	if p.pos == before && p.cur().Kind != KindEOF {
		p.advance()
	}
	sp := p.cur().Span
	id := p.insertMissing(NodeError, sp, 0.4)
	return id
}

func (p *Parser) insertMissing(kind NodeKind, sp span.Span, confidence float64) NodeID {
	id := p.tree.alloc(Node{Kind: kind, Span: sp, IsMissing: true, HasError: true})
	p.recov = append(p.recov, RecoveredNode{Node: id, Confidence: confidence})
	return id
}

// markRecovered retroactively flags an already-parsed node as the
// product of error recovery (e.g. a member parsed after a missing
// comma was tolerated) rather than discarding it, so the tree keeps
// every member/element the source text contains.
func (p *Parser) markRecovered(id NodeID, confidence float64) {
	p.tree.nodes[id].HasError = true
	p.recov = append(p.recov, RecoveredNode{Node: id, Confidence: confidence})
}

func spanCover(a, b span.Span) span.Span {
	return a.Merge(b)
}
