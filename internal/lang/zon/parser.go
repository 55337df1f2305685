package zon

import (
	"fmt"

	"github.com/stratumlang/stratum/internal/diag"
	"github.com/stratumlang/stratum/internal/span"
)

// Config enumerates the ZON parser's options.
type Config struct {
	ErrorRecoveryEnabled bool
	MaxDepth             int
	MaxErrors            int
	DeepNestingWarnAt    int
}

// DefaultConfig returns recovery-enabled parsing with a generous depth
// ceiling; ZON, unlike strict JSON, always permits trailing commas.
func DefaultConfig() Config {
	return Config{ErrorRecoveryEnabled: true, MaxDepth: 1000, MaxErrors: 200}
}

// RecoveredNode records a synthetic node inserted during error recovery.
type RecoveredNode struct {
	Node       NodeID
	Confidence float64
}

// ParseResult is the parser's best-effort, non-aborting output.
type ParseResult struct {
	Tree           *Tree
	Diagnostics    diag.List
	RecoveredNodes []RecoveredNode
	MaxDepthSeen   int
}

// Parser is a non-speculative recursive-descent consumer over a ZON
// token stream, grounded the same way internal/lang/json.Parser is: the
// teacher's arena tree construction, with an LR table swapped for a
// hand-written recursive descent to match the spec's C6 requirement.
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

// NewParser creates a Parser over a token stream produced by a Lexer.
func NewParser(toks []Token, cfg Config) *Parser {
	filtered := make([]Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != KindComment {
			filtered = append(filtered, t)
		}
	}
	return &Parser{toks: filtered, cfg: cfg, tree: newTree()}
}

// Parse parses a single ZON document: exactly one value, then EOF.
func (p *Parser) Parse() ParseResult {
	val := p.parseValue()
	if p.cur().Kind != KindEOF {
		p.recordUnexpected([]string{"eof"})
	}
	p.tree.root = val
	return ParseResult{Tree: p.tree, Diagnostics: p.diags, RecoveredNodes: p.recov, MaxDepthSeen: p.maxSeen}
}

func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
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
			case KindStructStart, KindParenOpen:
				nest++
			case KindStructEnd, KindParenClose:
				nest--
			}
			if nest <= 0 {
				break
			}
		}
		return p.insertMissing(sp)
	}

	t := p.cur()
	switch t.Kind {
	case KindStructStart:
		return p.parseStruct()
	case KindString:
		p.advance()
		return p.tree.alloc(Node{Kind: NodeString, Span: t.Span, Text: t.Text})
	case KindMultilineString:
		p.advance()
		return p.tree.alloc(Node{Kind: NodeMultilineString, Span: t.Span, Text: t.Text})
	case KindNumber:
		p.advance()
		return p.tree.alloc(Node{Kind: NodeNumber, Span: t.Span, Text: t.Text})
	case KindTrue, KindFalse:
		p.advance()
		return p.tree.alloc(Node{Kind: NodeBool, Span: t.Span, Text: t.Text})
	case KindUndefined:
		p.advance()
		return p.tree.alloc(Node{Kind: NodeUndefined, Span: t.Span})
	case KindIdentifier:
		p.advance()
		return p.tree.alloc(Node{Kind: NodeIdentifier, Span: t.Span, Text: t.Text})
	case KindImport:
		return p.parseImport()
	default:
		p.recordUnexpected([]string{"struct_start", "string", "number", "true", "false", "undefined", "identifier"})
		return p.recover(nil)
	}
}

func (p *Parser) parseImport() NodeID {
	start := p.advance() // consume '@import'
	if p.cur().Kind != KindParenOpen {
		p.recordUnexpected([]string{"paren_open"})
		return p.insertMissing(start.Span)
	}
	p.advance()
	var pathText []byte
	sp := start.Span
	if p.cur().Kind == KindString {
		s := p.advance()
		pathText = s.Text
		sp = sp.Merge(s.Span)
	} else {
		p.recordUnexpected([]string{"string"})
	}
	if p.cur().Kind == KindParenClose {
		sp = sp.Merge(p.advance().Span)
	} else {
		p.recordUnexpected([]string{"paren_close"})
	}
	return p.tree.alloc(Node{Kind: NodeImport, Span: sp, Text: pathText})
}

func (p *Parser) parseStruct() NodeID {
	start := p.advance() // consume ".{"
	var children []NodeID

	if p.cur().Kind == KindStructEnd {
		end := p.advance()
		return p.tree.alloc(Node{Kind: NodeStruct, Span: start.Span.Merge(end.Span), Children: children})
	}

	commaMissing := false
	for {
		if p.cur().Kind == KindEOF {
			p.recordUnexpected([]string{"field_name", "value", "struct_end"})
			break
		}
		elem := p.parseStructElement()
		if commaMissing {
			p.markRecovered(elem, 0.4)
			commaMissing = false
		}
		children = append(children, elem)

		switch p.cur().Kind {
		case KindComma:
			p.advance()
			if p.cur().Kind == KindStructEnd {
				break // trailing comma always allowed in ZON
			}
			continue
		case KindStructEnd:
		default:
			// Missing comma: treat it as present rather than
			// resyncing past the next element, so both elements
			// survive in the tree (the next one recovered).
			p.recordUnexpected([]string{"comma", "struct_end"})
			commaMissing = true
			continue
		}
		break
	}

	var end span.Span = start.Span
	if p.cur().Kind == KindStructEnd {
		end = p.advance().Span
	} else {
		p.recordUnexpected([]string{"struct_end"})
	}
	return p.tree.alloc(Node{Kind: NodeStruct, Span: start.Span.Merge(end), Children: children})
}

// parseStructElement parses either a `.name = value` field or a bare
// positional value.
func (p *Parser) parseStructElement() NodeID {
	if p.cur().Kind == KindFieldName {
		name := p.advance()
		if p.cur().Kind == KindEquals {
			p.advance()
		} else {
			p.recordUnexpected([]string{"equals"})
			p.syncWithin([]Kind{KindEquals})
			if p.cur().Kind == KindEquals {
				p.advance()
			}
		}
		val := p.parseValue()
		p.tree.nodes[val].FieldName = string(name.Text)
		p.tree.nodes[val].Span = name.Span.Merge(p.tree.nodes[val].Span)
		return val
	}
	return p.parseValue()
}

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

func (p *Parser) recover(resyncTo []Kind) NodeID {
	before := p.pos
	if resyncTo != nil {
		p.syncWithin(resyncTo)
	}
	if p.pos == before && p.cur().Kind != KindEOF {
		p.advance()
	}
	return p.insertMissing(p.cur().Span)
}

func (p *Parser) insertMissing(sp span.Span) NodeID {
	id := p.tree.alloc(Node{Kind: NodeError, Span: sp, IsMissing: true, HasError: true})
	p.recov = append(p.recov, RecoveredNode{Node: id, Confidence: 0.4})
	return id
}

// markRecovered retroactively flags an already-parsed node as the
// product of error recovery (e.g. an element parsed after a missing
// comma was tolerated) rather than discarding it, so the tree keeps
// every struct field/element the source text contains.
func (p *Parser) markRecovered(id NodeID, confidence float64) {
	p.tree.nodes[id].HasError = true
	p.recov = append(p.recov, RecoveredNode{Node: id, Confidence: confidence})
}
