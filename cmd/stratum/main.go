// Command stratum parses a JSON or ZON file through the full pipeline —
// lex, parse, emit — wired as an internal/transform.Pipeline, then
// prints the diagnostics (tagged with the pipeline's run identity) and a
// parse-depth/bracket summary; for JSON it also prints the round-trip
// verdict, for ZON the emitted source. It exercises
// internal/transform and the language front-ends end-to-end the way
// cmd/ts2go exercises the teacher's grammar extraction pipeline.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/stratumlang/stratum/internal/bracket"
	"github.com/stratumlang/stratum/internal/diag"
	"github.com/stratumlang/stratum/internal/fact"
	"github.com/stratumlang/stratum/internal/lang"
	"github.com/stratumlang/stratum/internal/lang/json"
	"github.com/stratumlang/stratum/internal/lang/zon"
	"github.com/stratumlang/stratum/internal/transform"
)

func init() {
	lang.Register(lang.Entry{
		Name:       "json",
		Extensions: []string{".json", ".jsonc"},
		Grammar:    json.GrammarWithComments,
	})
	lang.Register(lang.Entry{
		Name:       "zon",
		Extensions: []string{".zon"},
		Grammar:    zon.Grammar,
	})
}

func main() {
	input := flag.String("input", "", "path to a .json or .zon file")
	langFlag := flag.String("lang", "", "force the language (json|zon); default: detect by extension")
	showFacts := flag.Bool("facts", false, "print derived facts")
	auditOnly := flag.Bool("audit", false, "print parse-support audit for registered languages and exit")
	flag.Parse()

	if *auditOnly {
		for _, s := range lang.AuditSupport() {
			fmt.Printf("%-6s backend=%-10s %s\n", s.Name, s.Backend, s.Reason)
		}
		return
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: stratum -input file.json [-lang json|zon] [-facts]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	src, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stratum: read %s: %v\n", *input, err)
		os.Exit(1)
	}

	name := *langFlag
	if name == "" {
		entry := lang.DetectByFilename(*input)
		if entry == nil {
			fmt.Fprintf(os.Stderr, "stratum: cannot detect language for %s; pass -lang\n", *input)
			os.Exit(1)
		}
		name = entry.Name
	}

	switch name {
	case "json":
		runJSON(src, *showFacts)
	case "zon":
		runZON(src, *showFacts)
	default:
		fmt.Fprintf(os.Stderr, "stratum: unknown language %q\n", name)
		os.Exit(1)
	}
}

func runJSON(src []byte, showFacts bool) {
	var collected diag.List
	var tracker *bracket.Tracker
	var parsed json.ParseResult

	pipe := transform.New()
	pipe.AddStage(transform.Transform{
		Name: "lex",
		Forward: func(in any) (any, error) {
			lx := json.NewLexer(json.GrammarWithComments())
			var toks []json.Token
			toks = append(toks, lx.ProcessChunk(in.([]byte))...)
			toks = append(toks, lx.Finish()...)
			collected = append(collected, lx.Diagnostics()...)
			tracker = lx.Tracker()
			return toks, nil
		},
	})
	pipe.AddStage(transform.Transform{
		Name: "parse",
		Forward: func(in any) (any, error) {
			p := json.NewParser(in.([]json.Token), json.DefaultConfig())
			parsed = p.Parse()
			collected = append(collected, parsed.Diagnostics...)
			return parsed.Tree, nil
		},
	})
	pipe.AddStage(transform.Transform{
		Name:    "emit",
		Forward: func(in any) (any, error) { return json.Emit(in.(*json.Tree)), nil },
	})

	out, err := pipe.Run(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stratum: %v\n", err)
		os.Exit(1)
	}
	emitted := out.([]byte)

	printDiagnostics(pipe.Tag(collected))
	fmt.Printf("max depth seen: %d, bracket balanced: %v, bracket max depth: %d\n",
		parsed.MaxDepthSeen, tracker.IsBalanced(), tracker.MaxDepth())

	reparsed := reparseJSON(emitted)
	fmt.Printf("round-trip stable: %v\n", bytes.Equal(bytes.TrimSpace(json.Emit(reparsed)), bytes.TrimSpace(emitted)))

	if showFacts {
		store := fact.NewStore()
		for _, rn := range parsed.RecoveredNodes {
			store.Add(fact.Fact{
				ID:         fact.NewID(),
				Subject:    parsed.Tree.Node(rn.Node).Span,
				Predicate:  fact.Predicate{Category: fact.CategorySyntactic, Name: "recovered"},
				Confidence: rn.Confidence,
			})
		}
		for _, f := range store.All() {
			fmt.Printf("fact: %s.%s @ %s conf=%.2f\n", f.Predicate.Category, f.Predicate.Name, f.Subject, f.Confidence)
		}
	}
}

func reparseJSON(src []byte) *json.Tree {
	lx := json.NewLexer(json.GrammarWithComments())
	var toks []json.Token
	toks = append(toks, lx.ProcessChunk(src)...)
	toks = append(toks, lx.Finish()...)
	p := json.NewParser(toks, json.DefaultConfig())
	return p.Parse().Tree
}

func runZON(src []byte, showFacts bool) {
	var collected diag.List
	var tracker *bracket.Tracker
	var parsed zon.ParseResult

	pipe := transform.New()
	pipe.AddStage(transform.Transform{
		Name: "lex",
		Forward: func(in any) (any, error) {
			lx := zon.NewLexer(zon.Grammar())
			var toks []zon.Token
			toks = append(toks, lx.ProcessChunk(in.([]byte))...)
			toks = append(toks, lx.Finish()...)
			collected = append(collected, lx.Diagnostics()...)
			tracker = lx.Tracker()
			return toks, nil
		},
	})
	pipe.AddStage(transform.Transform{
		Name: "parse",
		Forward: func(in any) (any, error) {
			p := zon.NewParser(in.([]zon.Token), zon.DefaultConfig())
			parsed = p.Parse()
			collected = append(collected, parsed.Diagnostics...)
			return parsed.Tree, nil
		},
	})
	pipe.AddStage(transform.Transform{
		Name:    "emit",
		Forward: func(in any) (any, error) { return zon.Emit(in.(*zon.Tree)), nil },
	})

	out, err := pipe.Run(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stratum: %v\n", err)
		os.Exit(1)
	}
	emitted := out.([]byte)

	printDiagnostics(pipe.Tag(collected))
	fmt.Printf("max depth seen: %d, bracket balanced: %v, bracket max depth: %d\n",
		parsed.MaxDepthSeen, tracker.IsBalanced(), tracker.MaxDepth())
	fmt.Printf("emitted: %s\n", strings.TrimSpace(string(emitted)))

	if showFacts {
		store := fact.NewStore()
		for _, rn := range parsed.RecoveredNodes {
			store.Add(fact.Fact{
				ID:         fact.NewID(),
				Subject:    parsed.Tree.Node(rn.Node).Span,
				Predicate:  fact.Predicate{Category: fact.CategorySyntactic, Name: "recovered"},
				Confidence: rn.Confidence,
			})
		}
		for _, f := range store.All() {
			fmt.Printf("fact: %s.%s @ %s conf=%.2f\n", f.Predicate.Category, f.Predicate.Name, f.Subject, f.Confidence)
		}
	}
}

func printDiagnostics(diags diag.List) {
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s: %s at %s (%s)\n", d.Severity, d.Message, d.Span, d.RuleID)
	}
}
