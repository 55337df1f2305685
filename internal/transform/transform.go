// Package transform implements the cross-layer Transform Pipeline (part
// of C7): a named forward/reverse pair with metadata, a Pipeline that
// chains such transforms and exposes a testable round-trip property, and
// an AnalysisPass engine that topologically sorts declared dependencies
// before executing. It is grounded on the teacher's Highlighter
// composition (gotreesitter/highlight.go, functional-option chaining of
// a token-source factory over a parse step) and on incremental.go's
// generation-aware reuse index, generalised from "one highlight pass"
// to "an arbitrary chain of reversible stages plus dependent analysis
// passes." Pipeline run identity uses google/uuid, matching the
// teacher's own dependency.
package transform

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/stratumlang/stratum/internal/diag"
)

// Metadata is free-form stage bookkeeping (e.g. which dialect options
// were in effect).
type Metadata map[string]string

// Transform is one named, optionally-reversible pipeline stage. Forward
// is required; Reverse is nil for stages with no inverse (e.g. an
// analysis pass that only produces facts).
type Transform struct {
	Name     string
	Forward  func(in any) (any, error)
	Reverse  func(out any) (any, error)
	Metadata Metadata
}

// Reversible reports whether this stage has an inverse.
func (t Transform) Reversible() bool { return t.Reverse != nil }

// StageError attaches stage identity to a failure, as the spec's error
// propagation policy requires ("stage identity, source span, message").
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %q: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Pipeline is an ordered composition of Transforms: bytes → tokens → AST
// → facts, per the spec. Each stage's Forward errors are treated as
// fatal to the pipeline (allocation failure, an unrecoverable stage
// precondition) — the recoverable, per-token/per-node diagnostics the
// spec also describes live inside each stage's own result value (a
// diag.List carried alongside tokens/AST), never escalate to a Go error,
// and so never stop the pipeline. A Pipeline instance is not required to
// be thread-safe, but distinct Pipelines over disjoint inputs may run
// concurrently.
type Pipeline struct {
	RunID  uuid.UUID
	Stages []Transform
}

// New creates an empty Pipeline with a fresh run identity.
func New() *Pipeline {
	return &Pipeline{RunID: uuid.New()}
}

// AddStage appends a stage to the pipeline.
func (p *Pipeline) AddStage(t Transform) *Pipeline {
	p.Stages = append(p.Stages, t)
	return p
}

// Tag stamps every diagnostic in diags with this pipeline's run
// identity, so diagnostics a caller collects across several stages'
// results (each stage reports its own diag.List alongside its output,
// per the fatal-vs-recoverable split documented on Pipeline) can later
// be correlated back to the run that produced them.
func (p *Pipeline) Tag(diags diag.List) diag.List {
	return diags.Tag(p.RunID.String())
}

// Run executes every stage's Forward function in order, threading each
// stage's output into the next stage's input, and returns the final
// value. It stops at the first fatal stage error.
func (p *Pipeline) Run(input any) (any, error) {
	cur := input
	for _, stage := range p.Stages {
		out, err := stage.Forward(cur)
		if err != nil {
			return nil, &StageError{Stage: stage.Name, Err: err}
		}
		cur = out
	}
	return cur, nil
}

// RoundTrip runs every stage's Reverse function in reverse order (last
// stage first) against output, recovering an approximation of the
// original input, and fails with a StageError at the first stage that
// has no Reverse; it is used by callers that want
// parse(emit(parse(s))) style round-trip checks without hand-wiring each
// language's own forward/reverse pair (see internal/lang/json and
// internal/lang/zon, which expose Parse/Emit directly for that purpose).
func (p *Pipeline) RoundTrip(output any) (any, error) {
	cur := output
	for i := len(p.Stages) - 1; i >= 0; i-- {
		stage := p.Stages[i]
		if !stage.Reversible() {
			return nil, &StageError{Stage: stage.Name, Err: fmt.Errorf("stage is not reversible")}
		}
		in, err := stage.Reverse(cur)
		if err != nil {
			return nil, &StageError{Stage: stage.Name, Err: err}
		}
		cur = in
	}
	return cur, nil
}
